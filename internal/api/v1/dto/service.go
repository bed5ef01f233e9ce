package dto

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	ModelLoaded bool   `json:"model_loaded" example:"true"`
	Language    string `json:"language" example:"ja"`
}

// Healthy reports whether the service can transcribe.
func (h *HealthResponse) Healthy() bool {
	return h.ModelLoaded
}

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	Service          string   `json:"service" example:"LearnJoy Whisper Transcription"`
	Version          string   `json:"version" example:"1.0.0"`
	Model            string   `json:"model" example:"ggml-medium"`
	Language         string   `json:"language" example:"ja"`
	SupportedFormats []string `json:"supported_formats"`
}
