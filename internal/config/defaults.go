package config

import "time"

// Service defaults, matching the container image layout.
const (
	DefaultLanguage   = "ja"
	DefaultWhisperDir = "/app/whisper.cpp"
	DefaultModelName  = "ggml-medium"
	DefaultUploadDir  = "/uploads"
	DefaultFFmpeg     = "ffmpeg"
	DefaultHost       = "0.0.0.0"
	DefaultHTTPPort   = "5000"

	DefaultConvertTimeout   = 300 * time.Second
	DefaultRecognizeTimeout = 600 * time.Second
	DefaultDownloadTimeout  = 120 * time.Second

	// DefaultReadTimeout bounds reading a whole request, upload body included.
	DefaultReadTimeout = 10 * time.Minute
	DefaultIdleTimeout = 120 * time.Second
	// WriteTimeoutMargin is added to the pipeline budget when WRITE_TIMEOUT
	// is not set, leaving room for the upload and the response.
	WriteTimeoutMargin = time.Minute

	ServiceName    = "LearnJoy Whisper Transcription"
	ServiceVersion = "1.0.0"
)
