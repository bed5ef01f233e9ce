package dto

import (
	"whisper-api/internal/app/model"
	"whisper-api/internal/config"
)

// TranscribeRequest is the JSON form of POST /transcribe.
type TranscribeRequest struct {
	// FilePath is an absolute path, a path relative to the upload root,
	// an http(s):// URL or an s3://bucket/key reference.
	FilePath string `json:"file_path" binding:"required" example:"lessons/42.m4a"`
	// Language overrides the configured recognition language.
	Language string `json:"language,omitempty" example:"ja"`
}

// Validate performs domain-specific validation
func (r *TranscribeRequest) Validate() error {
	if r.Language != "" {
		return config.ValidateLanguage(r.Language)
	}
	return nil
}

// TranscriptionResponse is the body of a successful POST /transcribe.
type TranscriptionResponse = model.TranscriptResult
