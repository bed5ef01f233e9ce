package services

import (
	"context"

	"whisper-api/internal/api/v1/dto"
	"whisper-api/internal/app/model"
)

// TranscriptionService defines the interface for transcription operations
type TranscriptionService interface {
	Run(ctx context.Context, ref model.InputReference, language string) (*model.TranscriptResult, error)
}

// ProviderService defines the interface for provider status operations
type ProviderService interface {
	GetHealth(ctx context.Context) *dto.HealthResponse
	GetInfo(ctx context.Context) *dto.InfoResponse
}
