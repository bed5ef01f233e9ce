package services

import (
	"context"

	"whisper-api/internal/api/v1/dto"
	"whisper-api/internal/app/api/whisper_cpp"
)

// Provider is what the status endpoints need from the recognizer.
type Provider interface {
	GetProviderInfo() whisper_cpp.ProviderInfo
	ModelLoaded() bool
	Language() string
}

// ProviderServiceImpl implements ProviderService
type ProviderServiceImpl struct {
	provider Provider
}

// NewProviderService creates a new provider service
func NewProviderService(provider Provider) ProviderService {
	return &ProviderServiceImpl{provider: provider}
}

// GetHealth reports whether the model file is present.
func (s *ProviderServiceImpl) GetHealth(ctx context.Context) *dto.HealthResponse {
	loaded := s.provider.ModelLoaded()
	status := "healthy"
	if !loaded {
		status = "unhealthy"
	}
	return &dto.HealthResponse{
		Status:      status,
		ModelLoaded: loaded,
		Language:    s.provider.Language(),
	}
}

// GetInfo returns static service metadata.
func (s *ProviderServiceImpl) GetInfo(ctx context.Context) *dto.InfoResponse {
	info := s.provider.GetProviderInfo()
	return &dto.InfoResponse{
		Service:          info.Service,
		Version:          info.Version,
		Model:            info.Model,
		Language:         info.Language,
		SupportedFormats: info.SupportedFormats,
	}
}
