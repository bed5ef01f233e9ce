package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"whisper-api/internal/app/api/whisper_cpp"
)

type fakeProvider struct {
	loaded bool
}

func (f fakeProvider) GetProviderInfo() whisper_cpp.ProviderInfo {
	return whisper_cpp.ProviderInfo{
		Service:          "LearnJoy Whisper Transcription",
		Version:          "1.0.0",
		Model:            "ggml-medium",
		Language:         "ja",
		SupportedFormats: []string{"mp3", "wav"},
	}
}

func (f fakeProvider) ModelLoaded() bool { return f.loaded }

func (f fakeProvider) Language() string { return "ja" }

func TestProviderService_GetHealth(t *testing.T) {
	healthy := NewProviderService(fakeProvider{loaded: true}).GetHealth(context.Background())
	assert.Equal(t, "healthy", healthy.Status)
	assert.True(t, healthy.Healthy())
	assert.Equal(t, "ja", healthy.Language)

	unhealthy := NewProviderService(fakeProvider{}).GetHealth(context.Background())
	assert.Equal(t, "unhealthy", unhealthy.Status)
	assert.False(t, unhealthy.ModelLoaded)
}

func TestProviderService_GetInfo(t *testing.T) {
	info := NewProviderService(fakeProvider{}).GetInfo(context.Background())
	assert.Equal(t, "LearnJoy Whisper Transcription", info.Service)
	assert.Equal(t, "ggml-medium", info.Model)
	assert.Equal(t, []string{"mp3", "wav"}, info.SupportedFormats)
}
