package whisper_cpp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"whisper-api/internal/app/util/files"
	"whisper-api/internal/config"
)

// ProviderInfo describes the running recognition service.
type ProviderInfo struct {
	Service          string   `json:"service"`
	Version          string   `json:"version"`
	Model            string   `json:"model"`
	Language         string   `json:"language"`
	SupportedFormats []string `json:"supported_formats"`
}

// GetProviderInfo returns metadata about the whisper.cpp provider
func (lt *LocalTranscriber) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Service:  config.ServiceName,
		Version:  config.ServiceVersion,
		Model:    lt.modelName,
		Language: lt.language,
		SupportedFormats: lo.Map(files.SupportedAudioExtensions, func(ext string, _ int) string {
			return strings.TrimPrefix(ext, ".")
		}),
	}
}

// Language is the default recognition language.
func (lt *LocalTranscriber) Language() string {
	return lt.language
}

// ModelLoaded reports whether the configured model file is present.
func (lt *LocalTranscriber) ModelLoaded() bool {
	info, err := os.Stat(lt.modelPath)
	return err == nil && info.Mode().IsRegular()
}

// ValidateConfiguration validates the provider configuration
func (lt *LocalTranscriber) ValidateConfiguration() error {
	if _, err := os.Stat(lt.binaryPath); os.IsNotExist(err) {
		return fmt.Errorf("whisper.cpp binary not found at %s", lt.binaryPath)
	}

	if !lt.ModelLoaded() {
		return fmt.Errorf("whisper model not found at %s", lt.modelPath)
	}

	if err := files.EnsureDir(lt.scratchDir); err != nil {
		return fmt.Errorf("cannot create scratch directory %s: %w", lt.scratchDir, err)
	}

	return nil
}

// HealthCheck performs a health check on the provider
func (lt *LocalTranscriber) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := lt.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
