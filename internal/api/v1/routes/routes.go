package routes

import (
	"github.com/gin-gonic/gin"
	"whisper-api/internal/api/v1/handlers"
	"whisper-api/internal/api/v1/services"
)

// RegisterRoutes registers the service endpoints on router.
func RegisterRoutes(router gin.IRoutes, container *ServiceContainer) {
	providerHandler := handlers.NewProviderHandler(container.ProviderService)
	router.GET("/health", providerHandler.Health)
	router.GET("/info", providerHandler.Info)

	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService)
	router.POST("/transcribe", transcriptionHandler.Transcribe)
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
	ProviderService      services.ProviderService
}
