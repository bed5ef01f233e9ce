package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"whisper-api/internal/api/v1/services"
)

// ProviderHandler serves the recognizer status endpoints.
type ProviderHandler struct {
	service services.ProviderService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(service services.ProviderService) *ProviderHandler {
	return &ProviderHandler{
		service: service,
	}
}

// Health handles GET /health
//
// @Summary Health check
// @Description Reports whether the whisper model file is present
// @Tags status
// @Produce json
// @Success 200 {object} dto.HealthResponse "Model loaded"
// @Failure 503 {object} dto.HealthResponse "Model missing"
// @Router /health [get]
func (h *ProviderHandler) Health(c *gin.Context) {
	health := h.service.GetHealth(c.Request.Context())

	status := http.StatusOK
	if !health.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}

// Info handles GET /info
//
// @Summary Service information
// @Description Static metadata: service name, version, model, language and accepted formats
// @Tags status
// @Produce json
// @Success 200 {object} dto.InfoResponse
// @Router /info [get]
func (h *ProviderHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetInfo(c.Request.Context()))
}
