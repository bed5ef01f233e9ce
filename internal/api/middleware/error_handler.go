package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"whisper-api/internal/api/errors"
)

// ErrorHandler recovers panics into a 500 {"error": message} response.
// The stack trace is logged, never returned.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		apiErr := errors.FromPanic(recovered)

		logger.Error("Recovered from panic",
			zap.Any("recovered", recovered),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Stack("stack"),
		)

		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError writes err as the response. Pipeline failures and plain errors
// are mapped by errors.FromError.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := errors.FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
}
