package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"whisper-api/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// FieldMessages maps a struct field name to the message returned when its
// binding tag fails. Fields without an entry get a generic message.
type FieldMessages map[string]string

// ValidateRequest binds a JSON body into req and validates both struct tags
// and domain rules. Failures are 400 APIErrors.
func ValidateRequest(c *gin.Context, req interface{}, messages FieldMessages) error {
	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrs validator.ValidationErrors
		if stderrors.As(err, &validationErrs) && len(validationErrs) > 0 {
			fieldError := validationErrs[0]
			if msg, ok := messages[fieldError.Field()]; ok {
				return errors.NewBadRequestError(msg)
			}
			return errors.NewBadRequestError(strings.ToLower(fieldError.Field()) + " is invalid")
		}
		return errors.NewBadRequestError("Invalid JSON body")
	}

	// Then, perform domain validation if the struct implements Validator
	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return errors.NewBadRequestError(err.Error())
		}
	}

	return nil
}
