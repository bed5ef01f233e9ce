package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"

	apperrors "whisper-api/internal/app/errors"
)

// ErrorKind selects the HTTP status of an APIError.
type ErrorKind string

const (
	KindBadRequest ErrorKind = "bad_request"
	KindNotFound   ErrorKind = "not_found"
	KindTooLarge   ErrorKind = "too_large"
	KindInternal   ErrorKind = "internal"
)

var kindStatus = map[ErrorKind]int{
	KindBadRequest: http.StatusBadRequest,
	KindNotFound:   http.StatusNotFound,
	KindTooLarge:   http.StatusRequestEntityTooLarge,
	KindInternal:   http.StatusInternalServerError,
}

// APIError is the error body every endpoint returns: {"error": message}.
type APIError struct {
	Kind    ErrorKind `json:"-"`
	Message string    `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus maps the kind to a status code; unknown kinds are 500.
func (e *APIError) HTTPStatus() int {
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewBadRequestError is a 400 for request shape problems.
func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

// FromError maps any error onto an APIError. Pipeline failures keep their
// public message; a missing input is 404 and an oversized upload 413. Any
// other error is a 500 carrying its own message.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	pe, ok := apperrors.AsPipelineError(err)
	if !ok {
		return &APIError{Kind: KindInternal, Message: err.Error()}
	}

	switch {
	case pe.Stage == apperrors.StageFetch && stderrors.Is(err, fs.ErrNotExist):
		return &APIError{Kind: KindNotFound, Message: pe.Message}
	case stderrors.Is(err, apperrors.ErrUploadTooLarge):
		return &APIError{Kind: KindTooLarge, Message: pe.Message}
	default:
		return &APIError{Kind: KindInternal, Message: pe.Message}
	}
}

// FromPanic describes a recovered panic value without exposing a stack trace.
func FromPanic(recovered interface{}) *APIError {
	switch v := recovered.(type) {
	case *APIError:
		return v
	case error:
		return FromError(v)
	default:
		return &APIError{Kind: KindInternal, Message: fmt.Sprint(v)}
	}
}
