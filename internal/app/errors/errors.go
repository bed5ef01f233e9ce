package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Common error types
var (
	// Configuration errors
	ErrMissingConfig = New("configuration is required")
	ErrInvalidConfig = New("invalid configuration")

	// Input errors
	ErrUploadTooLarge = New("upload exceeds size limit")

	// Storage errors
	ErrObjectStoreDisabled = New("object store is not configured")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// Stage identifies the pipeline step that failed.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageConvert   Stage = "convert"
	StageRecognize Stage = "recognize"
	StageExtract   Stage = "extract"
)

// PipelineError is the uniform failure of a transcription run.
// Message is safe to return to API callers; Detail carries diagnostics
// (tool stderr, parse errors) for logs.
type PipelineError struct {
	Stage   Stage
	Message string
	Detail  string
	cause   error
}

func (e *PipelineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Stage, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.cause
}

// Is matches another *PipelineError by stage, so callers can write
// errors.Is(err, &PipelineError{Stage: StageConvert}).
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	return e.Stage == t.Stage
}

// NewPipelineError builds a stage failure. cause may be nil.
func NewPipelineError(stage Stage, message string, cause error) *PipelineError {
	pe := &PipelineError{Stage: stage, Message: message, cause: cause}
	if cause != nil {
		pe.Detail = cause.Error()
	}
	return pe
}

// WithDetail replaces the diagnostic text.
func (e *PipelineError) WithDetail(detail string) *PipelineError {
	e.Detail = detail
	return e
}

func FetchError(message string, cause error) *PipelineError {
	return NewPipelineError(StageFetch, message, cause)
}

func ConvertError(message string, cause error) *PipelineError {
	return NewPipelineError(StageConvert, message, cause)
}

func RecognizeError(message string, cause error) *PipelineError {
	return NewPipelineError(StageRecognize, message, cause)
}

func ExtractError(message string, cause error) *PipelineError {
	return NewPipelineError(StageExtract, message, cause)
}

// AsPipelineError unwraps err to a *PipelineError if there is one.
func AsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// StageOf returns the failing stage of err, or "" when err is not a pipeline failure.
func StageOf(err error) Stage {
	if pe, ok := AsPipelineError(err); ok {
		return pe.Stage
	}
	return ""
}

// SanitizeOutput turns captured process output into printable text.
// Invalid UTF-8 is replaced rather than rejected; whisper.cpp and ffmpeg both
// occasionally emit partial multi-byte sequences on stderr.
func SanitizeOutput(b []byte) string {
	s := string(b)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	return strings.TrimSpace(s)
}

// HumanizeLimit renders a stage deadline for user-facing timeout messages,
// e.g. "10 minutes" or "1m30s".
func HumanizeLimit(d time.Duration) string {
	switch {
	case d == time.Minute:
		return "1 minute"
	case d > 0 && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
