package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whisper-api/internal/app/errors"
)

func TestAPIError_JSON(t *testing.T) {
	body, err := json.Marshal(NewBadRequestError("No file selected"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"No file selected"}`, string(body))
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing local file",
			err:         apperrors.FetchError("File not found: /uploads/missing.wav", fs.ErrNotExist),
			wantStatus:  http.StatusNotFound,
			wantMessage: "File not found: /uploads/missing.wav",
		},
		{
			name:        "download failure",
			err:         apperrors.FetchError("Failed to download audio", stderrors.New("unexpected status 502 Bad Gateway")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to download audio",
		},
		{
			name:        "upload too large",
			err:         apperrors.FetchError("Uploaded file exceeds 1 MB limit", apperrors.ErrUploadTooLarge),
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantMessage: "Uploaded file exceeds 1 MB limit",
		},
		{
			name:        "convert failure",
			err:         apperrors.ConvertError("Failed to convert audio to WAV format", stderrors.New("exit status 1")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to convert audio to WAV format",
		},
		{
			name:        "wrapped recognize failure",
			err:         fmt.Errorf("run: %w", apperrors.RecognizeError("Transcription timed out (max 10 minutes)", nil)),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Transcription timed out (max 10 minutes)",
		},
		{
			name:        "unexpected error",
			err:         stderrors.New("disk full"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "disk full",
		},
		{
			name:        "api error passes through",
			err:         NewBadRequestError("No file_path provided"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "No file_path provided",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus())
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}

	assert.Nil(t, FromError(nil))
}

func TestFromPanic(t *testing.T) {
	assert.Equal(t, "boom", FromPanic("boom").Message)
	assert.Equal(t, "nil map write", FromPanic(stderrors.New("nil map write")).Message)
	assert.Equal(t, http.StatusInternalServerError, FromPanic(42).HTTPStatus())
}
