package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"whisper-api/internal/api/errors"
	"whisper-api/internal/api/middleware"
	"whisper-api/internal/api/v1/dto"
	"whisper-api/internal/api/v1/services"
	"whisper-api/internal/app/model"
	"whisper-api/internal/config"
)

const (
	uploadField   = "audio"
	languageField = "language"
)

// TranscriptionHandler handles POST /transcribe
type TranscriptionHandler struct {
	service services.TranscriptionService
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{
		service: service,
	}
}

// Transcribe handles POST /transcribe
//
// @Summary Transcribe audio
// @Description Transcribes an uploaded file (multipart field "audio") or a file named by a JSON body.
// @Description file_path may be absolute, relative to the upload root, an http(s) URL or s3://bucket/key.
// @Tags transcription
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param audio formData file false "Audio file to transcribe"
// @Param language formData string false "Recognition language override"
// @Param request body dto.TranscribeRequest false "Reference to an existing file"
// @Success 200 {object} dto.TranscriptionResponse "Transcript and segments"
// @Failure 400 {object} errors.APIError "No input, empty filename or invalid body"
// @Failure 404 {object} errors.APIError "Referenced file not found"
// @Failure 413 {object} errors.APIError "Upload too large"
// @Failure 500 {object} errors.APIError "Pipeline stage failure"
// @Router /transcribe [post]
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	var (
		ref      model.InputReference
		language string
		err      error
	)

	switch {
	case strings.HasPrefix(c.ContentType(), "multipart/"):
		var file multipart.File
		ref, language, file, err = bindUpload(c)
		if file != nil {
			defer file.Close()
		}
	case isJSON(c.ContentType()):
		ref, language, err = bindFilePath(c)
	default:
		err = errors.NewBadRequestError("No audio file or file_path provided")
	}
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.service.Run(c.Request.Context(), ref, language)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func bindUpload(c *gin.Context) (model.InputReference, string, multipart.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return model.InputReference{}, "", nil, errors.NewBadRequestError("Invalid multipart body")
	}

	language, err := formLanguage(form)
	if err != nil {
		return model.InputReference{}, "", nil, err
	}

	uploads := form.File[uploadField]
	if len(uploads) == 0 {
		// A part sent with an empty filename is parsed as a plain value.
		if _, ok := form.Value[uploadField]; ok {
			return model.InputReference{}, "", nil, errors.NewBadRequestError("No file selected")
		}
		return model.InputReference{}, "", nil, errors.NewBadRequestError("No audio file or file_path provided")
	}

	header := uploads[0]
	if header.Filename == "" {
		return model.InputReference{}, "", nil, errors.NewBadRequestError("No file selected")
	}

	file, err := header.Open()
	if err != nil {
		return model.InputReference{}, "", nil, errors.NewBadRequestError("Failed to read uploaded file")
	}
	return model.UploadedBytes(header.Filename, file), language, file, nil
}

func formLanguage(form *multipart.Form) (string, error) {
	values := form.Value[languageField]
	if len(values) == 0 || values[0] == "" {
		return "", nil
	}
	if err := config.ValidateLanguage(values[0]); err != nil {
		return "", errors.NewBadRequestError(err.Error())
	}
	return values[0], nil
}

func bindFilePath(c *gin.Context) (model.InputReference, string, error) {
	var req dto.TranscribeRequest
	messages := middleware.FieldMessages{"FilePath": "No file_path provided"}
	if err := middleware.ValidateRequest(c, &req, messages); err != nil {
		return model.InputReference{}, "", err
	}

	ref, err := model.ParseReference(req.FilePath)
	if err != nil {
		return model.InputReference{}, "", errors.NewBadRequestError(err.Error())
	}
	return ref, req.Language, nil
}

func isJSON(contentType string) bool {
	return contentType == "application/json" || strings.HasSuffix(contentType, "+json")
}
