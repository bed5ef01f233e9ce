package whisper_cpp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"whisper-api/internal/app/model"

	apperrors "whisper-api/internal/app/errors"
)

const extractFailedMessage = "Failed to parse transcription output"

// jsonOutput mirrors the document whisper.cpp writes with -oj. Only the
// fields used downstream are declared.
type jsonOutput struct {
	Transcription *[]jsonSegment `json:"transcription"`
}

type jsonSegment struct {
	Timestamps *model.Timestamps `json:"timestamps"`
	Offsets    *model.Offsets    `json:"offsets"`
	Text       *string           `json:"text"`
}

// ParseTranscript decodes a whisper.cpp JSON document. The transcription
// array is required and every entry needs a text field.
func ParseTranscript(data []byte, language string) (*model.TranscriptResult, error) {
	var doc jsonOutput
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if doc.Transcription == nil {
		return nil, errors.New(`missing "transcription" array`)
	}

	for i, seg := range *doc.Transcription {
		if seg.Text == nil {
			return nil, fmt.Errorf(`segment %d has no "text"`, i)
		}
	}

	segments := lo.Map(*doc.Transcription, func(seg jsonSegment, _ int) model.Segment {
		s := model.Segment{
			Text:       strings.TrimSpace(*seg.Text),
			Timestamps: seg.Timestamps,
			Offsets:    seg.Offsets,
		}
		if seg.Offsets != nil {
			s.Start = float64(seg.Offsets.From) / 1000
			s.End = float64(seg.Offsets.To) / 1000
		}
		return s
	})

	texts := lo.Map(segments, func(s model.Segment, _ int) string { return s.Text })

	return &model.TranscriptResult{
		FullText: strings.TrimSpace(strings.Join(texts, " ")),
		Segments: segments,
		Language: language,
	}, nil
}

// ExtractTranscript reads and parses the JSON document at path. The file is
// left in place.
func ExtractTranscript(path, language string) (*model.TranscriptResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.ExtractError(extractFailedMessage, err)
	}
	result, err := ParseTranscript(data, language)
	if err != nil {
		return nil, apperrors.ExtractError(extractFailedMessage, err)
	}
	return result, nil
}

// Extract turns whatever Recognize produced into a transcript. Raw text
// becomes the transcript with no segments.
func Extract(out *model.RecognitionOutput, language string) (*model.TranscriptResult, error) {
	if out.HasStructured() {
		return ExtractTranscript(out.StructuredPath, language)
	}
	return &model.TranscriptResult{
		FullText: strings.TrimSpace(out.RawText),
		Segments: []model.Segment{},
		Language: language,
	}, nil
}
