package model

// Segment is one time-aligned piece of recognized speech.
type Segment struct {
	Start      float64     `json:"start"` // seconds
	End        float64     `json:"end"`   // seconds
	Text       string      `json:"text"`
	Timestamps *Timestamps `json:"timestamps,omitempty"`
	Offsets    *Offsets    `json:"offsets,omitempty"`
}

// Timestamps are whisper.cpp's "HH:MM:SS,mmm" renderings of a segment's bounds.
type Timestamps struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Offsets are a segment's bounds in milliseconds.
type Offsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// TranscriptResult is what a successful pipeline run returns.
// Segments is empty (never nil) when the raw-text fallback was used.
type TranscriptResult struct {
	FullText string    `json:"transcript"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// RecognitionOutput is what the recognition engine left behind: either the
// path of a structured JSON document or the raw text it printed.
type RecognitionOutput struct {
	StructuredPath string
	RawText        string
}

// HasStructured reports whether the engine produced its JSON document.
func (o *RecognitionOutput) HasStructured() bool {
	return o != nil && o.StructuredPath != ""
}
