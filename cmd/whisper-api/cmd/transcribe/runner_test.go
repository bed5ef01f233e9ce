package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "whisper-api/internal/app/errors"
	"whisper-api/internal/app/model"
	"whisper-api/internal/app/progress"
	"whisper-api/internal/app/testutil"
)

func noBar() *progress.Bar {
	return progress.NewManager(progress.Config{}).CreateBar(0, "")
}

func TestCollectSources(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a.mp3", "x")
	testutil.WriteFile(t, dir, "notes.txt", "x")

	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := collectSources([]string{
		"rel/clip.wav",
		"https://example.com/a.mp3",
		"s3://bucket/key.m4a",
		a,
	}, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(wd, "rel/clip.wav"),
		"https://example.com/a.mp3",
		"s3://bucket/key.m4a",
		a,
	}, got)
}

func TestCollectSources_MissingDir(t *testing.T) {
	_, err := collectSources(nil, filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestRunAll(t *testing.T) {
	p := testutil.NewMockPipeline()
	ok := &model.TranscriptResult{FullText: "こんにちは", Segments: []model.Segment{}, Language: "ja"}
	p.On("Run", mock.Anything, model.LocalPath("/a.wav"), "ja").Return(ok, nil)
	p.On("Run", mock.Anything, model.RemoteURL("https://example.com/b.mp3"), "ja").
		Return(nil, apperrors.ConvertError("Failed to convert audio to WAV format", nil))

	sources := []string{"/a.wav", "https://example.com/b.mp3", "s3://bucket"}
	results := runAll(context.Background(), p, sources, "ja", 2, noBar())

	require.Len(t, results, 3)
	assert.Equal(t, "/a.wav", results[0].Source)
	assert.Equal(t, ok, results[0].TranscriptResult)
	assert.Empty(t, results[0].Error)

	assert.Equal(t, "https://example.com/b.mp3", results[1].Source)
	assert.Nil(t, results[1].TranscriptResult)
	assert.Equal(t, "convert: Failed to convert audio to WAV format", results[1].Error)
	assert.Equal(t, "convert", results[1].Stage)

	assert.Contains(t, results[2].Error, "expected s3://bucket/key")
	assert.Empty(t, results[2].Stage)

	assert.Equal(t, 2, failures(results))
	p.AssertNumberOfCalls(t, "Run", 2)
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, []Result{
		{Source: "/a.wav", TranscriptResult: &model.TranscriptResult{FullText: "はい", Segments: []model.Segment{}, Language: "ja"}},
		{Source: "/b.wav", Error: "fetch: File not found: /b.wav", Stage: "fetch"},
	}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "はい", decoded[0]["transcript"])
	assert.NotContains(t, decoded[0], "error")
	assert.NotContains(t, decoded[1], "transcript")
	assert.Equal(t, "fetch", decoded[1]["stage"])
	assert.Contains(t, buf.String(), "はい")
}
