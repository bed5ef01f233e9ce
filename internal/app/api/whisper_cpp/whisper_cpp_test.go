package whisper_cpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"whisper-api/internal/config"

	apperrors "whisper-api/internal/app/errors"
)

// parseArgs is prepended to fake binaries so they can locate -of.
const parseArgs = `while [ $# -gt 0 ]; do
    case "$1" in
        -of) PREFIX="$2"; shift 2 ;;
        *) shift ;;
    esac
done
`

// createMockBinary writes a shell script standing in for whisper.cpp.
func createMockBinary(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "main")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestTranscriber(t *testing.T, binary string, timeout time.Duration) (*LocalTranscriber, string) {
	t.Helper()
	dir := t.TempDir()
	model := filepath.Join(dir, "ggml-medium.bin")
	require.NoError(t, os.WriteFile(model, []byte("model"), 0o644))

	cfg := config.Default()
	cfg.BinaryPath = binary
	cfg.ModelPath = model
	cfg.ScratchDir = t.TempDir()
	cfg.RecognizeTimeout = timeout

	lt := NewLocalTranscriber(cfg, zaptest.NewLogger(t))
	lt.waitDelay = 100 * time.Millisecond
	return lt, cfg.ScratchDir
}

func createTempWav(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	return path
}

func scratchEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestLocalTranscriber_Args(t *testing.T) {
	tests := []struct {
		name    string
		threads int
		want    []string
	}{
		{
			name: "default threads",
			want: []string{"-m", "/m.bin", "-l", "ja", "-f", "a.wav", "-oj", "-of", "/tmp/out"},
		},
		{
			name:    "explicit threads",
			threads: 4,
			want:    []string{"-m", "/m.bin", "-l", "ja", "-f", "a.wav", "-oj", "-of", "/tmp/out", "-t", "4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lt := &LocalTranscriber{modelPath: "/m.bin", threads: tt.threads}
			assert.Equal(t, tt.want, lt.Args("a.wav", "ja", "/tmp/out"))
		})
	}
}

func TestLocalTranscriber_Recognize_Structured(t *testing.T) {
	binary := createMockBinary(t, parseArgs+`cat > "$PREFIX.json" <<'JSON'
{"transcription":[{"timestamps":{"from":"00:00:00,000","to":"00:00:01,500"},"offsets":{"from":0,"to":1500},"text":" こんにちは"}]}
JSON`)
	lt, scratch := newTestTranscriber(t, binary, 5*time.Second)

	out, err := lt.Recognize(context.Background(), createTempWav(t), "ja")
	require.NoError(t, err)
	require.True(t, out.HasStructured())
	assert.Equal(t, scratch, filepath.Dir(out.StructuredPath))
	assert.Equal(t, ".json", filepath.Ext(out.StructuredPath))

	result, err := Extract(out, "ja")
	require.NoError(t, err)
	assert.Equal(t, "こんにちは", result.FullText)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, 1.5, result.Segments[0].End)
}

func TestLocalTranscriber_Recognize_StdoutFallback(t *testing.T) {
	binary := createMockBinary(t, `printf '\n  [00:00:00.000 --> 00:00:02.000]  ありがとう  \n\n'`)
	lt, scratch := newTestTranscriber(t, binary, 5*time.Second)

	out, err := lt.Recognize(context.Background(), createTempWav(t), "ja")
	require.NoError(t, err)
	assert.False(t, out.HasStructured())
	assert.Equal(t, "[00:00:00.000 --> 00:00:02.000]  ありがとう", out.RawText)
	assert.Empty(t, scratchEntries(t, scratch))

	result, err := Extract(out, "ja")
	require.NoError(t, err)
	assert.Equal(t, out.RawText, result.FullText)
	assert.NotNil(t, result.Segments)
	assert.Empty(t, result.Segments)
}

func TestLocalTranscriber_Recognize_DefaultLanguage(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	binary := createMockBinary(t, `echo "$@" > `+argsFile)
	lt, _ := newTestTranscriber(t, binary, 5*time.Second)

	_, err := lt.Recognize(context.Background(), createTempWav(t), "")
	require.NoError(t, err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(args), "-l ja ")
}

func TestLocalTranscriber_Recognize_Failure(t *testing.T) {
	binary := createMockBinary(t, parseArgs+`echo '{"transcription":[' > "$PREFIX.json"
echo "error: failed to load model" >&2
exit 3`)
	lt, scratch := newTestTranscriber(t, binary, 5*time.Second)

	_, err := lt.Recognize(context.Background(), createTempWav(t), "ja")
	require.Error(t, err)

	pe, ok := apperrors.AsPipelineError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.StageRecognize, pe.Stage)
	assert.Equal(t, "Whisper transcription failed: error: failed to load model", pe.Message)
	assert.Empty(t, scratchEntries(t, scratch), "partial JSON output must be removed")
}

func TestLocalTranscriber_Recognize_InvalidUTF8Stderr(t *testing.T) {
	binary := createMockBinary(t, `printf 'decoder \377 crashed' >&2
exit 1`)
	lt, _ := newTestTranscriber(t, binary, 5*time.Second)

	_, err := lt.Recognize(context.Background(), createTempWav(t), "ja")
	require.Error(t, err)

	pe, ok := apperrors.AsPipelineError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.StageRecognize, pe.Stage)
	assert.Equal(t, "Whisper transcription failed: decoder � crashed", pe.Message)
}

func TestLocalTranscriber_Recognize_Timeout(t *testing.T) {
	binary := createMockBinary(t, `exec sleep 10`)
	lt, _ := newTestTranscriber(t, binary, 200*time.Millisecond)
	lt.timeout = 10 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := lt.Recognize(ctx, createTempWav(t), "ja")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	pe, ok := apperrors.AsPipelineError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.StageRecognize, pe.Stage)
	assert.Equal(t, "Transcription timed out (max 10 minutes)", pe.Message)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestLocalTranscriber_Recognize_InvalidBinaryPath(t *testing.T) {
	lt, _ := newTestTranscriber(t, "/non/existent/binary", 5*time.Second)

	_, err := lt.Recognize(context.Background(), createTempWav(t), "ja")
	require.Error(t, err)
	assert.Equal(t, apperrors.StageRecognize, apperrors.StageOf(err))
}

func TestLocalTranscriber_GetProviderInfo(t *testing.T) {
	lt, _ := newTestTranscriber(t, "/bin/true", time.Second)

	info := lt.GetProviderInfo()
	assert.Equal(t, "LearnJoy Whisper Transcription", info.Service)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "ggml-medium", info.Model)
	assert.Equal(t, "ja", info.Language)
	assert.Equal(t, []string{"mp3", "wav", "m4a", "ogg", "flac", "webm"}, info.SupportedFormats)
}

func TestLocalTranscriber_ValidateConfiguration(t *testing.T) {
	binary := createMockBinary(t, `exit 0`)

	t.Run("valid", func(t *testing.T) {
		lt, _ := newTestTranscriber(t, binary, time.Second)
		assert.True(t, lt.ModelLoaded())
		assert.NoError(t, lt.ValidateConfiguration())
		assert.NoError(t, lt.HealthCheck(context.Background()))
	})

	t.Run("missing model", func(t *testing.T) {
		lt, _ := newTestTranscriber(t, binary, time.Second)
		lt.modelPath = filepath.Join(t.TempDir(), "missing.bin")
		assert.False(t, lt.ModelLoaded())
		assert.ErrorContains(t, lt.ValidateConfiguration(), "whisper model not found")
		assert.Error(t, lt.HealthCheck(context.Background()))
	})

	t.Run("missing binary", func(t *testing.T) {
		lt, _ := newTestTranscriber(t, "/non/existent/binary", time.Second)
		assert.ErrorContains(t, lt.ValidateConfiguration(), "binary not found")
	})
}
