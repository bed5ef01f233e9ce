package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// WhisperJSONSingle is what whisper.cpp writes for a short greeting.
const WhisperJSONSingle = `{
  "systeminfo": "AVX = 1 | AVX2 = 1",
  "model": {"type": "medium", "multilingual": true},
  "params": {"model": "models/ggml-medium.bin", "language": "ja", "translate": false},
  "result": {"language": "ja"},
  "transcription": [
    {
      "timestamps": {"from": "00:00:00,000", "to": "00:00:03,000"},
      "offsets": {"from": 0, "to": 3000},
      "text": " こんにちは"
    }
  ]
}`

// WhisperJSONMulti has several segments with surrounding whitespace.
const WhisperJSONMulti = `{
  "result": {"language": "ja"},
  "transcription": [
    {"timestamps": {"from": "00:00:00,000", "to": "00:00:02,000"}, "offsets": {"from": 0, "to": 2000}, "text": " 今日は"},
    {"timestamps": {"from": "00:00:02,000", "to": "00:00:04,500"}, "offsets": {"from": 2000, "to": 4500}, "text": " いい天気ですね。 "},
    {"timestamps": {"from": "00:00:04,500", "to": "00:00:06,000"}, "offsets": {"from": 4500, "to": 6000}, "text": "散歩しましょう"}
  ]
}`

// WhisperJSONMalformed is a truncated document.
const WhisperJSONMalformed = `{"transcription": [{"text": " こんに`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteWav writes a silent 16kHz mono PCM16 WAV of the given length into
// dir under a unique name and returns its path.
func WriteWav(t *testing.T, dir string, seconds int) string {
	t.Helper()
	const (
		sampleRate = 16000
		byteRate   = sampleRate * 2
	)
	dataSize := uint32(seconds * byteRate)

	header := make([]byte, 44)
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], 36+dataSize)
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1)
	binary.LittleEndian.PutUint16(header[22:], 1)
	binary.LittleEndian.PutUint32(header[24:], sampleRate)
	binary.LittleEndian.PutUint32(header[28:], byteRate)
	binary.LittleEndian.PutUint16(header[32:], 2)
	binary.LittleEndian.PutUint16(header[34:], 16)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], dataSize)

	path := filepath.Join(dir, uuid.NewString()+".wav")
	require.NoError(t, os.WriteFile(path, append(header, make([]byte, dataSize)...), 0o644))
	return path
}

// FakeBinary installs an executable shell script named name and returns its
// path. Tests using it are skipped where no POSIX shell is available.
func FakeBinary(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// FakeFFmpegScript copies its input to the last argument, standing in for a
// successful conversion.
const FakeFFmpegScript = `IN=""
while [ $# -gt 1 ]; do
    case "$1" in
        -i) IN="$2"; shift 2 ;;
        *) shift ;;
    esac
done
cp "$IN" "$1"`

// FakeWhisperScript writes doc to the -of prefix as JSON.
func FakeWhisperScript(doc string) string {
	return `while [ $# -gt 0 ]; do
    case "$1" in
        -of) PREFIX="$2"; shift 2 ;;
        *) shift ;;
    esac
done
cat > "$PREFIX.json" <<'JSON'
` + doc + `
JSON`
}

// DirEntries lists the names in dir.
func DirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
