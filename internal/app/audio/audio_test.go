package audio

import (
	"context"
	"encoding/binary"
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

// fakeFFmpeg installs a shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestConverter(t *testing.T, ffmpeg string, timeout time.Duration) (*Converter, string) {
	t.Helper()
	cfg := config.Default()
	cfg.FFmpegPath = ffmpeg
	cfg.ScratchDir = t.TempDir()
	cfg.ConvertTimeout = timeout
	c := NewConverter(cfg, zaptest.NewLogger(t))
	c.waitDelay = 100 * time.Millisecond
	return c, cfg.ScratchDir
}

func writeInput(t *testing.T) string {
	t.Helper()
	in := filepath.Join(t.TempDir(), "clip.m4a")
	require.NoError(t, os.WriteFile(in, []byte("not really audio"), 0o644))
	return in
}

func TestArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-y", "-i", "in.mp3", "-vn", "-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le", "out.wav"},
		Args("in.mp3", "out.wav"),
	)
}

func TestConvertTo16kHzWav_Success(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	ffmpeg := fakeFFmpeg(t, `echo "$@" > `+argsFile+`
for last; do :; done
printf 'RIFF' > "$last"`)
	c, scratch := newTestConverter(t, ffmpeg, 5*time.Second)
	in := writeInput(t)

	out, err := c.ConvertTo16kHzWav(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, scratch, filepath.Dir(out))
	assert.Equal(t, ".wav", filepath.Ext(out))
	assert.FileExists(t, out)
	assert.FileExists(t, in, "input must not be deleted")

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "-y -i "+in+" -vn -ac 1 -ar 16000 -c:a pcm_s16le "+out+"\n", string(args))
}

func TestConvertTo16kHzWav_UniqueOutputs(t *testing.T) {
	ffmpeg := fakeFFmpeg(t, `for last; do :; done
printf 'RIFF' > "$last"`)
	c, _ := newTestConverter(t, ffmpeg, 5*time.Second)
	in := writeInput(t)

	first, err := c.ConvertTo16kHzWav(context.Background(), in)
	require.NoError(t, err)
	second, err := c.ConvertTo16kHzWav(context.Background(), in)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestConvertTo16kHzWav_Failure(t *testing.T) {
	ffmpeg := fakeFFmpeg(t, `for last; do :; done
printf 'partial' > "$last"
printf 'Invalid data found when processing input\n' >&2
exit 1`)
	c, scratch := newTestConverter(t, ffmpeg, 5*time.Second)

	_, err := c.ConvertTo16kHzWav(context.Background(), writeInput(t))
	require.Error(t, err)

	pe, ok := apperrors.AsPipelineError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.StageConvert, pe.Stage)
	assert.Equal(t, "Failed to convert audio to WAV format", pe.Message)
	assert.Equal(t, "Invalid data found when processing input", pe.Detail)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed conversion must not leave output behind")
}

func TestConvertTo16kHzWav_BinaryStderr(t *testing.T) {
	ffmpeg := fakeFFmpeg(t, `printf 'bad \377\376 bytes' >&2
exit 2`)
	c, _ := newTestConverter(t, ffmpeg, 5*time.Second)

	_, err := c.ConvertTo16kHzWav(context.Background(), writeInput(t))
	require.Error(t, err)

	pe, ok := apperrors.AsPipelineError(err)
	require.True(t, ok)
	assert.Equal(t, "Failed to convert audio to WAV format", pe.Message)
	assert.Contains(t, pe.Detail, "bad")
	assert.Contains(t, pe.Detail, "bytes")
}

func TestConvertTo16kHzWav_NoOutput(t *testing.T) {
	ffmpeg := fakeFFmpeg(t, `exit 0`)
	c, _ := newTestConverter(t, ffmpeg, 5*time.Second)

	_, err := c.ConvertTo16kHzWav(context.Background(), writeInput(t))
	require.Error(t, err)
	assert.Equal(t, apperrors.StageConvert, apperrors.StageOf(err))
}

func TestConvertTo16kHzWav_Timeout(t *testing.T) {
	ffmpeg := fakeFFmpeg(t, `exec sleep 10`)
	c, scratch := newTestConverter(t, ffmpeg, 200*time.Millisecond)

	start := time.Now()
	_, err := c.ConvertTo16kHzWav(context.Background(), writeInput(t))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	pe, ok := apperrors.AsPipelineError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.StageConvert, pe.Stage)
	assert.Equal(t, "Failed to convert audio to WAV format", pe.Message)
	assert.Equal(t, "ffmpeg timed out (max 200ms)", pe.Detail)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConvertTo16kHzWav_MissingBinary(t *testing.T) {
	c, _ := newTestConverter(t, filepath.Join(t.TempDir(), "no-ffmpeg"), 5*time.Second)

	_, err := c.ConvertTo16kHzWav(context.Background(), writeInput(t))
	require.Error(t, err)
	assert.Equal(t, apperrors.StageConvert, apperrors.StageOf(err))
}

// writeWav writes a canonical 16kHz mono PCM16 file with n samples.
func writeWav(t *testing.T, n int) string {
	t.Helper()
	const byteRate = SampleRate * Channels * 2
	dataSize := uint32(n * 2)

	header := make([]byte, wavHeaderSize)
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], 36+dataSize)
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1)
	binary.LittleEndian.PutUint16(header[22:], Channels)
	binary.LittleEndian.PutUint32(header[24:], SampleRate)
	binary.LittleEndian.PutUint32(header[28:], byteRate)
	binary.LittleEndian.PutUint16(header[32:], Channels*2)
	binary.LittleEndian.PutUint16(header[34:], 16)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], dataSize)

	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, append(header, make([]byte, dataSize)...), 0o644))
	return path
}

func TestWavDuration(t *testing.T) {
	d, err := WavDuration(writeWav(t, 3*SampleRate))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, d, 0.001)

	notWav := filepath.Join(t.TempDir(), "x.wav")
	require.NoError(t, os.WriteFile(notWav, make([]byte, 64), 0o644))
	_, err = WavDuration(notWav)
	assert.Error(t, err)

	short := filepath.Join(t.TempDir(), "short.wav")
	require.NoError(t, os.WriteFile(short, []byte("RIFF"), 0o644))
	_, err = WavDuration(short)
	assert.Error(t, err)
}
