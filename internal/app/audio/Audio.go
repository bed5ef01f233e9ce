package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
	"whisper-api/internal/app/util/files"
	"whisper-api/internal/config"

	apperrors "whisper-api/internal/app/errors"
)

// Target format expected by whisper.cpp.
const (
	SampleRate = 16000
	Channels   = 1
	Codec      = "pcm_s16le"
)

const convertFailedMessage = "Failed to convert audio to WAV format"

// defaultWaitDelay bounds how long Wait blocks on ffmpeg's output pipes
// after the process has been killed.
const defaultWaitDelay = 5 * time.Second

// Converter normalizes arbitrary audio into 16kHz mono PCM WAV with ffmpeg.
type Converter struct {
	ffmpegPath string
	scratchDir string
	timeout    time.Duration
	waitDelay  time.Duration
	logger     *zap.Logger
}

func NewConverter(cfg *config.Config, logger *zap.Logger) *Converter {
	return &Converter{
		ffmpegPath: cfg.FFmpegPath,
		scratchDir: cfg.ScratchDir,
		timeout:    cfg.ConvertTimeout,
		waitDelay:  defaultWaitDelay,
		logger:     logger.Named("audio"),
	}
}

// Args returns the ffmpeg argument profile for converting in to out.
func Args(in, out string) []string {
	return []string{
		"-y",
		"-i", in,
		"-vn",
		"-ac", fmt.Sprint(Channels),
		"-ar", fmt.Sprint(SampleRate),
		"-c:a", Codec,
		out,
	}
}

// ConvertTo16kHzWav writes a fresh WAV under the scratch dir and returns its
// path. The caller owns the returned file. The input is never modified.
func (c *Converter) ConvertTo16kHzWav(ctx context.Context, inputFilePath string) (string, error) {
	outputFilePath := files.UniquePath(c.scratchDir, ".wav")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.ffmpegPath, Args(inputFilePath, outputFilePath)...)
	cmd.WaitDelay = c.waitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("converting to 16kHz wav",
		zap.String("input", inputFilePath),
		zap.String("output", outputFilePath),
	)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		_ = files.RemoveIfExists(outputFilePath)

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			detail := fmt.Sprintf("ffmpeg timed out (max %s)", apperrors.HumanizeLimit(c.timeout))
			return "", apperrors.ConvertError(convertFailedMessage, ctx.Err()).WithDetail(detail)
		}
		pe := apperrors.ConvertError(convertFailedMessage, err)
		if diag := apperrors.SanitizeOutput(stderr.Bytes()); diag != "" {
			pe.WithDetail(diag)
		}
		return "", pe
	}

	if !files.Exists(outputFilePath) {
		return "", apperrors.ConvertError(convertFailedMessage, nil).WithDetail("ffmpeg exited cleanly but wrote no output")
	}

	c.logger.Debug("audio to 16kHz wav conversion completed",
		zap.String("output", outputFilePath),
		zap.Duration("elapsed", time.Since(start)),
	)
	return outputFilePath, nil
}

// wavHeaderSize is the canonical RIFF/WAVE header length for PCM.
const wavHeaderSize = 44

// WavDuration estimates the length in seconds of a PCM WAV file from its byte
// rate and size. Extra chunks before "data" are counted as audio, which is
// negligible for metrics purposes.
func WavDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	header := make([]byte, wavHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, fmt.Errorf("failed to read wav header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a wav file: %s", path)
	}

	byteRate := binary.LittleEndian.Uint32(header[28:32])
	if byteRate == 0 {
		return 0, fmt.Errorf("invalid wav byte rate: %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return float64(info.Size()-wavHeaderSize) / float64(byteRate), nil
}
