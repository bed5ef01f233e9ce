package whisper_cpp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"whisper-api/internal/app/model"
	"whisper-api/internal/app/util/files"
	"whisper-api/internal/config"

	apperrors "whisper-api/internal/app/errors"
)

// defaultWaitDelay bounds how long Wait blocks on whisper's output pipes
// after the process has been killed.
const defaultWaitDelay = 5 * time.Second

// LocalTranscriber runs the whisper.cpp binary against normalized WAV files.
type LocalTranscriber struct {
	binaryPath string
	modelPath  string
	modelName  string
	language   string
	threads    int
	scratchDir string
	timeout    time.Duration
	waitDelay  time.Duration
	logger     *zap.Logger
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(cfg *config.Config, logger *zap.Logger) *LocalTranscriber {
	return &LocalTranscriber{
		binaryPath: cfg.BinaryPath,
		modelPath:  cfg.ModelPath,
		modelName:  cfg.ModelName,
		language:   cfg.Language,
		threads:    cfg.Threads,
		scratchDir: cfg.ScratchDir,
		timeout:    cfg.RecognizeTimeout,
		waitDelay:  defaultWaitDelay,
		logger:     logger.Named("whisper_cpp"),
	}
}

// Args builds the whisper.cpp command line. JSON output is written to
// outputPrefix + ".json".
func (lt *LocalTranscriber) Args(wavPath, language, outputPrefix string) []string {
	args := []string{
		"-m", lt.modelPath,
		"-l", language,
		"-f", wavPath,
		"-oj",
		"-of", outputPrefix,
	}
	if lt.threads > 0 {
		args = append(args, "-t", strconv.Itoa(lt.threads))
	}
	return args
}

// Recognize transcribes wavPath. On success the result either names a JSON
// document in the scratch dir, which the caller owns, or carries the text
// whisper printed when it wrote no document. Failures are StageRecognize
// pipeline errors and leave no output file behind.
func (lt *LocalTranscriber) Recognize(ctx context.Context, wavPath, language string) (*model.RecognitionOutput, error) {
	if language == "" {
		language = lt.language
	}
	outputPrefix := filepath.Join(lt.scratchDir, uuid.NewString())
	outputFile := outputPrefix + ".json"

	ctx, cancel := context.WithTimeout(ctx, lt.timeout)
	defer cancel()

	args := lt.Args(wavPath, language, outputPrefix)
	cmd := exec.CommandContext(ctx, lt.binaryPath, args...)
	cmd.WaitDelay = lt.waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	lt.logger.Info("running transcription command",
		zap.String("binary", lt.binaryPath),
		zap.String("args", strings.Join(args, " ")),
	)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		_ = files.RemoveIfExists(outputFile)

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg := fmt.Sprintf("Transcription timed out (max %s)", apperrors.HumanizeLimit(lt.timeout))
			return nil, apperrors.RecognizeError(msg, ctx.Err())
		}
		msg := "Whisper transcription failed: " + apperrors.SanitizeOutput(stderr.Bytes())
		return nil, apperrors.RecognizeError(msg, err)
	}

	lt.logger.Info("transcription command finished",
		zap.String("wav", wavPath),
		zap.Duration("elapsed", time.Since(start)),
	)

	if files.Exists(outputFile) {
		return &model.RecognitionOutput{StructuredPath: outputFile}, nil
	}

	// Some whisper.cpp builds ignore -oj and only print to stdout.
	lt.logger.Warn("no JSON output produced, falling back to stdout",
		zap.String("expected", outputFile),
	)
	return &model.RecognitionOutput{RawText: apperrors.SanitizeOutput(stdout.Bytes())}, nil
}
