// Package pipeline sequences a transcription run: fetch, convert to 16kHz
// WAV, recognize with whisper.cpp, extract the transcript, and clean up.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"whisper-api/internal/app/api/whisper_cpp"
	"whisper-api/internal/app/audio"
	"whisper-api/internal/app/fetcher"
	"whisper-api/internal/app/metrics"
	"whisper-api/internal/app/model"
	"whisper-api/internal/app/util/files"
	"whisper-api/internal/config"

	apperrors "whisper-api/internal/app/errors"
)

// Fetcher resolves an input reference into a local file.
type Fetcher interface {
	Fetch(ctx context.Context, ref model.InputReference) (*fetcher.Input, error)
}

// Normalizer produces a 16kHz mono PCM WAV owned by the caller.
type Normalizer interface {
	ConvertTo16kHzWav(ctx context.Context, inputPath string) (string, error)
}

// Recognizer runs speech recognition on a normalized WAV.
type Recognizer interface {
	Recognize(ctx context.Context, wavPath, language string) (*model.RecognitionOutput, error)
}

// Pipeline runs transcriptions. It is safe for concurrent use; each run
// works on its own uniquely named files.
type Pipeline struct {
	fetcher    Fetcher
	normalizer Normalizer
	recognizer Recognizer
	metrics    metrics.PipelineMetrics
	logger     *zap.Logger
	language   string
}

func New(f Fetcher, n Normalizer, r Recognizer, cfg *config.Config, m metrics.PipelineMetrics, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher:    f,
		normalizer: n,
		recognizer: r,
		metrics:    m,
		logger:     logger.Named("pipeline"),
		language:   cfg.Language,
	}
}

// Run fetches ref and transcribes it. Files created by the fetch are removed
// before Run returns; caller-supplied local files are kept. An empty
// language selects the configured default.
//
// Cancellation of ctx is not propagated: a run that has started completes
// or fails on its own stage deadlines.
func (p *Pipeline) Run(ctx context.Context, ref model.InputReference, language string) (result *model.TranscriptResult, err error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	var audioSec float64
	defer func() {
		if r := recover(); r != nil {
			p.finish(ref.String(), start, 0, fmt.Errorf("panic: %v", r))
			panic(r)
		}
		p.finish(ref.String(), start, audioSec, err)
	}()

	var in *fetcher.Input
	err = p.stage(apperrors.StageFetch, func() (err error) {
		in, err = p.fetcher.Fetch(ctx, ref)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := in.Release(); rerr != nil {
			p.logger.Warn("failed to remove fetched input", zap.String("path", in.Path), zap.Error(rerr))
		}
	}()

	result, audioSec, err = p.transcribe(ctx, in.Path, language)
	return result, err
}

// transcribe runs convert, recognize and extract on a local file and reports
// the seconds of audio processed. inputPath is never removed.
func (p *Pipeline) transcribe(ctx context.Context, inputPath, language string) (*model.TranscriptResult, float64, error) {
	if language == "" {
		language = p.language
	}

	var wavPath string
	err := p.stage(apperrors.StageConvert, func() (err error) {
		wavPath, err = p.normalizer.ConvertTo16kHzWav(ctx, inputPath)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	defer p.remove(wavPath)

	audioSec, derr := audio.WavDuration(wavPath)
	if derr != nil {
		p.logger.Debug("could not determine audio duration", zap.String("wav", wavPath), zap.Error(derr))
	}

	var out *model.RecognitionOutput
	err = p.stage(apperrors.StageRecognize, func() (err error) {
		out, err = p.recognizer.Recognize(ctx, wavPath, language)
		if err == nil && out == nil {
			err = apperrors.RecognizeError("Whisper transcription failed: no output", nil)
		}
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	if out.HasStructured() {
		defer p.remove(out.StructuredPath)
	}

	var result *model.TranscriptResult
	err = p.stage(apperrors.StageExtract, func() (err error) {
		result, err = whisper_cpp.Extract(out, language)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return result, audioSec, nil
}

// stage times fn and records its outcome.
func (p *Pipeline) stage(stage apperrors.Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	p.metrics.RecordStage(string(stage), elapsed, err)
	if err != nil {
		p.logger.Warn("pipeline stage failed",
			zap.String("stage", string(stage)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return err
	}
	p.logger.Debug("pipeline stage completed",
		zap.String("stage", string(stage)),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

func (p *Pipeline) remove(path string) {
	if err := files.RemoveIfExists(path); err != nil {
		p.logger.Warn("failed to remove temporary file", zap.String("path", path), zap.Error(err))
	}
}

func (p *Pipeline) finish(source string, start time.Time, audioSec float64, err error) {
	elapsed := time.Since(start)
	p.metrics.RecordRun(err == nil, elapsed, audioSec)
	if err != nil {
		p.logger.Error("transcription failed",
			zap.String("source", source),
			zap.String("stage", string(apperrors.StageOf(err))),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}
	p.logger.Info("transcription completed",
		zap.String("source", source),
		zap.Float64("audio_seconds", audioSec),
		zap.Duration("elapsed", elapsed),
	)
}
