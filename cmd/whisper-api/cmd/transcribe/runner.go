package transcribe

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/lo"
	apperrors "whisper-api/internal/app/errors"
	"whisper-api/internal/app/model"
	"whisper-api/internal/app/progress"
	"whisper-api/internal/app/util/files"
)

// Runner runs one reference through the pipeline.
type Runner interface {
	Run(ctx context.Context, ref model.InputReference, language string) (*model.TranscriptResult, error)
}

// Result is one line of the command's JSON output.
type Result struct {
	Source string `json:"source"`
	*model.TranscriptResult
	Error      string  `json:"error,omitempty"`
	Stage      string  `json:"stage,omitempty"`
	ElapsedSec float64 `json:"elapsed_sec"`
}

// collectSources merges the positional references with the audio files found
// in dir. Local paths are made absolute against the working directory so they
// are not resolved against the upload root. Duplicates are dropped.
func collectSources(args []string, dir string) ([]string, error) {
	sources := append([]string{}, args...)
	if dir != "" {
		found, err := files.GetAllAudioFiles(dir)
		if err != nil {
			return nil, err
		}
		sources = append(sources, lo.Map(found, func(f model.FileInfo, _ int) string {
			return f.FullPath
		})...)
	}

	sources = lo.Map(sources, func(s string, _ int) string {
		ref, err := model.ParseReference(s)
		if err != nil || ref.Kind != model.InputLocalPath || filepath.IsAbs(s) {
			return s
		}
		if abs, err := filepath.Abs(s); err == nil {
			return abs
		}
		return s
	})
	return lo.Uniq(sources), nil
}

// runAll transcribes sources with at most parallel runs in flight. Results
// keep the order of sources.
func runAll(ctx context.Context, r Runner, sources []string, language string, parallel int, bar *progress.Bar) []Result {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]Result, len(sources))

	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)

	for i, source := range sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()

			sem <- struct{}{}
			start := time.Now()
			results[i] = runOne(ctx, r, source, language)
			elapsed := time.Since(start)
			<-sem

			results[i].ElapsedSec = elapsed.Seconds()
			bar.Increment(elapsed)
		}(i, source)
	}
	wg.Wait()
	return results
}

func runOne(ctx context.Context, r Runner, source, language string) Result {
	res := Result{Source: source}

	ref, err := model.ParseReference(source)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	transcript, err := r.Run(ctx, ref, language)
	if err != nil {
		res.Error = err.Error()
		res.Stage = string(apperrors.StageOf(err))
		return res
	}
	res.TranscriptResult = transcript
	return res
}

func failures(results []Result) int {
	return lo.CountBy(results, func(r Result) bool { return r.Error != "" })
}
