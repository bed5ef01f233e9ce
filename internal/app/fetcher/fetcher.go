package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"whisper-api/internal/app/metrics"
	"whisper-api/internal/app/model"
	"whisper-api/internal/app/util/files"
	"whisper-api/internal/config"

	apperrors "whisper-api/internal/app/errors"
)

// Input is a fetched audio file ready for conversion.
type Input struct {
	Path string
	Kind model.InputKind
	// Owned is true when the fetcher created Path and Release should delete it.
	Owned bool
}

// Release deletes the file if the fetcher created it. Local paths supplied by
// the caller are never touched.
func (in *Input) Release() error {
	if in == nil || !in.Owned {
		return nil
	}
	return files.RemoveIfExists(in.Path)
}

// Fetcher resolves InputReferences into local files under the upload root.
type Fetcher struct {
	uploadDir     string
	maxUploadSize int64

	client         *http.Client
	insecureClient *http.Client // nil unless the TLS fallback is enabled
	objects        ObjectStore  // nil unless an object store is configured

	metrics metrics.PipelineMetrics
	logger  *zap.Logger
}

// NewFetcher creates a Fetcher. objects may be nil.
func NewFetcher(cfg *config.Config, objects ObjectStore, m metrics.PipelineMetrics, logger *zap.Logger) *Fetcher {
	f := &Fetcher{
		uploadDir:     cfg.UploadDir,
		maxUploadSize: cfg.MaxUploadSize,
		client:        newHTTPClient(cfg.DownloadTimeout, false),
		objects:       objects,
		metrics:       m,
		logger:        logger.Named("fetcher"),
	}
	if cfg.TLSInsecureFallback {
		f.insecureClient = newHTTPClient(cfg.DownloadTimeout, true)
	}
	return f
}

// UploadDir is the root relative paths are resolved against.
func (f *Fetcher) UploadDir() string {
	return f.uploadDir
}

// Fetch turns ref into a local file. Failures are *errors.PipelineError with
// StageFetch; a missing local file or object also matches fs.ErrNotExist.
// On failure no file created by this call is left behind.
func (f *Fetcher) Fetch(ctx context.Context, ref model.InputReference) (*Input, error) {
	start := time.Now()

	var (
		in  *Input
		err error
	)
	switch ref.Kind {
	case model.InputUpload:
		in, err = f.saveUpload(ref.Name, ref.Content)
	case model.InputLocalPath:
		in, err = f.resolveLocal(ref.Path)
	case model.InputRemoteURL:
		in, err = f.download(ctx, ref.URL)
	case model.InputObjectKey:
		in, err = f.fetchObject(ctx, ref.Bucket, ref.Key)
	default:
		err = apperrors.FetchError(fmt.Sprintf("Unsupported input reference: %s", ref.Kind), nil)
	}

	f.metrics.RecordFetch(ref.Kind.String(), err)
	if err != nil {
		f.logger.Warn("fetch failed",
			zap.Stringer("kind", ref.Kind),
			zap.Stringer("ref", ref),
			zap.Error(err),
		)
		return nil, err
	}

	f.logger.Debug("fetched input",
		zap.Stringer("kind", ref.Kind),
		zap.String("path", in.Path),
		zap.Duration("elapsed", time.Since(start)),
	)
	return in, nil
}

// ResolvePath maps a local reference onto the filesystem: absolute paths are
// used as-is, relative ones are joined to the upload root.
func (f *Fetcher) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(f.uploadDir, p)
}

func (f *Fetcher) resolveLocal(p string) (*Input, error) {
	resolved := f.ResolvePath(p)

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.FetchError("File not found: "+resolved, fs.ErrNotExist)
		}
		return nil, apperrors.FetchError("Cannot access file: "+resolved, err)
	}
	if info.IsDir() {
		return nil, apperrors.FetchError("Not a regular file: "+resolved, nil)
	}

	return &Input{Path: resolved, Kind: model.InputLocalPath}, nil
}

func (f *Fetcher) saveUpload(name string, content io.Reader) (*Input, error) {
	if content == nil {
		return nil, apperrors.FetchError("No file selected", nil)
	}

	dst := files.UniquePath(f.uploadDir, filepath.Ext(name))
	if _, err := writeToFile(dst, content, f.maxUploadSize); err != nil {
		if errors.Is(err, apperrors.ErrUploadTooLarge) {
			msg := fmt.Sprintf("Uploaded file exceeds %d MB limit", f.maxUploadSize>>20)
			return nil, apperrors.FetchError(msg, err)
		}
		return nil, apperrors.FetchError("Failed to save uploaded file", err)
	}

	return &Input{Path: dst, Kind: model.InputUpload, Owned: true}, nil
}

// writeToFile streams r into a new file at dst. With limit > 0, more than
// limit bytes is an ErrUploadTooLarge failure. On any failure dst is removed.
func writeToFile(dst string, r io.Reader, limit int64) (n int64, err error) {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = files.RemoveIfExists(dst)
		}
	}()

	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	n, err = io.Copy(out, r)
	if err != nil {
		return n, err
	}
	if limit > 0 && n > limit {
		return n, apperrors.ErrUploadTooLarge
	}
	return n, nil
}
