package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"whisper-api/internal/app/model"
	"whisper-api/internal/app/util/files"
	"whisper-api/internal/config"

	apperrors "whisper-api/internal/app/errors"
)

// ObjectStore reads audio objects from an S3-compatible bucket store.
type ObjectStore interface {
	// Open returns the object's content. A missing object yields an error
	// matching fs.ErrNotExist.
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// MinioObjectStore implements ObjectStore using MinIO's client, which also
// speaks to Cloudflare R2 and AWS S3.
type MinioObjectStore struct {
	client *minio.Client
}

// NewObjectStore returns the configured store, or a nil ObjectStore when
// s3:// references are disabled.
func NewObjectStore(cfg *config.Config) (ObjectStore, error) {
	if !cfg.ObjectStore.Enabled() {
		return nil, nil
	}
	store, err := NewMinioObjectStore(cfg.ObjectStore)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewMinioObjectStore creates a store client for the given endpoint.
func NewMinioObjectStore(cfg config.ObjectStoreConfig) (*MinioObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, apperrors.ErrObjectStoreDisabled
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinioObjectStore{client: client}, nil
}

// Open fetches bucket/key. GetObject is lazy, so Stat is used to surface
// missing objects before any bytes are written locally.
func (s *MinioObjectStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, fmt.Errorf("%s: %w", resp.Message, fs.ErrNotExist)
		}
		return nil, err
	}

	return obj, nil
}

func (f *Fetcher) fetchObject(ctx context.Context, bucket, key string) (*Input, error) {
	ref := model.ObjectKey(bucket, key).String()
	if f.objects == nil {
		return nil, apperrors.FetchError("Object storage is not configured: "+ref, apperrors.ErrObjectStoreDisabled)
	}

	rc, err := f.objects.Open(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.FetchError("File not found: "+ref, err)
		}
		return nil, apperrors.FetchError("Failed to fetch object", err)
	}
	defer rc.Close()

	ext := path.Ext(key)
	if ext == "" {
		ext = defaultRemoteExt
	}
	dst := files.UniquePath(f.uploadDir, ext)
	if _, err := writeToFile(dst, rc, 0); err != nil {
		return nil, apperrors.FetchError("Failed to fetch object", err)
	}

	return &Input{Path: dst, Kind: model.InputObjectKey, Owned: true}, nil
}
