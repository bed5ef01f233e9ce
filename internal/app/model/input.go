package model

import (
	"fmt"
	"io"
	"strings"
)

// InputKind tags the variant held by an InputReference.
type InputKind int

const (
	InputUpload InputKind = iota
	InputLocalPath
	InputRemoteURL
	InputObjectKey
)

func (k InputKind) String() string {
	switch k {
	case InputUpload:
		return "upload"
	case InputLocalPath:
		return "local_path"
	case InputRemoteURL:
		return "remote_url"
	case InputObjectKey:
		return "object_key"
	default:
		return fmt.Sprintf("InputKind(%d)", int(k))
	}
}

// InputReference names the audio a pipeline run should transcribe.
// Only the fields of the active Kind are meaningful.
type InputReference struct {
	Kind InputKind

	// InputUpload
	Name    string
	Content io.Reader

	// InputLocalPath
	Path string

	// InputRemoteURL
	URL string

	// InputObjectKey
	Bucket string
	Key    string
}

func UploadedBytes(name string, content io.Reader) InputReference {
	return InputReference{Kind: InputUpload, Name: name, Content: content}
}

func LocalPath(path string) InputReference {
	return InputReference{Kind: InputLocalPath, Path: path}
}

func RemoteURL(url string) InputReference {
	return InputReference{Kind: InputRemoteURL, URL: url}
}

func ObjectKey(bucket, key string) InputReference {
	return InputReference{Kind: InputObjectKey, Bucket: bucket, Key: key}
}

// ObjectScheme prefixes references into the configured object store.
const ObjectScheme = "s3://"

// IsRemoteURL reports whether s should be downloaded over HTTP.
func IsRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ParseReference classifies a file_path value: http(s) URLs are downloaded,
// s3://bucket/key values are read from the object store and everything else
// is a local path.
func ParseReference(s string) (InputReference, error) {
	switch {
	case IsRemoteURL(s):
		return RemoteURL(s), nil
	case strings.HasPrefix(s, ObjectScheme):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(s, ObjectScheme), "/")
		if !ok || bucket == "" || key == "" {
			return InputReference{}, fmt.Errorf("invalid object reference %q: expected s3://bucket/key", s)
		}
		return ObjectKey(bucket, key), nil
	default:
		return LocalPath(s), nil
	}
}

// String renders the reference for logs. Upload content is never included.
func (r InputReference) String() string {
	switch r.Kind {
	case InputUpload:
		return "upload:" + r.Name
	case InputLocalPath:
		return r.Path
	case InputRemoteURL:
		return r.URL
	case InputObjectKey:
		return ObjectScheme + r.Bucket + "/" + r.Key
	default:
		return r.Kind.String()
	}
}
