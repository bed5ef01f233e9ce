package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"go.uber.org/zap"
	"whisper-api/internal/app/model"
	"whisper-api/internal/app/util/files"

	apperrors "whisper-api/internal/app/errors"
)

// defaultRemoteExt is used when the URL path carries no extension.
const defaultRemoteExt = ".mp3"

func newHTTPClient(timeout time.Duration, insecure bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in degraded-trust fallback
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// remoteExt picks the extension of the downloaded file from the URL path.
func remoteExt(u *url.URL) string {
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return defaultRemoteExt
}

func (f *Fetcher) download(ctx context.Context, rawURL string) (*Input, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		if err == nil {
			err = errors.New("missing host")
		}
		return nil, apperrors.FetchError("Invalid URL: "+rawURL, err)
	}

	dst := files.UniquePath(f.uploadDir, remoteExt(u))

	err = f.get(ctx, f.client, u.String(), dst)
	if err != nil && f.insecureClient != nil && isCertificateError(err) {
		f.logger.Warn("certificate verification failed, retrying download WITHOUT TLS verification (degraded trust)",
			zap.String("host", u.Host),
			zap.Error(err),
		)
		f.metrics.RecordTLSFallback()
		err = f.get(ctx, f.insecureClient, u.String(), dst)
	}
	if err != nil {
		return nil, apperrors.FetchError("Failed to download audio", err)
	}

	return &Input{Path: dst, Kind: model.InputRemoteURL, Owned: true}, nil
}

// get streams url into dst. A failed attempt leaves no file behind.
func (f *Fetcher) get(ctx context.Context, client *http.Client, rawURL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	n, err := writeToFile(dst, resp.Body, 0)
	if err != nil {
		return fmt.Errorf("failed to write download: %w", err)
	}

	f.logger.Debug("downloaded remote audio", zap.String("path", dst), zap.Int64("bytes", n))
	return nil
}

// isCertificateError reports whether err came from certificate verification
// rather than from the network or the server.
func isCertificateError(err error) bool {
	var (
		verifyErr   *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidErr  x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &unknownAuth) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
