package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"whisper-api/internal/api/v1/dto"
	v1routes "whisper-api/internal/api/v1/routes"
	"whisper-api/internal/app/testutil"
	"whisper-api/internal/config"
)

func newTestServer(t *testing.T) (*Server, *testutil.MockServices) {
	t.Helper()
	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = "0"

	reg := prometheus.NewRegistry()
	marker := prometheus.NewCounter(prometheus.CounterOpts{Name: "whisper_test_marker_total", Help: "test"})
	reg.MustRegister(marker)
	marker.Inc()

	ms := testutil.NewMockServices()
	srv := NewServer(cfg, &v1routes.ServiceContainer{
		TranscriptionService: ms.TranscriptionService,
		ProviderService:      ms.ProviderService,
	}, reg, zap.NewNop())
	return srv, ms
}

func TestServer_WriteTimeoutCoversPipeline(t *testing.T) {
	cfg := config.Default()
	cfg.RecognizeTimeout = 25 * time.Minute

	srv := NewServer(cfg, &v1routes.ServiceContainer{}, prometheus.NewRegistry(), zap.NewNop())

	assert.Equal(t, cfg.ReadTimeout, srv.httpServer.ReadTimeout)
	assert.Equal(t, cfg.PipelineBudget()+config.WriteTimeoutMargin, srv.httpServer.WriteTimeout)
	assert.Greater(t, srv.httpServer.WriteTimeout, cfg.DownloadTimeout+cfg.ConvertTimeout+cfg.RecognizeTimeout)
}

func TestServer_Routes(t *testing.T) {
	srv, ms := newTestServer(t)
	ms.ProviderService.On("GetHealth", mock.Anything).Return(&dto.HealthResponse{Status: "healthy", ModelLoaded: true, Language: "ja"})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "health", path: "/health", wantStatus: http.StatusOK, wantBody: `"status":"healthy"`},
		{name: "metrics", path: "/metrics", wantStatus: http.StatusOK, wantBody: "whisper_test_marker_total 1"},
		{name: "swagger doc", path: "/swagger/doc.json", wantStatus: http.StatusOK, wantBody: "/transcribe"},
		{name: "unknown", path: "/nope", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv, ms := newTestServer(t)
	ms.ProviderService.On("GetHealth", mock.Anything).Return(&dto.HealthResponse{Status: "unhealthy", Language: "ja"})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errCh := srv.Serve(ln)

	resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), `"model_loaded":false`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	err, open := <-errCh
	assert.False(t, open)
	assert.NoError(t, err)
}
