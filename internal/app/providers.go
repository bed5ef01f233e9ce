package app

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"whisper-api/internal/api/server"
	v1routes "whisper-api/internal/api/v1/routes"
	"whisper-api/internal/api/v1/services"
	"whisper-api/internal/app/api/whisper_cpp"
	"whisper-api/internal/app/audio"
	"whisper-api/internal/app/fetcher"
	"whisper-api/internal/app/logging"
	"whisper-api/internal/app/metrics"
	"whisper-api/internal/app/pipeline"
	"whisper-api/internal/app/util/files"
	"whisper-api/internal/config"
)

// Runtime is what the one-shot CLI needs from the object graph.
type Runtime struct {
	Config   *config.Config
	Logger   *zap.Logger
	Pipeline *pipeline.Pipeline
	Fetcher  *fetcher.Fetcher
}

// provideConfig loads the configuration and makes sure the working
// directories exist before any stage writes to them.
func provideConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{cfg.UploadDir, cfg.ScratchDir} {
		if err := files.EnsureDir(dir); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := logging.NewLogger(!cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideTranscriber reports a missing binary or model at startup. The
// service still starts; /health stays unhealthy until the model appears.
func provideTranscriber(cfg *config.Config, logger *zap.Logger) *whisper_cpp.LocalTranscriber {
	lt := whisper_cpp.NewLocalTranscriber(cfg, logger)
	if err := lt.HealthCheck(context.Background()); err != nil {
		logger.Warn("whisper.cpp is not ready", zap.Error(err))
	}
	return lt
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideServiceContainer(ts services.TranscriptionService, ps services.ProviderService) *v1routes.ServiceContainer {
	return &v1routes.ServiceContainer{
		TranscriptionService: ts,
		ProviderService:      ps,
	}
}

var coreSet = wire.NewSet(
	provideConfig,
	provideLogger,
	provideRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	metrics.NewCollector,
	wire.Bind(new(metrics.PipelineMetrics), new(*metrics.Collector)),
)

var pipelineSet = wire.NewSet(
	fetcher.NewObjectStore,
	fetcher.NewFetcher,
	wire.Bind(new(pipeline.Fetcher), new(*fetcher.Fetcher)),
	audio.NewConverter,
	wire.Bind(new(pipeline.Normalizer), new(*audio.Converter)),
	provideTranscriber,
	wire.Bind(new(pipeline.Recognizer), new(*whisper_cpp.LocalTranscriber)),
	pipeline.New,
)

var serverSet = wire.NewSet(
	wire.Bind(new(services.TranscriptionService), new(*pipeline.Pipeline)),
	wire.Bind(new(services.Provider), new(*whisper_cpp.LocalTranscriber)),
	services.NewProviderService,
	provideServiceContainer,
	server.NewServer,
)
