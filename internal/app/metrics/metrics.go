package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records what transcription runs did.
type PipelineMetrics interface {
	// RecordStage records one stage attempt; stageErr is nil on success.
	RecordStage(stage string, elapsed time.Duration, stageErr error)

	// RecordRun records a finished run and, on success, the seconds of audio processed.
	RecordRun(success bool, elapsed time.Duration, audioSec float64)

	// RecordTLSFallback counts downloads retried without certificate verification.
	RecordTLSFallback()

	// RecordFetch counts fetched inputs by kind (upload, local_path, ...).
	RecordFetch(kind string, stageErr error)
}

// Collector implements PipelineMetrics on prometheus.
type Collector struct {
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	audioSeconds  prometheus.Counter
	tlsFallbacks  prometheus.Counter
	fetches       *prometheus.CounterVec
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "whisper",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"stage"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whisper",
			Subsystem: "pipeline",
			Name:      "stage_failures_total",
			Help:      "Pipeline stage failures.",
		}, []string{"stage"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whisper",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Finished transcription runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "whisper",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock time of whole transcription runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		audioSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "whisper",
			Subsystem: "pipeline",
			Name:      "audio_seconds_total",
			Help:      "Seconds of normalized audio successfully transcribed.",
		}),
		tlsFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "whisper",
			Subsystem: "fetch",
			Name:      "tls_insecure_fallback_total",
			Help:      "Downloads retried without certificate verification.",
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whisper",
			Subsystem: "fetch",
			Name:      "inputs_total",
			Help:      "Fetched inputs by reference kind and result.",
		}, []string{"kind", "result"}),
	}

	reg.MustRegister(
		c.stageDuration,
		c.stageFailures,
		c.runs,
		c.runDuration,
		c.audioSeconds,
		c.tlsFallbacks,
		c.fetches,
	)
	return c
}

func (c *Collector) RecordStage(stage string, elapsed time.Duration, stageErr error) {
	c.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if stageErr != nil {
		c.stageFailures.WithLabelValues(stage).Inc()
	}
}

func (c *Collector) RecordRun(success bool, elapsed time.Duration, audioSec float64) {
	c.runDuration.Observe(elapsed.Seconds())
	if !success {
		c.runs.WithLabelValues("failure").Inc()
		return
	}
	c.runs.WithLabelValues("success").Inc()
	if audioSec > 0 {
		c.audioSeconds.Add(audioSec)
	}
}

func (c *Collector) RecordTLSFallback() {
	c.tlsFallbacks.Inc()
}

func (c *Collector) RecordFetch(kind string, stageErr error) {
	result := "ok"
	if stageErr != nil {
		result = "error"
	}
	c.fetches.WithLabelValues(kind, result).Inc()
}

// Nop discards everything. Used by the CLI and tests.
type Nop struct{}

func (Nop) RecordStage(string, time.Duration, error) {}
func (Nop) RecordRun(bool, time.Duration, float64) {}
func (Nop) RecordTLSFallback() {}
func (Nop) RecordFetch(string, error) {}
