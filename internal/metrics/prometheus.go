package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsTotal counts finished transcription jobs by terminal status.
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcriptor_jobs_total",
			Help: "Total number of finished transcription jobs",
		},
		[]string{"status"},
	)

	// EngineRunsTotal counts engine invocations by engine tier and outcome.
	EngineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcriptor_engine_runs_total",
			Help: "Total number of transcription engine invocations",
		},
		[]string{"engine", "outcome"},
	)

	// JobDuration tracks end-to-end job processing time in seconds.
	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transcriptor_job_duration_seconds",
			Help:    "Duration of transcription job processing in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.5m
		},
	)

	// JobsInflight tracks the number of jobs currently being processed.
	JobsInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "transcriptor_jobs_inflight",
			Help: "Number of transcription jobs currently in flight",
		},
	)
)
