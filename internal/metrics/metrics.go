// file: internal/metrics/metrics.go
// version: 1.1.0
// guid: 27ff74ed-1c7b-46e9-b505-b10208e69266

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	jobExecutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chorrosion",
		Name:      "job_executions_total",
		Help:      "Total number of job executions by job id and outcome",
	}, []string{"job", "outcome"})
	jobTicksDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chorrosion",
		Name:      "job_ticks_dropped_total",
		Help:      "Scheduled ticks dropped because the concurrency semaphore was saturated",
	}, []string{"job"})
	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chorrosion",
		Name:      "job_duration_seconds",
		Help:      "Histogram of job execution durations in seconds by job id",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10), // ~50ms up to several minutes
	}, []string{"job"})

	importDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chorrosion",
		Name:      "import_decisions_total",
		Help:      "Total catalog decisions produced by the import pipeline",
	}, []string{"decision"})
	filesScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chorrosion",
		Name:      "files_scanned_total",
		Help:      "Total audio files processed by the import pipeline",
	})

	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chorrosion",
		Name:      "upstream_requests_total",
		Help:      "Outbound requests by upstream service and outcome",
	}, []string{"service", "outcome"})

	artistsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "chorrosion",
		Name:      "artists_total",
		Help:      "Current number of artists in the catalog",
	})
	albumsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "chorrosion",
		Name:      "albums_total",
		Help:      "Current number of albums in the catalog",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(jobExecutions, jobTicksDropped, jobDuration,
			importDecisions, filesScanned, upstreamRequests,
			artistsGauge, albumsGauge)
	})
}

// Scheduler helpers
func IncJobExecution(job, outcome string) { jobExecutions.WithLabelValues(job, outcome).Inc() }
func IncJobTickDropped(job string)        { jobTicksDropped.WithLabelValues(job).Inc() }
func ObserveJobDuration(job string, d time.Duration) {
	jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

// Pipeline helpers
func IncImportDecision(decision string) { importDecisions.WithLabelValues(decision).Inc() }
func AddFilesScanned(n int)             { filesScanned.Add(float64(n)) }

// Client helpers
func IncUpstreamRequest(service, outcome string) {
	upstreamRequests.WithLabelValues(service, outcome).Inc()
}

// Gauges
func SetArtists(n int) { artistsGauge.Set(float64(n)) }
func SetAlbums(n int)  { albumsGauge.Set(float64(n)) }
