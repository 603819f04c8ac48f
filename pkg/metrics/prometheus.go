// Package metrics provides Prometheus metrics for the practice ratings service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for record skips and reload outcomes.
const (
	SkipFetch     = "fetch"
	SkipDuplicate = "duplicate"
	SkipMalformed = "malformed"

	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	recordsLoaded  prometheus.Counter
	recordsSkipped *prometheus.CounterVec
	reloads        *prometheus.CounterVec
	reloadDuration prometheus.Histogram
	lastReloadUnix prometheus.Gauge

	// Snapshot gauges
	players   prometheus.Gauge
	practices prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tribe",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewCounter(m.counterOpts("records_loaded_total",
		"Total number of practice records fetched and decoded"))
	m.recordsSkipped = auto.NewCounterVec(m.counterOpts("records_skipped_total",
		"Practice records skipped, by reason"), []string{"reason"})
	m.reloads = auto.NewCounterVec(m.counterOpts("reloads_total",
		"Pipeline reloads, by outcome"), []string{"outcome"})
	m.reloadDuration = auto.NewHistogram(m.histogramOpts("reload_duration_seconds",
		"Time to load, aggregate, rate and rank all practices"))
	m.lastReloadUnix = auto.NewGauge(m.gaugeOpts("last_reload_timestamp_seconds",
		"Unix time of the last successful reload"))

	m.players = auto.NewGauge(m.gaugeOpts("players",
		"Number of ranked players in the current snapshot"))
	m.practices = auto.NewGauge(m.gaugeOpts("practices",
		"Number of practice records in the current snapshot"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_seconds",
		"HTTP request duration in seconds"),
		[]string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("http_errors_total",
		"HTTP error responses by endpoint and error type"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
}

// RecordRecordLoaded increments the loaded records counter.
func RecordRecordLoaded() {
	globalManager.recordsLoaded.Inc()
}

// RecordRecordSkipped increments the skipped records counter for reason.
func RecordRecordSkipped(reason string) {
	globalManager.recordsSkipped.WithLabelValues(reason).Inc()
}

// RecordReload records a pipeline run and its duration.
func RecordReload(outcome string, d time.Duration) {
	globalManager.reloads.WithLabelValues(outcome).Inc()
	globalManager.reloadDuration.Observe(d.Seconds())
	if outcome == OutcomeOK {
		globalManager.lastReloadUnix.SetToCurrentTime()
	}
}

// UpdateSnapshotSize sets the player and practice gauges.
func UpdateSnapshotSize(players, practices int) {
	globalManager.players.Set(float64(players))
	globalManager.practices.Set(float64(practices))
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, d time.Duration) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(d.Seconds())
}

// RecordErrorByEndpoint records an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
