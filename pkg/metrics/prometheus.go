// Package metrics provides Prometheus metrics for the bigboard service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Board build modes used as label values.
const (
	ModeConsensus = "consensus"
	ModeOverride  = "override"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Board metrics
	boardBuilds   *prometheus.CounterVec
	boardPlayers  prometheus.Gauge
	buildLatency  prometheus.Histogram
	reorders      prometheus.Counter
	reorderErrors *prometheus.CounterVec
	resets        prometheus.Counter
	unrankedCount prometheus.Gauge

	// Override store metrics
	overrideLoads   *prometheus.CounterVec
	storageErrors   *prometheus.CounterVec
	overrideEntries prometheus.Gauge

	// Dataset metrics
	datasetLoads *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bigboard",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.boardBuilds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "board_builds_total",
		Help:        "Total number of ordered boards built, by mode",
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.boardPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "board_players",
		Help:        "Number of players on the most recently built board",
		ConstLabels: m.constLabels,
	})

	m.buildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "board_build_latency_milliseconds",
		Help:        "Time spent building an ordered board in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.reorders = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reorders_total",
		Help:        "Total number of applied manual reorders",
		ConstLabels: m.constLabels,
	})

	m.reorderErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reorder_errors_total",
		Help:        "Total number of rejected reorders, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.resets = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "override_resets_total",
		Help:        "Total number of override resets",
		ConstLabels: m.constLabels,
	})

	m.unrankedCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unranked_players",
		Help:        "Players with no valid scout rank on the most recent board",
		ConstLabels: m.constLabels,
	})

	m.overrideLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "override_loads_total",
		Help:        "Override loads by outcome (loaded, absent, corrupt, unavailable)",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.storageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "storage_errors_total",
		Help:        "Override storage failures by operation",
		ConstLabels: m.constLabels,
	}, []string{"op"})

	m.overrideEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "override_entries",
		Help:        "Number of persisted override entries",
		ConstLabels: m.constLabels,
	})

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_loads_total",
		Help:        "Draft dataset loads by result",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP error responses by endpoint and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})
}

// RecordBoardBuild counts a board build and records its size and latency.
func (m *Manager) RecordBoardBuild(mode string, players, unranked int, latencyMs float64) error {
	if mode != ModeConsensus && mode != ModeOverride {
		return fmt.Errorf("%w: %q", ErrUnknownBuildMode, mode)
	}
	m.boardBuilds.WithLabelValues(mode).Inc()
	m.boardPlayers.Set(float64(players))
	m.unrankedCount.Set(float64(unranked))
	m.buildLatency.Observe(latencyMs)
	return nil
}

// RecordReorder counts an applied reorder.
func (m *Manager) RecordReorder() { m.reorders.Inc() }

// RecordReorderError counts a rejected reorder.
func (m *Manager) RecordReorderError(reason string) { m.reorderErrors.WithLabelValues(reason).Inc() }

// RecordReset counts an override reset.
func (m *Manager) RecordReset() {
	m.resets.Inc()
	m.overrideEntries.Set(0)
}

// RecordOverrideLoad counts an override load by status.
func (m *Manager) RecordOverrideLoad(status string, entries int) {
	m.overrideLoads.WithLabelValues(status).Inc()
	m.overrideEntries.Set(float64(entries))
}

// RecordStorageError counts a storage failure for op (load, save, clear).
func (m *Manager) RecordStorageError(op string) { m.storageErrors.WithLabelValues(op).Inc() }

// RecordDatasetLoad counts a dataset load by result (ok, error).
func (m *Manager) RecordDatasetLoad(result string) { m.datasetLoads.WithLabelValues(result).Inc() }

// RecordHTTPRequest records one served HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an HTTP error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// Counter accessors for callers that assert on recorded values.

// BoardBuilds returns the board build counter for mode.
func (m *Manager) BoardBuilds(mode string) prometheus.Counter {
	return m.boardBuilds.WithLabelValues(mode)
}

// Reorders returns the applied reorder counter.
func (m *Manager) Reorders() prometheus.Counter { return m.reorders }

// ReorderErrors returns the rejected reorder counter for reason.
func (m *Manager) ReorderErrors(reason string) prometheus.Counter {
	return m.reorderErrors.WithLabelValues(reason)
}

// Resets returns the override reset counter.
func (m *Manager) Resets() prometheus.Counter { return m.resets }

// OverrideLoads returns the override load counter for status.
func (m *Manager) OverrideLoads(status string) prometheus.Counter {
	return m.overrideLoads.WithLabelValues(status)
}

// StorageErrors returns the storage error counter for op.
func (m *Manager) StorageErrors(op string) prometheus.Counter {
	return m.storageErrors.WithLabelValues(op)
}

// DatasetLoads returns the dataset load counter for result.
func (m *Manager) DatasetLoads(result string) prometheus.Counter {
	return m.datasetLoads.WithLabelValues(result)
}

// HTTPRequests returns the HTTP request counter for the label set.
func (m *Manager) HTTPRequests(endpoint, method, statusCode string) prometheus.Counter {
	return m.httpRequests.WithLabelValues(endpoint, method, statusCode)
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}

// RecordBoardBuild records a board build on the global manager.
func RecordBoardBuild(mode string, players, unranked int, latencyMs float64) error {
	return globalManager.RecordBoardBuild(mode, players, unranked, latencyMs)
}

// RecordReorder records an applied reorder on the global manager.
func RecordReorder() { globalManager.RecordReorder() }

// RecordReorderError records a rejected reorder on the global manager.
func RecordReorderError(reason string) { globalManager.RecordReorderError(reason) }

// RecordReset records an override reset on the global manager.
func RecordReset() { globalManager.RecordReset() }

// RecordOverrideLoad records an override load on the global manager.
func RecordOverrideLoad(status string, entries int) {
	globalManager.RecordOverrideLoad(status, entries)
}

// RecordStorageError records a storage failure on the global manager.
func RecordStorageError(op string) { globalManager.RecordStorageError(op) }

// RecordDatasetLoad records a dataset load on the global manager.
func RecordDatasetLoad(result string) { globalManager.RecordDatasetLoad(result) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records an HTTP error on the global manager.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
