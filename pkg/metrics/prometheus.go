// Package metrics provides Prometheus metrics for the salary prediction service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Prediction metrics
	predictionsTotal  prometheus.Counter
	predictionErrors  prometheus.Counter
	predictionLatency prometheus.Histogram
	invalidInputs     *prometheus.CounterVec

	// Model store metrics
	modelInfo         *prometheus.GaugeVec
	modelLoadDuration prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpPanics          prometheus.Counter

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// predictionBuckets covers an in-memory dot product, in milliseconds.
var predictionBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "salary",
		subsystem:        "predictor",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.predictionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "predictions_total",
		Help:        "Total number of salary predictions served",
		ConstLabels: labels,
	})

	m.predictionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "prediction_errors_total",
		Help:        "Total number of predictions that failed after validation",
		ConstLabels: labels,
	})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "prediction_latency_milliseconds",
		Help:        "Histogram of model invocation latency in milliseconds",
		Buckets:     predictionBuckets,
		ConstLabels: labels,
	})

	m.invalidInputs = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "invalid_inputs_total",
			Help:        "Total number of rejected prediction requests by offending field",
			ConstLabels: labels,
		},
		[]string{"field"},
	)

	m.modelInfo = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "model_info",
			Help:        "Loaded model artifact; value is always 1",
			ConstLabels: labels,
		},
		[]string{"model_id", "version", "sha256"},
	)

	m.modelLoadDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "model_load_duration_milliseconds",
		Help:        "Time spent loading and validating the model artifact at startup",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpPanics = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_panics_recovered_total",
		Help:        "Total number of handler panics converted into 500 responses",
		ConstLabels: labels,
	})

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_type_total",
			Help:        "Total number of errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Total number of errors by endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Current heap allocation in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutine_count",
		Help:        "Current number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
		ConstLabels: labels,
	})
}

// RecordPrediction counts one served prediction and its model latency.
func (m *Manager) RecordPrediction(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.predictionsTotal.Inc()
	m.predictionLatency.Observe(latencyMs)
}

// RecordPredictionError counts a prediction that failed after validation.
func (m *Manager) RecordPredictionError() {
	if !m.enabled {
		return
	}
	m.predictionErrors.Inc()
}

// RecordInvalidInput counts a rejected request for the given field.
func (m *Manager) RecordInvalidInput(field string) {
	if !m.enabled {
		return
	}
	m.invalidInputs.WithLabelValues(field).Inc()
}

// SetModelInfo publishes the identity of the loaded model.
func (m *Manager) SetModelInfo(modelID, version, sha256 string, loadMs float64) {
	if !m.enabled {
		return
	}
	m.modelInfo.Reset()
	m.modelInfo.WithLabelValues(modelID, version, sha256).Set(1)
	m.modelLoadDuration.Set(loadMs)
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPPanic counts a recovered handler panic.
func (m *Manager) RecordHTTPPanic() {
	if !m.enabled {
		return
	}
	m.httpPanics.Inc()
}

// RecordError counts an error by type, severity and endpoint.
func (m *Manager) RecordError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystem sets process level gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgGCPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgGCPauseMs)
	}
}

// Global shorthands used by the service.

// RecordPrediction records on the global manager.
func RecordPrediction(latencyMs float64) { globalManager.RecordPrediction(latencyMs) }

// RecordPredictionError records on the global manager.
func RecordPredictionError() { globalManager.RecordPredictionError() }

// RecordInvalidInput records on the global manager.
func RecordInvalidInput(field string) { globalManager.RecordInvalidInput(field) }

// SetModelInfo records on the global manager.
func SetModelInfo(modelID, version, sha256 string, loadMs float64) {
	globalManager.SetModelInfo(modelID, version, sha256, loadMs)
}

// RecordHTTPRequest records on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPPanic records on the global manager.
func RecordHTTPPanic() { globalManager.RecordHTTPPanic() }

// RecordError records on the global manager.
func RecordError(endpoint, method, errorType, severity string) {
	globalManager.RecordError(endpoint, method, errorType, severity)
}

// UpdateSystem records on the global manager.
func UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	globalManager.UpdateSystem(memoryBytes, goroutines, avgGCPauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
