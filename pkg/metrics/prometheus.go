package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the setup service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Calculation Metrics
	calculations       *prometheus.CounterVec
	clamps             *prometheus.CounterVec
	calculationLatency *prometheus.HistogramVec

	// Batch Metrics
	batchJobs     *prometheus.CounterVec
	batchItems    prometheus.Counter
	batchInFlight prometheus.Gauge
	batchWorkers  prometheus.Gauge

	// Adapter Metrics
	importRows      *prometheus.CounterVec
	reportsRendered *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "garage",
		subsystem:        "setup",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	// Calculation Metrics - one series per engine
	m.calculations = m.counterVec("calculations_total",
		"Total number of calculations by engine and outcome", "engine", "outcome")
	m.clamps = m.counterVec("clamps_total",
		"Total number of results clamped to a ceiling or floor", "engine", "kind")
	m.calculationLatency = m.histogramVec("calculation_latency_milliseconds",
		"Calculation latency in milliseconds", m.histogramBuckets, "engine")

	// Batch Metrics
	m.batchJobs = m.counterVec("batch_jobs_total", "Total number of batch jobs by outcome", "outcome")
	m.batchItems = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "batch_items_total",
		Help:        "Total number of items processed in batches",
		ConstLabels: m.constLabels,
	})
	m.batchInFlight = m.gauge("batch_items_in_flight", "Number of batch items currently being calculated")
	m.batchWorkers = m.gauge("batch_workers", "Configured number of batch workers")

	// Adapter Metrics
	m.importRows = m.counterVec("import_rows_total", "Total number of imported spreadsheet rows by outcome", "outcome")
	m.reportsRendered = m.counterVec("reports_rendered_total", "Total number of setup sheets rendered by outcome", "outcome")

	// HTTP Performance Metrics
	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")

	// Error Metrics
	m.errorRateByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total",
		"Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds",
		"Latency of operations that resulted in errors", m.histogramBuckets, "component", "error_type")

	// System Performance Metrics
	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Calculation Metrics Functions.

// RecordCalculation counts one calculation for engine with the given outcome
// (ok, clamped, insufficient_input, error).
func RecordCalculation(engine, outcome string) {
	globalManager.calculations.WithLabelValues(engine, outcome).Inc()
}

// RecordClamp counts a result clamped by engine; kind is "max" or "min".
func RecordClamp(engine, kind string) {
	globalManager.clamps.WithLabelValues(engine, kind).Inc()
}

// RecordCalculationLatency records calculation latency in milliseconds.
func RecordCalculationLatency(engine string, latencyMs float64) {
	globalManager.calculationLatency.WithLabelValues(engine).Observe(latencyMs)
}

// Batch Metrics Functions.

// RecordBatchJob counts a finished batch job.
func RecordBatchJob(outcome string) {
	globalManager.batchJobs.WithLabelValues(outcome).Inc()
}

// RecordBatchItems adds n processed batch items.
func RecordBatchItems(n int) {
	globalManager.batchItems.Add(float64(n))
}

// AddBatchInFlight adjusts the in-flight item gauge by delta.
func AddBatchInFlight(delta int) {
	globalManager.batchInFlight.Add(float64(delta))
}

// UpdateBatchWorkers sets the configured batch worker count.
func UpdateBatchWorkers(count int) {
	globalManager.batchWorkers.Set(float64(count))
}

// Adapter Metrics Functions.

// RecordImportRows adds n imported rows with the given outcome (ok, invalid).
func RecordImportRows(outcome string, n int) {
	globalManager.importRows.WithLabelValues(outcome).Add(float64(n))
}

// RecordReportRendered counts a rendered setup sheet.
func RecordReportRendered(outcome string) {
	globalManager.reportsRendered.WithLabelValues(outcome).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
