// Package metrics provides Prometheus metrics for the devscore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the devscore service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	metricPrefix     string
	registry         prometheus.Registerer

	// Daily score metrics
	dailyScores        prometheus.Counter
	dailyScoreValue    prometheus.Histogram
	dailyTierFallbacks prometheus.Counter
	dailyLoadFactor    prometheus.Histogram

	// Rating update metrics
	ratingUpdates       prometheus.Counter
	ratingMembers       prometheus.Counter
	ratingChange        prometheus.Histogram
	ratingExpected      prometheus.Histogram
	configurationErrors prometheus.Counter

	// Boundary rejections by endpoint
	validationErrors *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

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
		namespace:        "devscore",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.dailyScores = auto.NewCounter(m.counterOpts(
		"daily_scores_total", "Total number of daily scores computed"))
	m.dailyScoreValue = auto.NewHistogram(m.histogramOpts(
		"daily_score", "Distribution of computed daily scores",
		prometheus.LinearBuckets(10, 10, 10)))
	m.dailyTierFallbacks = auto.NewCounter(m.counterOpts(
		"daily_tier_fallbacks_total", "Daily scores computed with the neutral multiplier for an unrecognized tier"))
	m.dailyLoadFactor = auto.NewHistogram(m.histogramOpts(
		"daily_load_factor", "Distribution of applied project load factors",
		[]float64{0.6, 0.7, 0.85, 1}))

	m.ratingUpdates = auto.NewCounter(m.counterOpts(
		"rating_updates_total", "Total number of task completions applied"))
	m.ratingMembers = auto.NewCounter(m.counterOpts(
		"rating_members_total", "Total number of member ratings updated"))
	m.ratingChange = auto.NewHistogram(m.histogramOpts(
		"rating_change", "Distribution of per-member rating changes",
		prometheus.LinearBuckets(-40, 5, 17)))
	m.ratingExpected = auto.NewHistogram(m.histogramOpts(
		"rating_expected_score", "Distribution of team expected scores",
		prometheus.LinearBuckets(0.1, 0.1, 9)))
	m.configurationErrors = auto.NewCounter(m.counterOpts(
		"configuration_errors_total", "Rating updates rejected for an unrecognized tier"))

	m.validationErrors = auto.NewCounterVec(m.counterOpts(
		"validation_errors_total", "Requests rejected at the boundary by endpoint"),
		[]string{"endpoint"})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Total number of errors by type and severity"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint and method"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of operations that resulted in errors",
		m.histogramBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordDailyScore records one computed daily score, its load factor and
// whether the tier fell back to the neutral multiplier.
func RecordDailyScore(score, loadFactor float64, tierFallback bool) {
	globalManager.dailyScores.Inc()
	globalManager.dailyScoreValue.Observe(score)
	globalManager.dailyLoadFactor.Observe(loadFactor)
	if tierFallback {
		globalManager.dailyTierFallbacks.Inc()
	}
}

// RecordRatingUpdate records one applied task completion.
func RecordRatingUpdate(expected float64, changes []float64) {
	globalManager.ratingUpdates.Inc()
	globalManager.ratingExpected.Observe(expected)
	globalManager.ratingMembers.Add(float64(len(changes)))
	for _, c := range changes {
		globalManager.ratingChange.Observe(c)
	}
}

// RecordConfigurationError increments the unrecognized-tier counter.
func RecordConfigurationError() {
	globalManager.configurationErrors.Inc()
}

// RecordValidationError increments the boundary rejection counter.
func RecordValidationError(endpoint string) {
	globalManager.validationErrors.WithLabelValues(endpoint).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
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
