// Package metrics provides Prometheus metrics for the emochain assessment service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Assessment pipeline
	assessmentsTotal   *prometheus.CounterVec
	assessmentErrors   *prometheus.CounterVec
	assessmentLatency  prometheus.Histogram
	readinessScore     prometheus.Histogram
	consensusDecisions *prometheus.CounterVec
	dataQuality        prometheus.Histogram
	anomaliesTotal     *prometheus.CounterVec
	anomalyRejections  prometheus.Counter
	classifierLatency  *prometheus.HistogramVec
	classifierErrors   *prometheus.CounterVec
	modelFallbacks     prometheus.Counter

	// Sessions
	sessionsActive   prometheus.Gauge
	sessionEvictions prometheus.Counter

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerIdleCount         prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Decision store
	storeValidators    prometheus.Gauge
	storeReady         prometheus.Gauge
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorRateByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "emochain",
		subsystem:        "assessment",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	lat := m.histogramBuckets

	m.assessmentsTotal = m.counterVec("assessments_total", "Assessments completed by scoring mode and emotion category", "mode", "category")
	m.assessmentErrors = m.counterVec("assessment_errors_total", "Assessments that failed, by pipeline stage", "stage")
	m.assessmentLatency = m.histogram("assessment_latency_milliseconds", "End-to-end pipeline latency in milliseconds", lat)
	m.readinessScore = m.histogram("readiness_score", "Distribution of readiness scores", prometheus.LinearBuckets(10, 10, 10))
	m.consensusDecisions = m.counterVec("consensus_decisions_total", "Readiness decisions by outcome", "ready")
	m.dataQuality = m.histogram("data_quality", "Distribution of data quality scores", prometheus.LinearBuckets(0.1, 0.1, 10))
	m.anomaliesTotal = m.counterVec("anomalies_total", "Anomaly rules fired, by type", "type")
	m.anomalyRejections = m.counter("anomaly_rejections_total", "Decisions forced to not-ready by the anomaly detector")
	m.classifierLatency = m.histogramVec("classifier_latency_milliseconds", "Classifier inference latency in milliseconds", lat, "classifier")
	m.classifierErrors = m.counterVec("classifier_errors_total", "Classifier inference failures", "classifier")
	m.modelFallbacks = m.counter("model_fallbacks_total", "Times model loading failed and rule scoring was used")

	m.sessionsActive = m.gauge("sessions_active", "Validator sessions held in memory")
	m.sessionEvictions = m.counter("session_evictions_total", "Validator sessions evicted from the registry")

	m.queueSize = m.gauge("queue_size", "Current size of the assessment queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)")
	m.queueEnqueueRate = m.counter("queue_enqueue_total", "Total number of jobs enqueued")
	m.queueDequeueRate = m.counter("queue_dequeue_total", "Total number of jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of rejected enqueues")
	m.queueProcessingLatency = m.histogram("queue_processing_latency_milliseconds", "Enqueue latency in milliseconds", lat)

	m.workerCount = m.gauge("worker_count", "Configured number of workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Number of busy workers")
	m.workerIdleCount = m.gauge("worker_idle_count", "Number of idle workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Worker job latency in milliseconds", lat)
	m.workerErrorRate = m.counter("worker_errors_total", "Total number of worker errors")

	m.storeValidators = m.gauge("store_validators", "Validators with a stored decision")
	m.storeReady = m.gauge("store_ready_validators", "Validators whose latest decision is consensus ready")
	m.storeUpdateLatency = m.histogram("store_update_latency_milliseconds", "Decision store update latency in milliseconds", lat)
	m.storeQueryLatency = m.histogram("store_query_latency_milliseconds", "Decision store query latency in milliseconds", lat)

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", lat, "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordAssessment counts a completed assessment and its outputs.
func RecordAssessment(mode, category string, readinessScore int, ready bool, quality, latencyMs float64) {
	globalManager.assessmentsTotal.WithLabelValues(mode, category).Inc()
	globalManager.readinessScore.Observe(float64(readinessScore))
	globalManager.dataQuality.Observe(quality)
	globalManager.assessmentLatency.Observe(latencyMs)
	if ready {
		globalManager.consensusDecisions.WithLabelValues("true").Inc()
	} else {
		globalManager.consensusDecisions.WithLabelValues("false").Inc()
	}
}

// RecordAssessmentError counts a failed assessment at stage.
func RecordAssessmentError(stage string) {
	globalManager.assessmentErrors.WithLabelValues(stage).Inc()
}

// RecordAnomalies counts each fired anomaly tag.
func RecordAnomalies(types []string) {
	for _, t := range types {
		globalManager.anomaliesTotal.WithLabelValues(t).Inc()
	}
}

// RecordAnomalyRejection counts a decision forced to not-ready.
func RecordAnomalyRejection() {
	globalManager.anomalyRejections.Inc()
}

// RecordClassifierLatency records one inference latency.
func RecordClassifierLatency(classifier string, latencyMs float64) {
	globalManager.classifierLatency.WithLabelValues(classifier).Observe(latencyMs)
}

// RecordClassifierError counts a failed inference.
func RecordClassifierError(classifier string) {
	globalManager.classifierErrors.WithLabelValues(classifier).Inc()
}

// RecordModelFallback counts a model load that fell back to rule scoring.
func RecordModelFallback() {
	globalManager.modelFallbacks.Inc()
}

// UpdateSessionsActive sets the number of live sessions.
func UpdateSessionsActive(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionEviction counts an evicted session.
func RecordSessionEviction() {
	globalManager.sessionEvictions.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	globalManager.workerIdleCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// UpdateStoreCounts sets the stored and ready validator gauges.
func UpdateStoreCounts(validators, ready int) {
	globalManager.storeValidators.Set(float64(validators))
	globalManager.storeReady.Set(float64(ready))
}

// RecordStoreUpdateLatency records a decision store write latency.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records a decision store read latency.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the memory usage in bytes.
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
