// Package metrics provides Prometheus metrics for the trustline service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scoring pipeline
	testsScored            prometheus.Counter
	predictionsRegistered  prometheus.Counter
	evaluationsAccepted    prometheus.Counter
	evaluationsDuplicate   prometheus.Counter
	discrepanciesByBand    *prometheus.CounterVec
	reputationUpdates      prometheus.Counter
	reputationClamps       prometheus.Counter
	scoreComputeLatency    prometheus.Histogram
	workerProcessLatency   prometheus.Histogram
	workerErrors           prometheus.Counter
	journalErrors          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter

	// Operational gauges
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueUtilization  prometheus.Gauge
	workerCount       prometheus.Gauge
	evaluatorsTracked prometheus.Gauge
	endpointsTracked  prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "trustline",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.testsScored = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "tests_scored_total",
		Help: "Test records accepted and folded into a trust score.",
	})
	m.predictionsRegistered = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "predictions_registered_total",
		Help: "Predictions registered before ground truth was known.",
	})
	m.evaluationsAccepted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "evaluations_accepted_total",
		Help: "Evaluations accepted into the discrepancy pipeline.",
	})
	m.evaluationsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "evaluations_duplicate_total",
		Help: "Evaluations rejected as duplicates of a processed prediction.",
	})
	m.discrepanciesByBand = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "discrepancies_total",
		Help: "Analyzed discrepancies by accuracy category.",
	}, []string{"category"})
	m.reputationUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "reputation_updates_total",
		Help: "Applied evaluator reputation updates.",
	})
	m.reputationClamps = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "reputation_clamps_total",
		Help: "Reputation updates that hit the [0,1000] bound.",
	})
	m.scoreComputeLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "score_compute_latency_ms",
		Help:    "Trust score recompute latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.workerProcessLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_processing_latency_ms",
		Help:    "End-to-end evaluation processing latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Evaluation processing failures.",
	})
	m.journalErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "journal_errors_total",
		Help: "Reputation snapshot journal write failures.",
	})
	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Evaluations rejected by the queue.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Evaluations currently queued.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Maximum queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Queue fill ratio in [0,1].",
	})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Running reputation workers.",
	})
	m.evaluatorsTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "evaluators_tracked",
		Help: "Evaluator profiles currently tracked.",
	})
	m.endpointsTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "endpoints_tracked",
		Help: "Endpoints with a cached trust score.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Allocated heap bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Running goroutines.",
	})
	m.systemGCPauseTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "system_gc_pause_ms",
		Help:    "Average GC pause time in milliseconds.",
		Buckets: m.histogramBuckets,
	})
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording through the global manager.

func RecordTestScored()              { globalManager.testsScored.Inc() }
func RecordPredictionRegistered()    { globalManager.predictionsRegistered.Inc() }
func RecordEvaluationAccepted()      { globalManager.evaluationsAccepted.Inc() }
func RecordEvaluationDuplicate()     { globalManager.evaluationsDuplicate.Inc() }
func RecordReputationUpdate()        { globalManager.reputationUpdates.Inc() }
func RecordReputationClamp()         { globalManager.reputationClamps.Inc() }
func RecordWorkerError()             { globalManager.workerErrors.Inc() }
func RecordJournalError()            { globalManager.journalErrors.Inc() }
func RecordQueueEnqueueError()       { globalManager.queueEnqueueErrors.Inc() }

func RecordDiscrepancy(category string) {
	globalManager.discrepanciesByBand.WithLabelValues(category).Inc()
}

func RecordScoreComputeLatency(ms float64)      { globalManager.scoreComputeLatency.Observe(ms) }
func RecordWorkerProcessingLatency(ms float64)  { globalManager.workerProcessLatency.Observe(ms) }

func UpdateQueueSize(n int)            { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)        { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(r float64) { globalManager.queueUtilization.Set(r) }
func UpdateWorkerCount(n int)          { globalManager.workerCount.Set(float64(n)) }
func UpdateEvaluatorsTracked(n int)    { globalManager.evaluatorsTracked.Set(float64(n)) }
func UpdateEndpointsTracked(n int)     { globalManager.endpointsTracked.Set(float64(n)) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

func UpdateSystemMemoryUsage(bytes uint64)  { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)      { globalManager.systemGoroutineCount.Set(float64(n)) }
func RecordSystemGCPauseTime(ms float64)    { globalManager.systemGCPauseTime.Observe(ms) }
