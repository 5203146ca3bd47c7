package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "consensus"

// #region metrics
// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	// RequestsTotal counts processed requests.
	// Labels: disposition (proceed, proceed_with_note, clarify, error), reason
	RequestsTotal *prometheus.CounterVec

	// IntegrityScore tracks the integrity of every non-fallback request.
	IntegrityScore prometheus.Histogram

	// TopicDivergence tracks topic divergence, the gate's main driver.
	TopicDivergence prometheus.Histogram

	// BackendFailuresTotal counts skipped backends.
	// Labels: backend
	BackendFailuresTotal *prometheus.CounterVec

	// FallbacksTotal counts single-backend fallbacks.
	// Labels: result (success, error)
	FallbacksTotal *prometheus.CounterVec

	// ProcessDuration measures end-to-end request latency.
	ProcessDuration prometheus.Histogram
}

// NewMetrics registers the pipeline collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Processed requests by disposition and reason",
		}, []string{"disposition", "reason"}),
		IntegrityScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "integrity_score",
			Help:      "Integrity score of multi-backend requests",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		TopicDivergence: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "topic_divergence",
			Help:      "Topic divergence of multi-backend requests",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		BackendFailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "backend_failures_total",
			Help:      "Backend calls that failed and were skipped",
		}, []string{"backend"}),
		FallbacksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fallbacks_total",
			Help:      "Single-backend fallbacks by result",
		}, []string{"result"}),
		ProcessDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "process_duration_seconds",
			Help:      "End-to-end request processing time",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}),
	}
}

// #endregion metrics
