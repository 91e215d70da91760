// Package metrics exposes Prometheus collectors for completion traffic.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for CompletionMetrics.ObserveRequest.
const (
	OutcomeSuccess   = "success"
	OutcomeFatal     = "fatal"
	OutcomeExhausted = "retries_exhausted"
	OutcomeConfig    = "config_error"
	OutcomeInvalid   = "invalid_input"
	OutcomeCanceled  = "canceled"
)

// CompletionMetrics counts completion requests, retries and latency.
type CompletionMetrics struct {
	requestsTotal   *prometheus.CounterVec
	retriesTotal    prometheus.Counter
	attempts        prometheus.Histogram
	requestDuration *prometheus.HistogramVec
}

// NewCompletionMetrics creates the collectors and registers them on reg, or on
// the default registerer when reg is nil. It panics on duplicate registration.
func NewCompletionMetrics(reg prometheus.Registerer) *CompletionMetrics {
	m := &CompletionMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "materials_assistant",
			Subsystem: "completion",
			Name:      "requests_total",
			Help:      "Completion requests by terminal outcome",
		}, []string{"source", "outcome"}),
		retriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "materials_assistant",
			Subsystem: "completion",
			Name:      "retries_total",
			Help:      "Backoff retries after transient overload responses",
		}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "materials_assistant",
			Subsystem: "completion",
			Name:      "attempts",
			Help:      "Underlying calls consumed per successful request",
			Buckets:   []float64{1, 2, 3, 4, 5, 8},
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "materials_assistant",
			Subsystem: "completion",
			Name:      "request_duration_seconds",
			Help:      "End-to-end latency including backoff",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.retriesTotal, m.attempts, m.requestDuration)
	return m
}

// ObserveRequest records one finished request. source is "cli" or "web".
func (m *CompletionMetrics) ObserveRequest(source, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(source, outcome).Inc()
	m.requestDuration.WithLabelValues(source).Observe(seconds)
}

// ObserveRetry counts one backoff retry. Safe on a nil receiver.
func (m *CompletionMetrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.retriesTotal.Inc()
}

// ObserveAttempts records how many calls a successful request consumed.
func (m *CompletionMetrics) ObserveAttempts(n int) {
	if m == nil {
		return
	}
	m.attempts.Observe(float64(n))
}
