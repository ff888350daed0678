package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stream termination outcome labels.
const (
	OutcomeDone       = "done"
	OutcomeError      = "error"
	OutcomeTimeout    = "timeout"
	OutcomeDisconnect = "disconnect"
)

// RelayMetrics tracks relay request processing.
//
// Metrics:
//   - <ns>_requests_total: request count by endpoint and status
//   - <ns>_request_duration_seconds: request duration by endpoint
//   - <ns>_stream_chunks_total: forwarded content frames
//   - <ns>_stream_terminations_total: terminal frames by outcome
//   - <ns>_credential_refreshes_total: bearer token fetches by result
type RelayMetrics struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	streamChunks       prometheus.Counter
	streamTerminations *prometheus.CounterVec
	credentialRefresh  *prometheus.CounterVec
}

// NewRelayMetrics creates and registers the relay metrics.
func NewRelayMetrics(namespace string, registry *prometheus.Registry) *RelayMetrics {
	rm := &RelayMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of relay requests processed",
			},
			[]string{"endpoint", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of relay requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),

		streamChunks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_chunks_total",
				Help:      "Total number of content frames forwarded to clients",
			},
		),

		streamTerminations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_terminations_total",
				Help:      "Total number of stream terminations by outcome",
			},
			[]string{"outcome"},
		),

		credentialRefresh: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "credential_refreshes_total",
				Help:      "Total number of bearer token fetches by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.streamChunks,
		rm.streamTerminations,
		rm.credentialRefresh,
	)

	return rm
}

// RecordRequest records a completed request.
func (rm *RelayMetrics) RecordRequest(endpoint, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(endpoint, status).Inc()
	rm.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordChunks adds forwarded content frames.
func (rm *RelayMetrics) RecordChunks(n int) {
	if n > 0 {
		rm.streamChunks.Add(float64(n))
	}
}

// RecordTermination records a stream terminal frame by outcome.
func (rm *RelayMetrics) RecordTermination(outcome string) {
	rm.streamTerminations.WithLabelValues(outcome).Inc()
}

// RecordCredentialRefresh records one bearer token fetch.
func (rm *RelayMetrics) RecordCredentialRefresh(result string) {
	rm.credentialRefresh.WithLabelValues(result).Inc()
}
