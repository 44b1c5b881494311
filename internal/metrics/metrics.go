// Package metrics provides Prometheus metrics for AI vendor calls: request
// counts, latencies and token usage, labeled by provider and model.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aigate"

// LatencyBuckets defines histogram buckets for vendor call latency in
// seconds. LLM calls routinely take several seconds, so the buckets stretch
// well past the defaults.
var LatencyBuckets = []float64{
	0.1, 0.25, 0.5, 1.0, 2.0, 3.0, 5.0, 7.5, 10.0, 15.0, 20.0, 30.0, 60.0, 120.0,
}

var (
	// RequestsTotal counts vendor calls by provider, model and outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of AI vendor requests",
		},
		[]string{"provider", "model", "status"},
	)

	// TokensTotal counts tokens consumed by provider and model.
	TokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Total tokens reported by AI vendors",
		},
		[]string{"provider", "model"},
	)

	// RequestDuration tracks end-to-end vendor call latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "AI vendor request latency in seconds",
			Buckets:   LatencyBuckets,
		},
		[]string{"provider"},
	)
)

// Outcome labels for RequestsTotal.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

// ObserveRequest records one completed vendor call.
func ObserveRequest(provider, model, status string, elapsed time.Duration, tokens int) {
	RequestsTotal.WithLabelValues(provider, model, status).Inc()
	RequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	if tokens > 0 {
		TokensTotal.WithLabelValues(provider, model).Add(float64(tokens))
	}
}
