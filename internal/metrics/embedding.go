package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding transport metrics, registered explicitly from the composition
// root (no init()) so that library users of the engine don't pay for them.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refound",
			Name:      "embedding_requests_total",
			Help:      "Total embedding provider requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refound",
			Name:      "embedding_errors_total",
			Help:      "Embedding provider errors by reason",
		},
		[]string{"model", "reason"},
	)

	EmbeddingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "refound",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	EmbeddingCacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refound",
			Name:      "embedding_cache_hits_total",
			Help:      "Embedding cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

var registerEmbeddingOnce sync.Once

// RegisterEmbeddingMetrics registers embedding metrics with the default
// registry. Safe to call more than once.
func RegisterEmbeddingMetrics() {
	registerEmbeddingOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingErrorsTotal,
			EmbeddingDuration,
			EmbeddingCacheHitsTotal,
		)
	})
}
