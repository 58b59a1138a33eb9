package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/domain"
)

// BreakerEmbedder wraps an embedder with a circuit breaker. While the
// breaker is open, calls fail fast with domain.ErrEmbeddingUnavailable
// instead of piling onto a struggling provider.
type BreakerEmbedder struct {
	inner   domain.ImageEmbedder
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerEmbedder wraps an embedder with a circuit breaker. The breaker
// opens after 5 consecutive failures and probes again after 30 seconds.
func NewBreakerEmbedder(inner domain.ImageEmbedder, logger *zap.Logger) *BreakerEmbedder {
	settings := gobreaker.Settings{
		Name:    "embedding",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Embedding circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerEmbedder{inner: inner, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Embed delegates to the inner embedder through the breaker.
func (e *BreakerEmbedder) Embed(ctx context.Context, image []byte) (domain.EmbeddingResult, error) {
	out, err := e.breaker.Execute(func() (interface{}, error) {
		return e.inner.Embed(ctx, image)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.EmbeddingResult{}, fmt.Errorf("circuit open: %w", domain.ErrEmbeddingUnavailable)
		}
		return domain.EmbeddingResult{}, err
	}
	return out.(domain.EmbeddingResult), nil
}
