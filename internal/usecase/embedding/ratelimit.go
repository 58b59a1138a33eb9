package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/campusfind/refound/internal/domain"
)

// RateLimitedEmbedder wraps an embedder with a token-bucket rate limit so
// bursts of uploads cannot exceed the provider's request quota. Callers
// block until a slot frees or their context ends.
type RateLimitedEmbedder struct {
	inner   domain.ImageEmbedder
	limiter *rate.Limiter
}

// NewRateLimitedEmbedder wraps an embedder with a rate limiter of
// perSecond requests and the given burst.
func NewRateLimitedEmbedder(inner domain.ImageEmbedder, perSecond float64, burst int) *RateLimitedEmbedder {
	return &RateLimitedEmbedder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Embed waits for a rate limit slot and delegates to the inner embedder.
func (e *RateLimitedEmbedder) Embed(ctx context.Context, image []byte) (domain.EmbeddingResult, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("rate limit wait: %w", err)
	}
	return e.inner.Embed(ctx, image)
}
