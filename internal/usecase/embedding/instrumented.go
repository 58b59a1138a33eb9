// Package embedding decorates the image embedder with resilience and
// observability layers. The layers compose around the provider client and
// are transparent to callers.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/domain"
)

// InstrumentedEmbedder wraps an embedder with structured logging.
// Transport metrics (requests, duration, tokens) are recorded in
// transport/openai; this layer owns request logging only.
type InstrumentedEmbedder struct {
	inner  domain.ImageEmbedder
	model  string
	logger *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with logging.
func NewInstrumentedEmbedder(inner domain.ImageEmbedder, model string, logger *zap.Logger) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{inner: inner, model: model, logger: logger}
}

// Embed delegates to the inner embedder and logs the outcome.
func (e *InstrumentedEmbedder) Embed(ctx context.Context, image []byte) (domain.EmbeddingResult, error) {
	start := time.Now()

	result, err := e.inner.Embed(ctx, image)

	duration := time.Since(start)

	if err != nil {
		e.logger.Error("Embedding request failed",
			zap.String("model", e.model),
			zap.Duration("duration", duration),
			zap.Int("image_bytes", len(image)),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	e.logger.Debug("Embedding request completed",
		zap.String("model", e.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Vector)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}
