// Package embcache caches feature vectors keyed by image content hash, so
// re-uploads of the same photo skip the embedding provider entirely.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/db"
	"github.com/campusfind/refound/internal/domain"
	"github.com/campusfind/refound/internal/metrics"
)

// store is the consumer interface for the vector cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Embedder wraps an ImageEmbedder with a content-addressed vector cache.
// Cache failures are logged and degrade to a provider call, never an error.
type Embedder struct {
	inner  domain.ImageEmbedder
	store  store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a caching embedder decorator.
func New(inner domain.ImageEmbedder, s store, prefix string, ttl time.Duration, logger *zap.Logger) *Embedder {
	return &Embedder{inner: inner, store: s, prefix: prefix, ttl: ttl, logger: logger}
}

func (e *Embedder) key(image []byte) string {
	sum := sha256.Sum256(image)
	return e.prefix + "embcache:" + hex.EncodeToString(sum[:])
}

// Embed implements domain.ImageEmbedder.
func (e *Embedder) Embed(ctx context.Context, image []byte) (domain.EmbeddingResult, error) {
	key := e.key(image)

	if data, err := e.store.Get(ctx, key); err == nil {
		var vec []float32
		if jsonErr := json.Unmarshal(data, &vec); jsonErr == nil {
			metrics.EmbeddingCacheHitsTotal.WithLabelValues("hit").Inc()
			return domain.EmbeddingResult{Vector: vec}, nil
		}
		e.logger.Warn("corrupt embedding cache entry", zap.String("key", key))
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		e.logger.Warn("embedding cache read failed", zap.Error(err))
	}
	metrics.EmbeddingCacheHitsTotal.WithLabelValues("miss").Inc()

	result, err := e.inner.Embed(ctx, image)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	if data, err := json.Marshal(result.Vector); err == nil {
		if err := e.store.SetWithTTL(ctx, key, data, e.ttl); err != nil {
			e.logger.Warn("embedding cache write failed", zap.Error(err))
		}
	}

	return result, nil
}
