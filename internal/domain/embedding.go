package domain

import "context"

// ImageEmbedder turns an image into a fixed-length feature vector. The
// provider owns normalization of its wire format; the engine only ever sees
// a finite, non-empty, fixed-length ordered sequence of numbers.
type ImageEmbedder interface {
	Embed(ctx context.Context, image []byte) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the feature vector and token usage through the
// embedder decorator chain.
type EmbeddingResult struct {
	Vector       []float32
	PromptTokens int
	TotalTokens  int
}
