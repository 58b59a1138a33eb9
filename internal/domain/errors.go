package domain

import "errors"

var (
	// ErrNotFound signals a missing item report.
	ErrNotFound = errors.New("item not found")
	// ErrUnauthorized signals that the acting identity does not own the item.
	ErrUnauthorized = errors.New("not the owner of this item")
	// ErrConflict signals that an item was already claimed at claim time.
	ErrConflict = errors.New("item already claimed")
	// ErrInvalidVector signals a missing, empty, mismatched or degenerate feature vector.
	ErrInvalidVector = errors.New("invalid feature vector")
	// ErrInvalidInput signals a malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotificationNotFound signals a missing notification.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingUnavailable signals that the embedding provider is temporarily cut off.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
)
