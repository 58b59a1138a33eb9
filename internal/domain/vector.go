package domain

import (
	"fmt"
	"math"
)

// ValidateVector checks that v is a usable feature vector: non-empty, all
// components finite, and of the expected dimension when wantDim > 0.
// The engine never zero-fills a bad vector; callers must fail the operation.
func ValidateVector(v []float32, wantDim int) error {
	if len(v) == 0 {
		return fmt.Errorf("empty vector: %w", ErrInvalidVector)
	}
	if wantDim > 0 && len(v) != wantDim {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d: %w", len(v), wantDim, ErrInvalidVector)
	}
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite component at index %d: %w", i, ErrInvalidVector)
		}
	}
	return nil
}
