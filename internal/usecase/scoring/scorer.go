// Package scoring implements the multi-factor similarity score between two
// item reports. Scoring is pure computation: identical inputs always yield
// the identical score, which ranking and pagination depend on.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/campusfind/refound/internal/domain"
)

const (
	categoryBonusPoints  = 15.0
	temporalBonusPoints  = 10.0
	temporalWindowDays   = 7.0
	descriptionBonusMax  = 10.0
	minSharedTokenLength = 4
)

// Score combines vector similarity with metadata bonuses into a single value
// in [0, 100]. The bonus terms can push the raw sum past 100; the result is
// clamped. Returns domain.ErrInvalidVector when either vector is empty, of
// mismatched length, or has zero magnitude; callers must skip such pairs
// rather than treat them as zero-score matches.
func Score(a, b domain.ItemReport) (float64, error) {
	cos, err := Cosine(a.Vector, b.Vector)
	if err != nil {
		return 0, err
	}

	score := cos * 100
	score += categoryBonus(a.Category, b.Category)
	score += temporalBonus(a.ReportedAt, b.ReportedAt)
	score += descriptionBonus(a.Description, b.Description)

	return clamp(score, 0, 100), nil
}

// Cosine returns the cosine similarity of two feature vectors, accumulated
// in float64 for determinism across vector sizes.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty vector: %w", domain.ErrInvalidVector)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d: %w", len(a), len(b), domain.ErrInvalidVector)
	}

	var dot, magA, magB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}
	if magA == 0 || magB == 0 {
		return 0, fmt.Errorf("zero-magnitude vector: %w", domain.ErrInvalidVector)
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}

// categoryBonus rewards an exact, case-sensitive category match.
func categoryBonus(a, b string) float64 {
	if a != "" && a == b {
		return categoryBonusPoints
	}
	return 0
}

// temporalBonus decays linearly from 10 at zero day difference to 0 at
// exactly seven days. Reports without a date contribute nothing.
func temporalBonus(a, b time.Time) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	days := math.Abs(a.Sub(b).Hours()) / 24
	if days > temporalWindowDays {
		return 0
	}
	return temporalBonusPoints * (1 - days/temporalWindowDays)
}

// descriptionBonus rewards shared long tokens between the two descriptions.
// Tokens are lowercased and split on whitespace; only distinct shared tokens
// longer than three characters count, so the term is symmetric.
func descriptionBonus(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	tokensA := strings.Fields(strings.ToLower(a))
	tokensB := strings.Fields(strings.ToLower(b))
	total := max(len(tokensA), len(tokensB))
	if total == 0 {
		return 0
	}

	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		if len(t) >= minSharedTokenLength {
			setB[t] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(tokensA))
	shared := 0
	for _, t := range tokensA {
		if len(t) < minSharedTokenLength {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := setB[t]; ok {
			shared++
		}
	}

	return descriptionBonusMax * float64(shared) / float64(total)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
