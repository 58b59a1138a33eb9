// Package matching implements match discovery: enumerating candidate pairs,
// applying dismissal and claim exclusions, scoring, and ranking.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/campusfind/refound/internal/domain"
	"github.com/campusfind/refound/internal/metrics"
	"github.com/campusfind/refound/internal/usecase/scoring"
)

// Service discovers scored matches between lost and found reports.
type Service struct {
	items      ItemReader
	dismissals DismissalReader
}

// New creates a matching service.
func New(items ItemReader, dismissals DismissalReader) *Service {
	return &Service{items: items, dismissals: dismissals}
}

// FindMatches returns ranked matches for every open lost item owned by
// identity. Found-side reports never initiate discovery: the owner of a lost
// item is the one searching. The pass is read-only and safe to repeat.
func (s *Service) FindMatches(ctx context.Context, identity string) ([]domain.Match, error) {
	mine, err := s.items.ListByOwner(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("list own items: %w", err)
	}

	seeking := mine[:0:0]
	for _, it := range mine {
		if it.IsOpen() && it.Type == domain.TypeLost {
			seeking = append(seeking, it)
		}
	}
	if len(seeking) == 0 {
		return nil, nil
	}

	dismissed, err := s.dismissals.All(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("load dismissals: %w", err)
	}

	candidates, err := s.items.ListOpenByType(ctx, domain.TypeFound)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	var matches []domain.Match
	for _, it := range seeking {
		for _, cand := range candidates {
			if cand.Owner == identity || !cand.IsOpen() {
				continue
			}
			if dismissed.Contains(it.ID, cand.ID) {
				continue
			}
			score, err := scoring.Score(it, cand)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidVector) {
					// Degenerate vector on either side: skip the
					// pair, never surface it as a zero score.
					continue
				}
				return nil, fmt.Errorf("score %s against %s: %w", it.ID, cand.ID, err)
			}
			if score >= domain.MatchThreshold {
				matches = append(matches, domain.Match{YourItem: it, Candidate: cand, Score: score})
			}
		}
	}

	sortMatches(matches)
	metrics.MatchesReturnedTotal.Add(float64(len(matches)))
	return matches, nil
}

// CrossingMatches scores a single report against the whole open population of
// the opposite type, returning every pair at or above the threshold, ranked.
// Used at ingestion time to decide match notifications.
func (s *Service) CrossingMatches(ctx context.Context, it domain.ItemReport) ([]domain.Match, error) {
	candidates, err := s.items.ListOpenByType(ctx, it.Type.Opposite())
	if err != nil {
		return nil, fmt.Errorf("list opposite population: %w", err)
	}

	var matches []domain.Match
	for _, cand := range candidates {
		if cand.Owner == it.Owner || !cand.IsOpen() {
			continue
		}
		score, err := scoring.Score(it, cand)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidVector) {
				continue
			}
			return nil, fmt.Errorf("score %s against %s: %w", it.ID, cand.ID, err)
		}
		if score >= domain.MatchThreshold {
			matches = append(matches, domain.Match{YourItem: it, Candidate: cand, Score: score})
		}
	}

	sortMatches(matches)
	return matches, nil
}

// sortMatches orders by descending score; ties break on ascending candidate
// ID so that pagination and tests see a stable order.
func sortMatches(matches []domain.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Candidate.ID < matches[j].Candidate.ID
	})
}
