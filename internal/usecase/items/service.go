// Package items serves owner-scoped item views: the caller's reports, their
// resolved pairs, stored images, and report removal.
package items

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/domain"
)

// MatchedPair joins a claimed report with its resolution counterpart.
// Counterpart is nil when the other side has since been deleted.
type MatchedPair struct {
	Item        domain.ItemReport
	Counterpart *domain.ItemReport
}

// Service answers item view queries.
type Service struct {
	store  Store
	logger *zap.Logger
}

// New creates an items service.
func New(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Mine returns every report owned by identity, newest first.
func (s *Service) Mine(ctx context.Context, identity string) ([]domain.ItemReport, error) {
	items, err := s.store.ListByOwner(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ReportedAt.After(items[j].ReportedAt)
	})
	return items, nil
}

// MatchedPairs returns the caller's claimed reports joined with their
// resolution counterparts, newest claim first. A counterpart that no longer
// exists is tolerated and reported as nil.
func (s *Service) MatchedPairs(ctx context.Context, identity string) ([]MatchedPair, error) {
	items, err := s.store.ListByOwner(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	pairs := make([]MatchedPair, 0)
	for _, it := range items {
		if it.Status != domain.StatusClaimed || it.MatchedWith == "" {
			continue
		}
		pair := MatchedPair{Item: it}
		other, err := s.store.Get(ctx, it.MatchedWith)
		switch {
		case err == nil:
			pair.Counterpart = &other
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Debug("matched counterpart gone",
				zap.String("item_id", it.ID),
				zap.String("matched_with", it.MatchedWith),
			)
		default:
			return nil, fmt.Errorf("get counterpart %s: %w", it.MatchedWith, err)
		}
		pairs = append(pairs, pair)
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Item.ClaimedAt.After(pairs[j].Item.ClaimedAt)
	})
	return pairs, nil
}

// Image returns the stored processed image for an item and its MIME type.
func (s *Service) Image(ctx context.Context, id string) ([]byte, string, error) {
	return s.store.GetImage(ctx, id)
}

// Delete removes a report owned by identity. Non-owners get
// domain.ErrUnauthorized.
func (s *Service) Delete(ctx context.Context, id, identity string) error {
	it, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get item %s: %w", id, err)
	}
	if it.Owner != identity {
		return fmt.Errorf("item %s: %w", id, domain.ErrUnauthorized)
	}
	if err := s.store.Delete(ctx, it); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	s.logger.Info("item report deleted",
		zap.String("item_id", id),
		zap.String("type", string(it.Type)),
	)
	return nil
}
