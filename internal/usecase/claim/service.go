// Package claim implements the open→claimed state machine linking two item
// reports as resolved.
package claim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusfind/refound/internal/domain"
	"github.com/campusfind/refound/internal/metrics"
)

// Service performs claim transitions.
type Service struct {
	items    ItemStore
	notifier Notifier

	now func() time.Time
}

// New creates a claim service.
func New(items ItemStore, notifier Notifier) *Service {
	return &Service{items: items, notifier: notifier, now: time.Now}
}

// Claim links matchedItemID to ownedItemID and transitions both to claimed.
//
// Preconditions: identity must own ownedItemID (domain.ErrUnauthorized
// otherwise), and both items must still be open. Open status is re-validated
// atomically inside the store, so two racing claims against the same matched
// item produce exactly one success; the loser observes domain.ErrConflict
// and should refresh its view. Claimed is terminal.
func (s *Service) Claim(ctx context.Context, matchedItemID, ownedItemID, identity string) error {
	err := s.claim(ctx, matchedItemID, ownedItemID, identity)
	metrics.ClaimsTotal.WithLabelValues(claimResult(err)).Inc()
	return err
}

func (s *Service) claim(ctx context.Context, matchedItemID, ownedItemID, identity string) error {
	owned, err := s.items.Get(ctx, ownedItemID)
	if err != nil {
		return fmt.Errorf("get owned item: %w", err)
	}
	if owned.Owner != identity {
		return fmt.Errorf("item %s: %w", ownedItemID, domain.ErrUnauthorized)
	}

	matched, err := s.items.Get(ctx, matchedItemID)
	if err != nil {
		return fmt.Errorf("get matched item: %w", err)
	}

	if err := s.items.ClaimPair(ctx, matched, owned, identity, s.now()); err != nil {
		return fmt.Errorf("claim %s with %s: %w", matchedItemID, ownedItemID, err)
	}

	// Best-effort notice to the claimed-against owner; the transition has
	// already committed and must not be affected by notification failures.
	s.notifier.NotifyClaim(ctx, matched, owned)
	return nil
}

func claimResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
