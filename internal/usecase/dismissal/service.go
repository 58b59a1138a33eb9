// Package dismissal implements the dismissal ledger: durable, idempotent
// "never show this pair again" decisions.
package dismissal

import (
	"context"
	"fmt"

	"github.com/campusfind/refound/internal/domain"
	"github.com/campusfind/refound/internal/metrics"
)

// Ledger is the storage contract for dismissal records.
type Ledger interface {
	Upsert(ctx context.Context, d domain.Dismissal) error
}

// Service records dismissals.
type Service struct {
	ledger Ledger
}

// New creates a dismissal service.
func New(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// Dismiss records that identity never wants to see dismissedItemID suggested
// for ownedItemID again. Dismissing the same tuple twice is a no-op success.
// The items are not checked for existence or status: the preference outlives
// both reports.
func (s *Service) Dismiss(ctx context.Context, identity, ownedItemID, dismissedItemID string) error {
	if identity == "" || ownedItemID == "" || dismissedItemID == "" {
		return fmt.Errorf("identity, owned item and dismissed item are required: %w", domain.ErrInvalidInput)
	}

	d := domain.Dismissal{
		Identity:        identity,
		OwnedItemID:     ownedItemID,
		DismissedItemID: dismissedItemID,
	}
	if err := s.ledger.Upsert(ctx, d); err != nil {
		return fmt.Errorf("dismiss %s for %s: %w", dismissedItemID, ownedItemID, err)
	}

	metrics.DismissalsTotal.Inc()
	return nil
}
