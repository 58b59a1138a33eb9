package claim

import (
	"context"
	"time"

	"github.com/campusfind/refound/internal/domain"
)

// ItemStore is the storage contract for the claim transition.
type ItemStore interface {
	Get(ctx context.Context, id string) (domain.ItemReport, error)
	// ClaimPair applies the open→claimed transition to both items as a
	// single atomic unit, re-validating open status inside the store.
	ClaimPair(ctx context.Context, matched, owned domain.ItemReport, identity string, at time.Time) error
}

// Notifier delivers the claim notice to the claimed-against owner.
type Notifier interface {
	NotifyClaim(ctx context.Context, matched, owned domain.ItemReport)
}
