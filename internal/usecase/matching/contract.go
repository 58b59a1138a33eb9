package matching

import (
	"context"

	"github.com/campusfind/refound/internal/domain"
)

// ItemReader reads item report populations for discovery.
type ItemReader interface {
	ListByOwner(ctx context.Context, identity string) ([]domain.ItemReport, error)
	ListOpenByType(ctx context.Context, t domain.ItemType) ([]domain.ItemReport, error)
}

// DismissalReader loads the dismissal ledger for one identity in a single
// call, so per-candidate exclusion checks stay in memory.
type DismissalReader interface {
	All(ctx context.Context, identity string) (domain.DismissedSet, error)
}
