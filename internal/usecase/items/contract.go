package items

import (
	"context"

	"github.com/campusfind/refound/internal/domain"
)

// Store is the storage contract for item views and removal.
type Store interface {
	Get(ctx context.Context, id string) (domain.ItemReport, error)
	GetImage(ctx context.Context, id string) ([]byte, string, error)
	ListByOwner(ctx context.Context, identity string) ([]domain.ItemReport, error)
	Delete(ctx context.Context, it domain.ItemReport) error
}
