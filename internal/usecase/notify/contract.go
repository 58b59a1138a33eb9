package notify

import (
	"context"

	"github.com/campusfind/refound/internal/domain"
)

// Store is the storage contract for notifications.
type Store interface {
	Create(ctx context.Context, n domain.Notification) error
	ListByRecipient(ctx context.Context, identity string, limit int) ([]domain.Notification, error)
	Get(ctx context.Context, id string) (domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, n domain.Notification) error
}
