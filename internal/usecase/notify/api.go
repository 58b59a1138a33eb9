package notify

import (
	"context"
	"fmt"

	"github.com/campusfind/refound/internal/domain"
)

// DefaultListLimit caps a notification listing when the caller asks for none.
const DefaultListLimit = 50

// Inbox is a notification listing with its unread count.
type Inbox struct {
	Notifications []domain.Notification
	UnreadCount   int
}

// List returns up to limit notifications for identity, newest first, with
// the unread count across the returned page.
func (s *Service) List(ctx context.Context, identity string, limit int) (Inbox, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	notifications, err := s.store.ListByRecipient(ctx, identity, limit)
	if err != nil {
		return Inbox{}, fmt.Errorf("list notifications: %w", err)
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}
	return Inbox{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead flips a single notification to read. Only the recipient may do so.
func (s *Service) MarkRead(ctx context.Context, identity, id string) error {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get notification: %w", err)
	}
	if n.Recipient != identity {
		return domain.ErrNotificationNotFound
	}
	if err := s.store.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// MarkAllRead flips every unread notification of identity to read.
func (s *Service) MarkAllRead(ctx context.Context, identity string) error {
	notifications, err := s.store.ListByRecipient(ctx, identity, -1)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}
	for _, n := range notifications {
		if n.Read {
			continue
		}
		if err := s.store.MarkRead(ctx, n.ID); err != nil {
			return fmt.Errorf("mark %s read: %w", n.ID, err)
		}
	}
	return nil
}

// Delete removes a notification. Only the recipient may do so.
func (s *Service) Delete(ctx context.Context, identity, id string) error {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get notification: %w", err)
	}
	if n.Recipient != identity {
		return domain.ErrNotificationNotFound
	}
	if err := s.store.Delete(ctx, n); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
