// Package notification persists notifications as hashes with a per-recipient
// sorted set ordered by creation time for newest-first listing.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/campusfind/refound/internal/db"
	"github.com/campusfind/refound/internal/domain"
)

// Hash field names for notification records.
const (
	fieldRecipient = "recipient"
	fieldKind      = "kind"
	fieldTitle     = "title"
	fieldMessage   = "message"
	fieldItemID    = "item_id"
	fieldMatchedID = "matched_item_id"
	fieldRead      = "read"
	fieldCreatedAt = "created_at"
)

// store is the consumer interface for notification persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRem(ctx context.Context, key string, members ...string) error
	ZRevRange(ctx context.Context, key string, offset, count int) ([]string, error)
}

// Repo implements notification persistence.
type Repo struct {
	store  store
	prefix string
}

// New creates a notification repository. prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) notifKey(id string) string { return r.prefix + "notification:" + id }
func (r *Repo) idxKey(identity string) string {
	return r.prefix + "idx:notifications:" + identity
}

// Create persists a notification and indexes it for its recipient.
func (r *Repo) Create(ctx context.Context, n domain.Notification) error {
	fields := map[string]string{
		fieldRecipient: n.Recipient,
		fieldKind:      string(n.Kind),
		fieldTitle:     n.Title,
		fieldMessage:   n.Message,
		fieldItemID:    n.ItemID,
		fieldMatchedID: n.MatchedItemID,
		fieldRead:      strconv.FormatBool(n.Read),
		fieldCreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if err := r.store.HSet(ctx, r.notifKey(n.ID), fields); err != nil {
		return fmt.Errorf("store notification %s: %w", n.ID, err)
	}
	score := float64(n.CreatedAt.UnixMilli())
	if err := r.store.ZAdd(ctx, r.idxKey(n.Recipient), score, n.ID); err != nil {
		return fmt.Errorf("index notification %s: %w", n.ID, err)
	}
	return nil
}

// ListByRecipient returns up to limit notifications, newest first.
func (r *Repo) ListByRecipient(ctx context.Context, identity string, limit int) ([]domain.Notification, error) {
	ids, err := r.store.ZRevRange(ctx, r.idxKey(identity), 0, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", identity, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.notifKey(id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(ids))
	for i, fields := range maps {
		if fields == nil {
			continue
		}
		n, err := decode(ids[i], fields)
		if err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", ids[i], err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Get returns a single notification.
func (r *Repo) Get(ctx context.Context, id string) (domain.Notification, error) {
	fields, err := r.store.HGetAll(ctx, r.notifKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Notification{}, domain.ErrNotificationNotFound
		}
		return domain.Notification{}, fmt.Errorf("get notification %s: %w", id, err)
	}
	return decode(id, fields)
}

// MarkRead flips the read flag on a stored notification.
func (r *Repo) MarkRead(ctx context.Context, id string) error {
	if err := r.store.HSet(ctx, r.notifKey(id), map[string]string{fieldRead: "true"}); err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return nil
}

// Delete removes a notification and its index entry.
func (r *Repo) Delete(ctx context.Context, n domain.Notification) error {
	if err := r.store.Del(ctx, r.notifKey(n.ID)); err != nil {
		return fmt.Errorf("delete notification %s: %w", n.ID, err)
	}
	if err := r.store.ZRem(ctx, r.idxKey(n.Recipient), n.ID); err != nil {
		return fmt.Errorf("unindex notification %s: %w", n.ID, err)
	}
	return nil
}

func decode(id string, fields map[string]string) (domain.Notification, error) {
	n := domain.Notification{
		ID:            id,
		Recipient:     fields[fieldRecipient],
		Kind:          domain.NotificationKind(fields[fieldKind]),
		Title:         fields[fieldTitle],
		Message:       fields[fieldMessage],
		ItemID:        fields[fieldItemID],
		MatchedItemID: fields[fieldMatchedID],
		Read:          fields[fieldRead] == "true",
	}
	if raw := fields[fieldCreatedAt]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return domain.Notification{}, fmt.Errorf("parse created_at %q: %w", raw, err)
		}
		n.CreatedAt = t
	}
	return n, nil
}
