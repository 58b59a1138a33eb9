// Package refound is the embedded-mode SDK for the lost-and-found matching
// engine. It wires the engine services over a Redis connection without the
// HTTP transport; callers supply identities directly.
package refound

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/db"
	dbRedis "github.com/campusfind/refound/internal/db/redis"
	"github.com/campusfind/refound/internal/domain"
	dismissalrepo "github.com/campusfind/refound/internal/repository/dismissal"
	itemrepo "github.com/campusfind/refound/internal/repository/item"
	notificationrepo "github.com/campusfind/refound/internal/repository/notification"
	claimuc "github.com/campusfind/refound/internal/usecase/claim"
	dismissaluc "github.com/campusfind/refound/internal/usecase/dismissal"
	ingestuc "github.com/campusfind/refound/internal/usecase/ingest"
	itemsuc "github.com/campusfind/refound/internal/usecase/items"
	matchinguc "github.com/campusfind/refound/internal/usecase/matching"
	notifyuc "github.com/campusfind/refound/internal/usecase/notify"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "refound:"
	defaultVectorDims       = 768
)

// Client is the refound SDK entry point.
type Client struct {
	store      db.Store
	ingest     *ingestuc.Service
	items      *itemsuc.Service
	matching   *matchinguc.Service
	dismissals *dismissaluc.Service
	claims     *claimuc.Service
	notify     *notifyuc.Service
}

// New creates a refound Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:        defaultKeyPrefix,
		vectorDimensions: defaultVectorDims,
		logger:           zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("refound: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("refound: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("refound: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	itemRepo := itemrepo.New(store, cfg.keyPrefix)
	dismissalRepo := dismissalrepo.New(store, cfg.keyPrefix)
	notificationRepo := notificationrepo.New(store, cfg.keyPrefix)

	// Embedder: noop if not configured (read-side operations still work,
	// Report returns an error).
	var domEmb domain.ImageEmbedder = &noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	notifySvc := notifyuc.New(notificationRepo, cfg.logger)
	matchingSvc := matchinguc.New(itemRepo, dismissalRepo)
	ingestSvc := ingestuc.New(
		itemRepo, matchingSvc, notifySvc,
		domEmb, cfg.vectorDimensions, cfg.logger,
	)

	return &Client{
		store:      store,
		ingest:     ingestSvc,
		items:      itemsuc.New(itemRepo, cfg.logger),
		matching:   matchingSvc,
		dismissals: dismissaluc.New(dismissalRepo),
		claims:     claimuc.New(itemRepo, notifySvc),
		notify:     notifySvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Report ingests a new item report for identity and returns the stored item
// with the best crossing match, if any.
func (c *Client) Report(ctx context.Context, identity string, r Report) (Item, *Match, error) {
	it, best, err := c.ingest.Ingest(ctx, ingestuc.Params{
		Owner:       identity,
		Type:        domain.ItemType(r.Type),
		Category:    r.Category,
		Description: r.Description,
		Location:    r.Location,
		ReportedAt:  r.ReportedAt,
		Image:       r.Image,
	})
	if err != nil {
		return Item{}, nil, err
	}

	item := itemFromDomain(it)
	if best == nil {
		return item, nil, nil
	}
	m := matchFromDomain(*best)
	return item, &m, nil
}

// Matches returns ranked match suggestions for identity's open lost items.
func (c *Client) Matches(ctx context.Context, identity string) ([]Match, error) {
	matches, err := c.matching.FindMatches(ctx, identity)
	if err != nil {
		return nil, err
	}
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = matchFromDomain(m)
	}
	return out, nil
}

// Dismiss suppresses dismissedItemID as a suggestion for ownedItemID.
func (c *Client) Dismiss(ctx context.Context, identity, ownedItemID, dismissedItemID string) error {
	return c.dismissals.Dismiss(ctx, identity, ownedItemID, dismissedItemID)
}

// Claim links matchedItemID to identity's ownedItemID and transitions both
// to claimed.
func (c *Client) Claim(ctx context.Context, identity, matchedItemID, ownedItemID string) error {
	return c.claims.Claim(ctx, matchedItemID, ownedItemID, identity)
}

// MyItems returns every report owned by identity, newest first.
func (c *Client) MyItems(ctx context.Context, identity string) ([]Item, error) {
	items, err := c.items.Mine(ctx, identity)
	if err != nil {
		return nil, err
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = itemFromDomain(it)
	}
	return out, nil
}

// MatchedItems returns identity's claimed reports joined with their
// resolution counterparts.
func (c *Client) MatchedItems(ctx context.Context, identity string) ([]MatchedPair, error) {
	pairs, err := c.items.MatchedPairs(ctx, identity)
	if err != nil {
		return nil, err
	}
	out := make([]MatchedPair, len(pairs))
	for i, p := range pairs {
		out[i] = MatchedPair{Item: itemFromDomain(p.Item)}
		if p.Counterpart != nil {
			counterpart := itemFromDomain(*p.Counterpart)
			out[i].Counterpart = &counterpart
		}
	}
	return out, nil
}

// ItemImage returns the stored processed image for an item and its MIME type.
func (c *Client) ItemImage(ctx context.Context, id string) ([]byte, string, error) {
	return c.items.Image(ctx, id)
}

// DeleteItem removes a report owned by identity.
func (c *Client) DeleteItem(ctx context.Context, identity, id string) error {
	return c.items.Delete(ctx, id, identity)
}

// Notifications returns up to limit notifications for identity, newest
// first. limit <= 0 applies the default page size.
func (c *Client) Notifications(ctx context.Context, identity string, limit int) (Inbox, error) {
	inbox, err := c.notify.List(ctx, identity, limit)
	if err != nil {
		return Inbox{}, err
	}
	out := make([]Notification, len(inbox.Notifications))
	for i, n := range inbox.Notifications {
		out[i] = notificationFromDomain(n)
	}
	return Inbox{Notifications: out, UnreadCount: inbox.UnreadCount}, nil
}

// MarkNotificationRead flips a single notification of identity to read.
func (c *Client) MarkNotificationRead(ctx context.Context, identity, id string) error {
	return c.notify.MarkRead(ctx, identity, id)
}

// MarkAllNotificationsRead flips every unread notification of identity to read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, identity string) error {
	return c.notify.MarkAllRead(ctx, identity)
}

// DeleteNotification removes a notification of identity.
func (c *Client) DeleteNotification(ctx context.Context, identity, id string) error {
	return c.notify.Delete(ctx, identity, id)
}

// embedderAdapter wraps the public Embedder to satisfy domain.ImageEmbedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, image []byte) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, image)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Vector:       r.Vector,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ []byte) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"refound: embedder not configured (use WithEmbedder to report items)",
	)
}
