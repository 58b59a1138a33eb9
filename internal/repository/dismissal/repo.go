// Package dismissal persists "never show this pair again" decisions as one
// set per identity, so a discovery pass loads the whole ledger in a single
// round trip.
package dismissal

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusfind/refound/internal/domain"
)

// separator joins the owned and dismissed item IDs inside a set member.
// Item IDs are UUIDs, so "|" can never occur inside one.
const separator = "|"

// store is the consumer interface for the dismissal ledger (ISP).
type store interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements the dismissal ledger over a set store.
type Repo struct {
	store  store
	prefix string
}

// New creates a dismissal repository. prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(identity string) string {
	return r.prefix + "dismissals:" + identity
}

// Upsert records a dismissal. Recording the same tuple again is a no-op
// success. The referenced items are deliberately not validated: a dismissal
// outlives the items it names.
func (r *Repo) Upsert(ctx context.Context, d domain.Dismissal) error {
	member := d.OwnedItemID + separator + d.DismissedItemID
	if err := r.store.SAdd(ctx, r.key(d.Identity), member); err != nil {
		return fmt.Errorf("record dismissal for %s: %w", d.Identity, err)
	}
	return nil
}

// All returns every dismissal recorded by identity as a membership set.
func (r *Repo) All(ctx context.Context, identity string) (domain.DismissedSet, error) {
	members, err := r.store.SMembers(ctx, r.key(identity))
	if err != nil {
		return nil, fmt.Errorf("load dismissals for %s: %w", identity, err)
	}

	set := make(domain.DismissedSet, len(members))
	for _, m := range members {
		owned, dismissed, ok := strings.Cut(m, separator)
		if !ok {
			continue
		}
		set[domain.DismissedPair{OwnedItemID: owned, DismissedItemID: dismissed}] = struct{}{}
	}
	return set, nil
}
