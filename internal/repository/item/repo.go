// Package item persists item reports as hashes with secondary index sets:
// one per owner, and one per (open, type) population for match discovery.
package item

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusfind/refound/internal/db"
	"github.com/campusfind/refound/internal/domain"
)

// store is the consumer interface for item persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Eval(ctx context.Context, script string, keys, args []string) (int64, error)
}

// Repo implements item report persistence over a key-value store.
type Repo struct {
	store  store
	prefix string
}

// New creates an item repository. prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) itemKey(id string) string  { return r.prefix + "item:" + id }
func (r *Repo) imageKey(id string) string { return r.prefix + "item:" + id + ":image" }
func (r *Repo) ownerKey(id string) string { return r.prefix + "idx:owner:" + id }
func (r *Repo) openKey(t domain.ItemType) string {
	return r.prefix + "idx:open:" + string(t)
}

// Create persists a new open item report with its processed image.
func (r *Repo) Create(ctx context.Context, it domain.ItemReport, image []byte) error {
	fields, err := encodeItem(it)
	if err != nil {
		return fmt.Errorf("encode item %s: %w", it.ID, err)
	}

	if err := r.store.HSet(ctx, r.itemKey(it.ID), fields); err != nil {
		return fmt.Errorf("store item %s: %w", it.ID, err)
	}
	if len(image) > 0 {
		if err := r.store.Set(ctx, r.imageKey(it.ID), image); err != nil {
			return fmt.Errorf("store item image %s: %w", it.ID, err)
		}
	}
	if err := r.store.SAdd(ctx, r.ownerKey(it.Owner), it.ID); err != nil {
		return fmt.Errorf("index item %s by owner: %w", it.ID, err)
	}
	if err := r.store.SAdd(ctx, r.openKey(it.Type), it.ID); err != nil {
		return fmt.Errorf("index item %s as open: %w", it.ID, err)
	}
	return nil
}

// Get returns a single item report by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.ItemReport, error) {
	fields, err := r.store.HGetAll(ctx, r.itemKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ItemReport{}, domain.ErrNotFound
		}
		return domain.ItemReport{}, fmt.Errorf("get item %s: %w", id, err)
	}
	it, err := decodeItem(id, fields)
	if err != nil {
		return domain.ItemReport{}, fmt.Errorf("decode item %s: %w", id, err)
	}
	return it, nil
}

// GetImage returns the stored processed image and its MIME type.
func (r *Repo) GetImage(ctx context.Context, id string) ([]byte, string, error) {
	mime, err := r.store.HGet(ctx, r.itemKey(id), fieldImageType)
	if err != nil {
		if errors.Is(err, db.ErrFieldNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get item %s image type: %w", id, err)
	}
	data, err := r.store.Get(ctx, r.imageKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get item %s image: %w", id, err)
	}
	return data, mime, nil
}

// ListByOwner returns every report owned by identity, any status.
func (r *Repo) ListByOwner(ctx context.Context, identity string) ([]domain.ItemReport, error) {
	ids, err := r.store.SMembers(ctx, r.ownerKey(identity))
	if err != nil {
		return nil, fmt.Errorf("list owner %s: %w", identity, err)
	}
	return r.fetchAll(ctx, ids)
}

// ListOpenByType returns the open population of the given type.
func (r *Repo) ListOpenByType(ctx context.Context, t domain.ItemType) ([]domain.ItemReport, error) {
	ids, err := r.store.SMembers(ctx, r.openKey(t))
	if err != nil {
		return nil, fmt.Errorf("list open %s: %w", t, err)
	}
	return r.fetchAll(ctx, ids)
}

func (r *Repo) fetchAll(ctx context.Context, ids []string) ([]domain.ItemReport, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.itemKey(id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	items := make([]domain.ItemReport, 0, len(ids))
	for i, fields := range maps {
		if fields == nil {
			// Index member without a hash: deleted item, skip.
			continue
		}
		it, err := decodeItem(ids[i], fields)
		if err != nil {
			return nil, fmt.Errorf("decode item %s: %w", ids[i], err)
		}
		items = append(items, it)
	}
	return items, nil
}

// claimScript transitions two items to claimed as a single atomic unit.
// Reply: 0 = claimed, 1 = either item missing, 2 = either item not open.
//
// KEYS[1] matched item hash, KEYS[2] owned item hash,
// KEYS[3] open index of the matched item's type, KEYS[4] of the owned one's.
// ARGV[1] acting identity, ARGV[2] claim timestamp,
// ARGV[3] matched item ID, ARGV[4] owned item ID.
const claimScript = `
local a = redis.call('HGET', KEYS[1], 'status')
local b = redis.call('HGET', KEYS[2], 'status')
if not a or not b then return 1 end
if a ~= 'open' or b ~= 'open' then return 2 end
redis.call('HSET', KEYS[1], 'status', 'claimed', 'claimed_by', ARGV[1], 'claimed_at', ARGV[2], 'matched_with', ARGV[4])
redis.call('HSET', KEYS[2], 'status', 'claimed', 'claimed_at', ARGV[2], 'matched_with', ARGV[3])
redis.call('SREM', KEYS[3], ARGV[3])
redis.call('SREM', KEYS[4], ARGV[4])
return 0
`

// Claim reply codes.
const (
	claimOK      = 0
	claimMissing = 1
	claimNotOpen = 2
)

// ClaimPair atomically transitions both items to claimed: status and
// claimedAt on both, claimedBy on the matched item, matchedWith symmetric.
// Under concurrent contention exactly one caller wins; the rest observe
// domain.ErrConflict.
func (r *Repo) ClaimPair(ctx context.Context, matched, owned domain.ItemReport, identity string, at time.Time) error {
	keys := []string{
		r.itemKey(matched.ID),
		r.itemKey(owned.ID),
		r.openKey(matched.Type),
		r.openKey(owned.Type),
	}
	args := []string{
		identity,
		at.UTC().Format(time.RFC3339Nano),
		matched.ID,
		owned.ID,
	}

	code, err := r.store.Eval(ctx, claimScript, keys, args)
	if err != nil {
		return fmt.Errorf("claim %s with %s: %w", matched.ID, owned.ID, err)
	}
	switch code {
	case claimOK:
		return nil
	case claimMissing:
		return domain.ErrNotFound
	case claimNotOpen:
		return domain.ErrConflict
	default:
		return fmt.Errorf("claim %s with %s: unexpected script reply %d", matched.ID, owned.ID, code)
	}
}

// Delete removes an item report, its image and its index memberships.
func (r *Repo) Delete(ctx context.Context, it domain.ItemReport) error {
	if err := r.store.Del(ctx, r.itemKey(it.ID)); err != nil {
		return fmt.Errorf("delete item %s: %w", it.ID, err)
	}
	if err := r.store.Del(ctx, r.imageKey(it.ID)); err != nil {
		return fmt.Errorf("delete item %s image: %w", it.ID, err)
	}
	if err := r.store.SRem(ctx, r.ownerKey(it.Owner), it.ID); err != nil {
		return fmt.Errorf("unindex item %s by owner: %w", it.ID, err)
	}
	if it.Status == domain.StatusOpen {
		if err := r.store.SRem(ctx, r.openKey(it.Type), it.ID); err != nil {
			return fmt.Errorf("unindex item %s as open: %w", it.ID, err)
		}
	}
	return nil
}
