package claim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusfind/refound/internal/domain"
)

// mockItemStore implements ItemStore for tests.
type mockItemStore struct {
	items    map[string]domain.ItemReport
	claimErr error

	claimedMatched string
	claimedOwned   string
	claimedBy      string
	claimedAt      time.Time
}

func (m *mockItemStore) Get(_ context.Context, id string) (domain.ItemReport, error) {
	it, ok := m.items[id]
	if !ok {
		return domain.ItemReport{}, domain.ErrNotFound
	}
	return it, nil
}

func (m *mockItemStore) ClaimPair(
	_ context.Context, matched, owned domain.ItemReport, identity string, at time.Time,
) error {
	if m.claimErr != nil {
		return m.claimErr
	}
	m.claimedMatched = matched.ID
	m.claimedOwned = owned.ID
	m.claimedBy = identity
	m.claimedAt = at
	return nil
}

// mockNotifier implements Notifier for tests.
type mockNotifier struct {
	calls   int
	matched domain.ItemReport
	owned   domain.ItemReport
}

func (m *mockNotifier) NotifyClaim(_ context.Context, matched, owned domain.ItemReport) {
	m.calls++
	m.matched = matched
	m.owned = owned
}

func openItem(id, owner string, typ domain.ItemType) domain.ItemReport {
	return domain.ItemReport{ID: id, Owner: owner, Type: typ, Status: domain.StatusOpen}
}

func TestClaim_Success(t *testing.T) {
	store := &mockItemStore{items: map[string]domain.ItemReport{
		"found-1": openItem("found-1", "bob", domain.TypeFound),
		"lost-1":  openItem("lost-1", "alice", domain.TypeLost),
	}}
	notifier := &mockNotifier{}
	svc := New(store, notifier)

	err := svc.Claim(context.Background(), "found-1", "lost-1", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.claimedMatched != "found-1" || store.claimedOwned != "lost-1" {
		t.Errorf("wrong pair claimed: %s, %s", store.claimedMatched, store.claimedOwned)
	}
	if store.claimedBy != "alice" {
		t.Errorf("wrong claiming identity: %s", store.claimedBy)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected 1 claim notification, got %d", notifier.calls)
	}
	if notifier.matched.ID != "found-1" || notifier.owned.ID != "lost-1" {
		t.Errorf("notification carries wrong pair: %s, %s", notifier.matched.ID, notifier.owned.ID)
	}
}

func TestClaim_NotOwner(t *testing.T) {
	store := &mockItemStore{items: map[string]domain.ItemReport{
		"found-1": openItem("found-1", "bob", domain.TypeFound),
		"lost-1":  openItem("lost-1", "alice", domain.TypeLost),
	}}
	notifier := &mockNotifier{}
	svc := New(store, notifier)

	err := svc.Claim(context.Background(), "found-1", "lost-1", "mallory")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.claimedMatched != "" {
		t.Error("claim applied despite failed owner check")
	}
	if notifier.calls != 0 {
		t.Error("notification sent despite failed claim")
	}
}

func TestClaim_OwnedItemMissing(t *testing.T) {
	store := &mockItemStore{items: map[string]domain.ItemReport{
		"found-1": openItem("found-1", "bob", domain.TypeFound),
	}}
	svc := New(store, &mockNotifier{})

	err := svc.Claim(context.Background(), "found-1", "lost-gone", "alice")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClaim_MatchedItemMissing(t *testing.T) {
	store := &mockItemStore{items: map[string]domain.ItemReport{
		"lost-1": openItem("lost-1", "alice", domain.TypeLost),
	}}
	svc := New(store, &mockNotifier{})

	err := svc.Claim(context.Background(), "found-gone", "lost-1", "alice")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClaim_LosesRace(t *testing.T) {
	store := &mockItemStore{
		items: map[string]domain.ItemReport{
			"found-1": openItem("found-1", "bob", domain.TypeFound),
			"lost-1":  openItem("lost-1", "alice", domain.TypeLost),
		},
		claimErr: domain.ErrConflict,
	}
	notifier := &mockNotifier{}
	svc := New(store, notifier)

	err := svc.Claim(context.Background(), "found-1", "lost-1", "alice")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if notifier.calls != 0 {
		t.Error("notification sent for losing claim")
	}
}

func TestClaim_TimestampFromClock(t *testing.T) {
	store := &mockItemStore{items: map[string]domain.ItemReport{
		"found-1": openItem("found-1", "bob", domain.TypeFound),
		"lost-1":  openItem("lost-1", "alice", domain.TypeLost),
	}}
	svc := New(store, &mockNotifier{})
	fixed := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if err := svc.Claim(context.Background(), "found-1", "lost-1", "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.claimedAt.Equal(fixed) {
		t.Errorf("expected claim timestamp %v, got %v", fixed, store.claimedAt)
	}
}
