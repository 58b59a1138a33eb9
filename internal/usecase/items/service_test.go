package items

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/domain"
)

// mockStore implements Store for tests.
type mockStore struct {
	items   map[string]domain.ItemReport
	byOwner []domain.ItemReport
	image   []byte
	mime    string
	deleted []string
	listErr error
}

func (m *mockStore) Get(_ context.Context, id string) (domain.ItemReport, error) {
	it, ok := m.items[id]
	if !ok {
		return domain.ItemReport{}, domain.ErrNotFound
	}
	return it, nil
}

func (m *mockStore) GetImage(_ context.Context, id string) ([]byte, string, error) {
	if _, ok := m.items[id]; !ok {
		return nil, "", domain.ErrNotFound
	}
	return m.image, m.mime, nil
}

func (m *mockStore) ListByOwner(_ context.Context, _ string) ([]domain.ItemReport, error) {
	return m.byOwner, m.listErr
}

func (m *mockStore) Delete(_ context.Context, it domain.ItemReport) error {
	m.deleted = append(m.deleted, it.ID)
	return nil
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestMine_NewestFirst(t *testing.T) {
	store := &mockStore{byOwner: []domain.ItemReport{
		{ID: "a", ReportedAt: day(1)},
		{ID: "c", ReportedAt: day(5)},
		{ID: "b", ReportedAt: day(3)},
	}}
	svc := New(store, zap.NewNop())

	items, err := svc.Mine(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"c", "b", "a"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestMatchedPairs_JoinsCounterparts(t *testing.T) {
	counterpart := domain.ItemReport{ID: "found-1", Owner: "bob", Status: domain.StatusClaimed, MatchedWith: "lost-1"}
	store := &mockStore{
		items: map[string]domain.ItemReport{"found-1": counterpart},
		byOwner: []domain.ItemReport{
			{ID: "lost-1", Owner: "alice", Status: domain.StatusClaimed, MatchedWith: "found-1", ClaimedAt: day(2)},
			{ID: "lost-2", Owner: "alice", Status: domain.StatusOpen},
		},
	}
	svc := New(store, zap.NewNop())

	pairs, err := svc.MatchedPairs(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Counterpart == nil || pairs[0].Counterpart.ID != "found-1" {
		t.Errorf("counterpart not joined: %+v", pairs[0].Counterpart)
	}
}

func TestMatchedPairs_ToleratesDeletedCounterpart(t *testing.T) {
	store := &mockStore{
		items: map[string]domain.ItemReport{},
		byOwner: []domain.ItemReport{
			{ID: "lost-1", Owner: "alice", Status: domain.StatusClaimed, MatchedWith: "found-gone", ClaimedAt: day(2)},
		},
	}
	svc := New(store, zap.NewNop())

	pairs, err := svc.MatchedPairs(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Counterpart != nil {
		t.Errorf("expected nil counterpart, got %+v", pairs[0].Counterpart)
	}
}

func TestMatchedPairs_NewestClaimFirst(t *testing.T) {
	store := &mockStore{
		items: map[string]domain.ItemReport{},
		byOwner: []domain.ItemReport{
			{ID: "old", Owner: "alice", Status: domain.StatusClaimed, MatchedWith: "x", ClaimedAt: day(1)},
			{ID: "new", Owner: "alice", Status: domain.StatusClaimed, MatchedWith: "y", ClaimedAt: day(9)},
		},
	}
	svc := New(store, zap.NewNop())

	pairs, err := svc.MatchedPairs(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pairs[0].Item.ID != "new" {
		t.Errorf("expected newest claim first, got %s", pairs[0].Item.ID)
	}
}

func TestImage_PassesThrough(t *testing.T) {
	store := &mockStore{
		items: map[string]domain.ItemReport{"item-1": {ID: "item-1"}},
		image: []byte{0xFF, 0xD8},
		mime:  "image/jpeg",
	}
	svc := New(store, zap.NewNop())

	data, mime, err := svc.Image(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mime != "image/jpeg" || len(data) != 2 {
		t.Errorf("unexpected image: %s, %d bytes", mime, len(data))
	}
}

func TestDelete_OwnerOnly(t *testing.T) {
	store := &mockStore{
		items: map[string]domain.ItemReport{"item-1": {ID: "item-1", Owner: "alice"}},
	}
	svc := New(store, zap.NewNop())

	err := svc.Delete(context.Background(), "item-1", "mallory")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Error("item deleted despite failed owner check")
	}

	if err := svc.Delete(context.Background(), "item-1", "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "item-1" {
		t.Errorf("expected item-1 deleted, got %v", store.deleted)
	}
}

func TestDelete_Missing(t *testing.T) {
	svc := New(&mockStore{items: map[string]domain.ItemReport{}}, zap.NewNop())

	err := svc.Delete(context.Background(), "nope", "alice")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
