package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/domain"
)

// mockStore implements Store for tests.
type mockStore struct {
	created   []domain.Notification
	list      []domain.Notification
	marked    []string
	deleted   []string
	createErr error
	listErr   error
	markErr   error
}

func (m *mockStore) Create(_ context.Context, n domain.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, n)
	return nil
}

func (m *mockStore) ListByRecipient(_ context.Context, _ string, limit int) ([]domain.Notification, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit < 0 || limit >= len(m.list) {
		return m.list, nil
	}
	return m.list[:limit], nil
}

func (m *mockStore) Get(_ context.Context, id string) (domain.Notification, error) {
	for _, n := range m.list {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.Notification{}, domain.ErrNotificationNotFound
}

func (m *mockStore) MarkRead(_ context.Context, id string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.marked = append(m.marked, id)
	return nil
}

func (m *mockStore) Delete(_ context.Context, n domain.Notification) error {
	m.deleted = append(m.deleted, n.ID)
	return nil
}

func newTestService(store *mockStore) *Service {
	svc := New(store, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	n := 0
	svc.newID = func() string {
		n++
		return "ntf-" + string(rune('0'+n))
	}
	return svc
}

func TestDispatch_CreatesNotification(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	svc.Dispatch(context.Background(), "alice", domain.KindSystem,
		"Maintenance", "Scheduled downtime tonight", "", "")

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	n := store.created[0]
	if n.Recipient != "alice" || n.Kind != domain.KindSystem {
		t.Errorf("wrong recipient/kind: %s/%s", n.Recipient, n.Kind)
	}
	if n.Read {
		t.Error("new notification must start unread")
	}
	if n.CreatedAt.IsZero() {
		t.Error("missing creation timestamp")
	}
}

func TestDispatch_SwallowsStoreError(t *testing.T) {
	store := &mockStore{createErr: errors.New("redis: connection refused")}
	svc := newTestService(store)

	// Must not panic and must not propagate anything.
	svc.Dispatch(context.Background(), "alice", domain.KindMatch, "t", "m", "i", "j")
}

func TestNotifyMatch_FoundUpload(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	existing := domain.ItemReport{ID: "lost-1", Owner: "alice", Type: domain.TypeLost, Category: "wallet"}
	uploaded := domain.ItemReport{ID: "found-2", Owner: "bob", Type: domain.TypeFound, Category: "wallet"}

	svc.NotifyMatch(context.Background(), existing, uploaded)

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	n := store.created[0]
	if n.Recipient != "alice" {
		t.Errorf("expected existing owner as recipient, got %s", n.Recipient)
	}
	if n.Kind != domain.KindMatch {
		t.Errorf("expected match kind, got %s", n.Kind)
	}
	if !strings.Contains(n.Message, "found a wallet") {
		t.Errorf("unexpected message: %q", n.Message)
	}
	if n.ItemID != "lost-1" || n.MatchedItemID != "found-2" {
		t.Errorf("wrong item references: %s, %s", n.ItemID, n.MatchedItemID)
	}
}

func TestNotifyMatch_LostUpload(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	existing := domain.ItemReport{ID: "found-1", Owner: "bob", Type: domain.TypeFound, Category: "keys"}
	uploaded := domain.ItemReport{ID: "lost-2", Owner: "alice", Type: domain.TypeLost, Category: "keys"}

	svc.NotifyMatch(context.Background(), existing, uploaded)

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	if !strings.Contains(store.created[0].Message, "lost keys") {
		t.Errorf("unexpected message: %q", store.created[0].Message)
	}
}

func TestNotifyClaim_TargetsMatchedOwner(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	matched := domain.ItemReport{ID: "found-1", Owner: "bob", Type: domain.TypeFound, Category: "umbrella"}
	owned := domain.ItemReport{ID: "lost-1", Owner: "alice", Type: domain.TypeLost, Category: "umbrella"}

	svc.NotifyClaim(context.Background(), matched, owned)

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	n := store.created[0]
	if n.Recipient != "bob" {
		t.Errorf("expected matched owner as recipient, got %s", n.Recipient)
	}
	if n.Kind != domain.KindClaim {
		t.Errorf("expected claim kind, got %s", n.Kind)
	}
}

func TestList_CountsUnread(t *testing.T) {
	store := &mockStore{list: []domain.Notification{
		{ID: "n1", Recipient: "alice", Read: true},
		{ID: "n2", Recipient: "alice"},
		{ID: "n3", Recipient: "alice"},
	}}
	svc := newTestService(store)

	inbox, err := svc.List(context.Background(), "alice", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inbox.Notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(inbox.Notifications))
	}
	if inbox.UnreadCount != 2 {
		t.Errorf("expected 2 unread, got %d", inbox.UnreadCount)
	}
}

func TestMarkRead_WrongRecipient(t *testing.T) {
	store := &mockStore{list: []domain.Notification{
		{ID: "n1", Recipient: "alice"},
	}}
	svc := newTestService(store)

	err := svc.MarkRead(context.Background(), "mallory", "n1")
	if !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if len(store.marked) != 0 {
		t.Error("notification marked despite recipient mismatch")
	}
}

func TestMarkAllRead_SkipsAlreadyRead(t *testing.T) {
	store := &mockStore{list: []domain.Notification{
		{ID: "n1", Recipient: "alice", Read: true},
		{ID: "n2", Recipient: "alice"},
		{ID: "n3", Recipient: "alice"},
	}}
	svc := newTestService(store)

	if err := svc.MarkAllRead(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.marked) != 2 {
		t.Fatalf("expected 2 mark calls, got %d", len(store.marked))
	}
}

func TestDelete_WrongRecipient(t *testing.T) {
	store := &mockStore{list: []domain.Notification{
		{ID: "n1", Recipient: "alice"},
	}}
	svc := newTestService(store)

	err := svc.Delete(context.Background(), "mallory", "n1")
	if !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Error("notification deleted despite recipient mismatch")
	}
}

func TestDelete_Success(t *testing.T) {
	store := &mockStore{list: []domain.Notification{
		{ID: "n1", Recipient: "alice"},
	}}
	svc := newTestService(store)

	if err := svc.Delete(context.Background(), "alice", "n1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "n1" {
		t.Errorf("expected n1 deleted, got %v", store.deleted)
	}
}
