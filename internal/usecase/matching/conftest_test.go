package matching

import (
	"context"
	"testing"
	"time"

	"github.com/campusfind/refound/internal/domain"
)

// mockItems implements ItemReader for tests.
type mockItems struct {
	byOwner    []domain.ItemReport
	openByType map[domain.ItemType][]domain.ItemReport
	ownerErr   error
	openErr    error
}

func (m *mockItems) ListByOwner(_ context.Context, _ string) ([]domain.ItemReport, error) {
	return m.byOwner, m.ownerErr
}

func (m *mockItems) ListOpenByType(_ context.Context, t domain.ItemType) ([]domain.ItemReport, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.openByType[t], nil
}

// mockDismissals implements DismissalReader for tests.
type mockDismissals struct {
	set domain.DismissedSet
	err error
}

func (m *mockDismissals) All(_ context.Context, _ string) (domain.DismissedSet, error) {
	return m.set, m.err
}

func testItem(t *testing.T, id, owner string, typ domain.ItemType, vec []float32) domain.ItemReport {
	t.Helper()
	return domain.ItemReport{
		ID:         id,
		Owner:      owner,
		Type:       typ,
		Category:   "backpack",
		ReportedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Vector:     vec,
		Status:     domain.StatusOpen,
	}
}
