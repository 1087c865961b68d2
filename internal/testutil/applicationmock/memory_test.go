package applicationmock

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "kamikaya-backend/internal/domain/application"
)

func TestMemory_OrderingAndFilter(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	seed := []struct {
		id     string
		status domain.Status
		at     time.Time
	}{
		{"a", domain.StatusPending, base},
		{"b", domain.StatusApproved, base.Add(time.Hour)},
		{"c", domain.StatusPending, base.Add(time.Hour)}, // same timestamp as b, inserted later
		{"d", domain.StatusPending, base.Add(2 * time.Hour)},
	}
	for _, s := range seed {
		if err := m.Create(ctx, &domain.LoanApplication{ID: s.id, Status: s.status, CreatedAt: s.at, UpdatedAt: s.at}); err != nil {
			t.Fatalf("Create %s: %v", s.id, err)
		}
	}

	all, _ := m.List(ctx, domain.Filter{}, 0, 0)
	var got []string
	for _, a := range all {
		got = append(got, a.ID)
	}
	if want := "dcba"; join(got) != want {
		t.Fatalf("order = %s, want %s", join(got), want)
	}

	pending := domain.StatusPending
	page, _ := m.List(ctx, domain.Filter{Status: &pending}, 1, 1)
	if len(page) != 1 || page[0].ID != "c" {
		t.Fatalf("filtered page = %+v", page)
	}
	if n, _ := m.Count(ctx, domain.Filter{Status: &pending}); n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
}

func TestMemory_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Now().UTC()
	_ = m.Create(ctx, &domain.LoanApplication{ID: "x", Status: domain.StatusPending, CreatedAt: at, UpdatedAt: at})

	if err := m.UpdateStatus(ctx, "missing", domain.StatusApproved, at, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	stale := at.Add(-time.Second)
	if err := m.UpdateStatus(ctx, "x", domain.StatusApproved, at, &stale); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	if err := m.UpdateStatus(ctx, "x", domain.StatusApproved, at.Add(time.Second), &at); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, _ := m.GetByID(ctx, "x")
	if got.Status != domain.StatusApproved {
		t.Fatalf("status = %s", got.Status)
	}
}

func join(ss []string) string {
	out := ""
	for _, s := range ss {
		out += s
	}
	return out
}
