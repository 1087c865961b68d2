package applicationmock

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "kamikaya-backend/internal/domain/application"
)

var _ domain.Repository = (*Memory)(nil)

// Memory is an in-process Repository with the same ordering and
// not-found semantics as the real adapters.
type Memory struct {
	mu   sync.RWMutex
	seq  int64
	rows map[string]domain.LoanApplication
}

func NewMemory() *Memory {
	return &Memory{rows: map[string]domain.LoanApplication{}}
}

func (m *Memory) Create(_ context.Context, a *domain.LoanApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[a.ID]; ok {
		return domain.ErrConflict
	}
	m.seq++
	a.Seq = m.seq
	m.rows[a.ID] = *a
	return nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.LoanApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) matching(f domain.Filter) []domain.LoanApplication {
	out := make([]domain.LoanApplication, 0, len(m.rows))
	for _, a := range m.rows {
		if f.Status == nil || a.Status == *f.Status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

func (m *Memory) List(_ context.Context, f domain.Filter, skip, limit int) ([]domain.LoanApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.matching(f)
	if skip >= len(all) {
		return []domain.LoanApplication{}, nil
	}
	end := len(all)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end], nil
}

func (m *Memory) Count(_ context.Context, f domain.Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.matching(f))), nil
}

func (m *Memory) UpdateStatus(_ context.Context, id string, s domain.Status, updatedAt time.Time, ifUpdatedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	if ifUpdatedAt != nil && !a.UpdatedAt.Equal(*ifUpdatedAt) {
		return domain.ErrConflict
	}
	a.Status = s
	a.UpdatedAt = updatedAt
	m.rows[id] = a
	return nil
}

func (m *Memory) Stats(_ context.Context) (*domain.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var st domain.Stats
	for _, a := range m.rows {
		st.Total++
		st.TotalLoanAmount += a.LoanAmount
		switch a.Status {
		case domain.StatusPending:
			st.Pending++
		case domain.StatusUnderReview:
			st.UnderReview++
		case domain.StatusApproved:
			st.Approved++
		case domain.StatusRejected:
			st.Rejected++
		}
	}
	return &st, nil
}
