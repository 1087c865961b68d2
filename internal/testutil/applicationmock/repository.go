package applicationmock

import (
	"context"
	"time"

	domain "kamikaya-backend/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn       func(ctx context.Context, a *domain.LoanApplication) error
	GetByIDFn      func(ctx context.Context, id string) (*domain.LoanApplication, error)
	ListFn         func(ctx context.Context, f domain.Filter, skip, limit int) ([]domain.LoanApplication, error)
	CountFn        func(ctx context.Context, f domain.Filter) (int64, error)
	UpdateStatusFn func(ctx context.Context, id string, s domain.Status, updatedAt time.Time, ifUpdatedAt *time.Time) error
	StatsFn        func(ctx context.Context) (*domain.Stats, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.LoanApplication) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter, skip, limit int) ([]domain.LoanApplication, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f, skip, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) Count(ctx context.Context, f domain.Filter) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, f)
	}
	return 0, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, id string, s domain.Status, updatedAt time.Time, ifUpdatedAt *time.Time) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, s, updatedAt, ifUpdatedAt)
	}
	return nil
}

func (m *Repo) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return nil, context.Canceled
}
