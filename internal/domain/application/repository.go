package application

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *LoanApplication) error
	// GetByID returns ErrNotFound when no record has the given id.
	GetByID(ctx context.Context, id string) (*LoanApplication, error)
	// List orders by created_at desc, newest insert first on equal timestamps.
	List(ctx context.Context, f Filter, skip, limit int) ([]LoanApplication, error)
	Count(ctx context.Context, f Filter) (int64, error)
	// UpdateStatus sets status and updated_at. When ifUpdatedAt is non-nil the
	// write only applies if the stored updated_at still equals it (ErrConflict otherwise).
	UpdateStatus(ctx context.Context, id string, s Status, updatedAt time.Time, ifUpdatedAt *time.Time) error
	Stats(ctx context.Context) (*Stats, error)
}
