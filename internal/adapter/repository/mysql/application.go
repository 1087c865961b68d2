package mysql

import (
	"context"
	"errors"
	"time"

	domain "kamikaya-backend/internal/domain/application"

	"gorm.io/gorm"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Migrate creates or updates the loan_applications table and its indexes.
func (r *ApplicationRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&domain.LoanApplication{})
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.LoanApplication) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	var out domain.LoanApplication
	err := r.db.WithContext(ctx).Where("application_id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func byFilter(f domain.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != nil {
			return db.Where("status = ?", *f.Status)
		}
		return db
	}
}

func (r *ApplicationRepository) List(ctx context.Context, f domain.Filter, skip, limit int) ([]domain.LoanApplication, error) {
	out := []domain.LoanApplication{}
	q := r.db.WithContext(ctx).
		Scopes(byFilter(f)).
		Order("created_at DESC, seq DESC").
		Offset(skip)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ApplicationRepository) Count(ctx context.Context, f domain.Filter) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.LoanApplication{}).
		Scopes(byFilter(f)).
		Count(&n).Error
	return n, err
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, s domain.Status, updatedAt time.Time, ifUpdatedAt *time.Time) error {
	q := r.db.WithContext(ctx).
		Model(&domain.LoanApplication{}).
		Where("application_id = ?", id)
	if ifUpdatedAt != nil {
		q = q.Where("updated_at = ?", *ifUpdatedAt)
	}
	res := q.Updates(map[string]any{"status": s, "updated_at": updatedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing changed: either the id is unknown, the precondition failed,
	// or (MySQL) the row already held these exact values.
	n, err := r.countByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case n == 0:
		return domain.ErrNotFound
	case ifUpdatedAt != nil:
		return domain.ErrConflict
	}
	return nil
}

func (r *ApplicationRepository) countByID(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.LoanApplication{}).
		Where("application_id = ?", id).
		Count(&n).Error
	return n, err
}

func (r *ApplicationRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	var out domain.Stats
	err := r.db.WithContext(ctx).
		Model(&domain.LoanApplication{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS under_review,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS approved,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS rejected,
			COALESCE(SUM(loan_amount), 0) AS total_loan_amount`,
			domain.StatusPending, domain.StatusUnderReview, domain.StatusApproved, domain.StatusRejected).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
