package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	domain "kamikaya-backend/internal/domain/application"
	"kamikaya-backend/internal/domain/upload"
	"kamikaya-backend/pkg/id"
	"kamikaya-backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultLimit  = 10
	MaxLimit      = 100
	AdminPageSize = 20

	SubmittedMessage = "Pengajuan pinjaman berhasil disubmit. Tim kami akan menghubungi Anda dalam 1x24 jam."
)

var (
	ErrStorage     = errors.New("document storage failure")
	ErrPersistence = errors.New("application persistence failure")
)

type Usecase struct {
	repo   domain.Repository
	files  upload.Store
	policy domain.TransitionPolicy
	now    func() time.Time
	log    *zap.Logger
}

type Option func(*Usecase)

func WithPolicy(p domain.TransitionPolicy) Option { return func(u *Usecase) { u.policy = p } }

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func WithLogger(l *zap.Logger) Option { return func(u *Usecase) { u.log = l } }

// NewUsecase: repo and files are the only state; the usecase itself is safe for concurrent use.
func NewUsecase(repo domain.Repository, files upload.Store, opts ...Option) *Usecase {
	u := &Usecase{
		repo:   repo,
		files:  files,
		policy: domain.PermitAll(),
		now:    time.Now,
		log:    logger.Nop(),
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// clock is truncated to the millisecond so values survive a round trip through
// either store unchanged (BSON dates and DATETIME(3) both keep ms precision).
func (u *Usecase) clock() time.Time { return u.now().UTC().Truncate(time.Millisecond) }

func (in CreateInput) validate() error {
	required := []struct{ field, value string }{
		{"full_name", in.FullName},
		{"nik", in.NIK},
		{"phone", in.Phone},
		{"email", in.Email},
		{"address", in.Address},
		{"occupation", in.Occupation},
		{"income", in.Income},
		{"purpose", in.Purpose},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, r.field)
		}
	}
	if in.LoanAmount < 0 {
		return fmt.Errorf("%w: loan_amount must not be negative", domain.ErrValidation)
	}
	return nil
}

// baseName strips any client-side directory part from an uploaded filename.
func baseName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func checkUpload(field string, up Upload) error {
	if up.Reader == nil || baseName(up.Filename) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, in CreateInput, ktp, selfie Upload) (*CreateResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := checkUpload("ktp_file", ktp); err != nil {
		return nil, err
	}
	if err := checkUpload("selfie_file", selfie); err != nil {
		return nil, err
	}

	appID := id.NewID()

	ktpPath, err := u.files.Save(ctx, appID+"_ktp_"+baseName(ktp.Filename), ktp.Reader, ktp.Size, ktp.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	selfiePath, err := u.files.Save(ctx, appID+"_selfie_"+baseName(selfie.Filename), selfie.Reader, selfie.Size, selfie.ContentType)
	if err != nil {
		u.cleanup(ctx, appID, ktpPath)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	now := u.clock()
	a := &domain.LoanApplication{
		ID:             appID,
		FullName:       in.FullName,
		NIK:            in.NIK,
		Phone:          in.Phone,
		Email:          in.Email,
		Address:        in.Address,
		Occupation:     in.Occupation,
		Income:         in.Income,
		LoanAmount:     in.LoanAmount,
		Purpose:        in.Purpose,
		KTPFilePath:    ktpPath,
		SelfieFilePath: selfiePath,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.repo.Create(ctx, a); err != nil {
		u.cleanup(ctx, appID, ktpPath, selfiePath)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	u.log.Info("loan application submitted",
		zap.String("application_id", appID),
		zap.Int64("loan_amount", in.LoanAmount))

	return &CreateResult{
		Success:       true,
		ApplicationID: appID,
		Message:       SubmittedMessage,
		Status:        string(domain.StatusPending),
	}, nil
}

// cleanup removes documents of a submission that did not make it into the store.
// Failures are logged only; the caller reports the original error.
func (u *Usecase) cleanup(ctx context.Context, appID string, paths ...string) {
	for _, p := range paths {
		if err := u.files.Remove(ctx, p); err != nil {
			u.log.Warn("orphaned document left behind",
				zap.String("application_id", appID),
				zap.String("path", p),
				zap.Error(err))
		}
	}
}

func (u *Usecase) Get(ctx context.Context, appID string) (*ApplicationDTO, error) {
	a, err := u.repo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(a)
	return &dto, nil
}

func parseFilter(raw string) (domain.Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == domain.StatusAll {
		return domain.Filter{}, nil
	}
	s, err := domain.ParseStatus(raw)
	if err != nil {
		return domain.Filter{}, err
	}
	return domain.Filter{Status: &s}, nil
}

func (u *Usecase) fetch(ctx context.Context, f domain.Filter, skip, limit int) ([]ApplicationDTO, int64, error) {
	rows, err := u.repo.List(ctx, f, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	items := make([]ApplicationDTO, 0, len(rows))
	for i := range rows {
		items = append(items, toDTO(&rows[i]))
	}
	return items, total, nil
}

func (u *Usecase) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	f, err := parseFilter(q.Status)
	if err != nil {
		return nil, err
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	items, total, err := u.fetch(ctx, f, q.Skip, q.Limit)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total}, nil
}

func (u *Usecase) ListPage(ctx context.Context, status string, page int) (*PageResult, error) {
	f, err := parseFilter(status)
	if err != nil {
		return nil, err
	}
	// keeps (page-1)*AdminPageSize inside int
	if page < 1 {
		page = 1
	} else if maxPage := math.MaxInt / AdminPageSize; page > maxPage {
		page = maxPage
	}
	items, total, err := u.fetch(ctx, f, (page-1)*AdminPageSize, AdminPageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + AdminPageSize - 1) / AdminPageSize)
	res := &PageResult{
		Items:         items,
		CurrentStatus: domain.StatusAll,
		CurrentPage:   page,
		PageSize:      AdminPageSize,
		TotalCount:    total,
		TotalPages:    totalPages,
		HasPrev:       page > 1,
		HasNext:       page < totalPages,
		PrevPage:      1,
		NextPage:      totalPages,
	}
	if f.Status != nil {
		res.CurrentStatus = string(*f.Status)
	}
	switch {
	case res.HasPrev && totalPages > 0 && page > totalPages:
		res.PrevPage = totalPages
	case res.HasPrev:
		res.PrevPage = page - 1
	}
	if res.HasNext {
		res.NextPage = page + 1
	}
	return res, nil
}

// Recent returns the n most recently submitted applications.
func (u *Usecase) Recent(ctx context.Context, n int) ([]ApplicationDTO, error) {
	rows, err := u.repo.List(ctx, domain.Filter{}, 0, n)
	if err != nil {
		return nil, err
	}
	items := make([]ApplicationDTO, 0, len(rows))
	for i := range rows {
		items = append(items, toDTO(&rows[i]))
	}
	return items, nil
}

type updateOptions struct {
	ifUpdatedAt *time.Time
}

type UpdateOption func(*updateOptions)

// IfUnmodifiedSince makes the update conditional on the record's current updated_at.
func IfUnmodifiedSince(t time.Time) UpdateOption {
	return func(o *updateOptions) {
		t := t.UTC()
		o.ifUpdatedAt = &t
	}
}

func (u *Usecase) UpdateStatus(ctx context.Context, appID, newStatus string, opts ...UpdateOption) error {
	to, err := domain.ParseStatus(newStatus)
	if err != nil {
		return err
	}
	var o updateOptions
	for _, fn := range opts {
		fn(&o)
	}

	cur, err := u.repo.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if !u.policy.Allow(cur.Status, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrTransitionNotAllowed, cur.Status, to)
	}

	if o.ifUpdatedAt == nil && domain.DependsOnCurrent(u.policy) {
		o.ifUpdatedAt = &cur.UpdatedAt
	}

	now := u.clock()
	if now.Before(cur.UpdatedAt) {
		now = cur.UpdatedAt
	}
	if err := u.repo.UpdateStatus(ctx, appID, to, now, o.ifUpdatedAt); err != nil {
		return err
	}
	u.log.Info("loan application status updated",
		zap.String("application_id", appID),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(to)))
	return nil
}

func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	s, err := u.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsDTO{
		Total:           s.Total,
		Pending:         s.Pending,
		UnderReview:     s.UnderReview,
		Approved:        s.Approved,
		Rejected:        s.Rejected,
		TotalLoanAmount: s.TotalLoanAmount,
	}, nil
}
