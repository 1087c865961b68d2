package application

import (
	"io"
	"time"

	domain "kamikaya-backend/internal/domain/application"
)

// Upload is one document attached to a submission.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type CreateInput struct {
	FullName   string
	NIK        string
	Phone      string
	Email      string
	Address    string
	Occupation string
	Income     string
	LoanAmount int64
	Purpose    string
}

type CreateResult struct {
	Success       bool   `json:"success"`
	ApplicationID string `json:"application_id"`
	Message       string `json:"message"`
	Status        string `json:"status"`
}

type ApplicationDTO struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	NIK            string    `json:"nik"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	Occupation     string    `json:"occupation"`
	Income         string    `json:"income"`
	LoanAmount     int64     `json:"loan_amount"`
	Purpose        string    `json:"purpose"`
	KTPFilePath    string    `json:"ktp_file_path"`
	SelfieFilePath string    `json:"selfie_file_path"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toDTO(a *domain.LoanApplication) ApplicationDTO {
	return ApplicationDTO{
		ID:             a.ID,
		FullName:       a.FullName,
		NIK:            a.NIK,
		Phone:          a.Phone,
		Email:          a.Email,
		Address:        a.Address,
		Occupation:     a.Occupation,
		Income:         a.Income,
		LoanAmount:     a.LoanAmount,
		Purpose:        a.Purpose,
		KTPFilePath:    a.KTPFilePath,
		SelfieFilePath: a.SelfieFilePath,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ListQuery is the skip/limit view used by the public API.
type ListQuery struct {
	Status string
	Skip   int
	Limit  int
}

type ListResult struct {
	Items []ApplicationDTO `json:"applications"`
	Total int64            `json:"total"`
}

// PageResult is the page-numbered view used by the admin listing.
type PageResult struct {
	Items         []ApplicationDTO
	CurrentStatus string
	CurrentPage   int
	PageSize      int
	TotalCount    int64
	TotalPages    int
	HasPrev       bool
	HasNext       bool
	PrevPage      int
	NextPage      int
}

type StatsDTO struct {
	Total           int64 `json:"total_applications"`
	Pending         int64 `json:"pending_applications"`
	UnderReview     int64 `json:"under_review_applications"`
	Approved        int64 `json:"approved_applications"`
	Rejected        int64 `json:"rejected_applications"`
	TotalLoanAmount int64 `json:"total_loan_amount"`
}
