package application

import (
	"errors"
	"time"
)

var (
	ErrNotFound             = errors.New("loan application not found")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrValidation           = errors.New("validation failed")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrConflict             = errors.New("loan application was modified concurrently")
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// StatusAll is the list filter sentinel meaning "no restriction".
const StatusAll = "all"

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusUnderReview, StatusApproved, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Table: loan_applications. Seq is the internal insertion sequence used as
// the ordering tie-break; ID is the public identifier.
type LoanApplication struct {
	Seq            int64     `gorm:"column:seq;primaryKey;autoIncrement" bson:"seq" json:"-"`
	ID             string    `gorm:"column:application_id;size:36;not null;uniqueIndex:ux_loan_applications_application_id" bson:"_id" json:"id"`
	FullName       string    `gorm:"column:full_name;size:255;not null" bson:"full_name" json:"full_name"`
	NIK            string    `gorm:"column:nik;size:32;not null;index" bson:"nik" json:"nik"`
	Phone          string    `gorm:"column:phone;size:32;not null" bson:"phone" json:"phone"`
	Email          string    `gorm:"column:email;size:255;not null" bson:"email" json:"email"`
	Address        string    `gorm:"column:address;type:text;not null" bson:"address" json:"address"`
	Occupation     string    `gorm:"column:occupation;size:255;not null" bson:"occupation" json:"occupation"`
	Income         string    `gorm:"column:income;size:64;not null" bson:"income" json:"income"`
	LoanAmount     int64     `gorm:"column:loan_amount;not null" bson:"loan_amount" json:"loan_amount"`
	Purpose        string    `gorm:"column:purpose;type:text;not null" bson:"purpose" json:"purpose"`
	KTPFilePath    string    `gorm:"column:ktp_file_path;type:text;not null" bson:"ktp_file_path" json:"ktp_file_path"`
	SelfieFilePath string    `gorm:"column:selfie_file_path;type:text;not null" bson:"selfie_file_path" json:"selfie_file_path"`
	Status         Status    `gorm:"column:status;size:16;not null;default:'pending';index:idx_loan_applications_status_created,priority:1" bson:"status" json:"status"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime:false;index:idx_loan_applications_status_created,priority:2" bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime:false" bson:"updated_at" json:"updated_at"`
}

func (LoanApplication) TableName() string { return "loan_applications" }

// Filter restricts list and count queries. A nil Status matches every record.
type Filter struct {
	Status *Status
}

// Stats is a point-in-time aggregate over all applications.
type Stats struct {
	Total           int64 `bson:"total"`
	Pending         int64 `bson:"pending"`
	UnderReview     int64 `bson:"under_review"`
	Approved        int64 `bson:"approved"`
	Rejected        int64 `bson:"rejected"`
	TotalLoanAmount int64 `bson:"total_loan_amount"`
}
