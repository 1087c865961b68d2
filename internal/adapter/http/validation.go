package http

import (
	"reflect"
	"strconv"
	"strings"

	domain "kamikaya-backend/internal/domain/application"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Detail  string       `json:"detail"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report fields by their form name when one is declared
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// non-empty after trimming whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// loan amounts arrive as form text: whole rupiah, no sign, no separators
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 64)
		return err == nil && n >= 0
	})
	_ = v.RegisterValidation("loanstatus", func(fl validator.FieldLevel) bool {
		return domain.Status(fl.Field().String()).Valid()
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required", "notblank":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "amount":
			out = append(out, FieldError{Field: field, Message: "must be a non-negative whole number"})
		case "loanstatus":
			out = append(out, FieldError{Field: field, Message: "must be one of " + statusList()})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email address"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}

func statusList() string {
	names := make([]string, len(domain.Statuses))
	for i, s := range domain.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
