package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestNotBlankValidation(t *testing.T) {
	type P struct {
		Name string `form:"full_name" validate:"notblank"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Name: "Rina"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	for _, s := range []string{"", "   ", "\t\n"} {
		err := cv.Validate(P{Name: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		// reported under the form name, not the Go field name
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "full_name", "is required") {
			t.Fatalf("expected full_name required for %q, got %+v", s, fe)
		}
	}
}

func TestAmountValidation(t *testing.T) {
	type P struct {
		Amount string `form:"loan_amount" validate:"amount"`
	}
	cv := NewValidator()

	for _, v := range []string{"0", "5000000", " 1500000 ", "9223372036854775807"} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected amount OK for %q, got %v", v, err)
		}
	}
	for _, v := range []string{"", "-1", "1.5", "1.500.000", "abc", "9223372036854775808"} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected amount error for %q", v)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "loan_amount", "non-negative whole number") {
			t.Fatalf("unexpected mapping for %q: %+v", v, fe)
		}
	}
}

func TestLoanStatusValidation(t *testing.T) {
	type P struct {
		Status string `validate:"loanstatus"`
	}
	cv := NewValidator()

	for _, s := range []string{"pending", "under_review", "approved", "rejected"} {
		if err := cv.Validate(P{Status: s}); err != nil {
			t.Fatalf("expected %q valid, got %v", s, err)
		}
	}
	for _, s := range []string{"", "all", "APPROVED", "cancelled"} {
		err := cv.Validate(P{Status: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "Status", "pending, under_review, approved, rejected") {
			t.Fatalf("unexpected mapping for %q: %+v", s, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name  string `validate:"required"`
		Email string `validate:"email"`
		Min   int    `validate:"gte=10"`
		Max   int    `validate:"lte=5"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Name: "", Email: "nope", Min: 9, Max: 6})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Email", "valid email") {
		t.Fatalf("missing email message: %+v", fe)
	}
	if !containsFieldMsg(fe, "Min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for Min: %+v", fe)
	}
	if !containsFieldMsg(fe, "Max", "less than or equal to 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}
