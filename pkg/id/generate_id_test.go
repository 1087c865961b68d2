package id

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

var reUUID = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-4[a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)

func TestNewID_IsUUIDv4(t *testing.T) {
	got := NewID()
	if !reUUID.MatchString(got) {
		t.Fatalf("not a lowercase v4 uuid: %q", got)
	}
	u, err := uuid.Parse(got)
	if err != nil {
		t.Fatalf("uuid.Parse: %v", err)
	}
	if u.Version() != 4 {
		t.Fatalf("version = %d, want 4", u.Version())
	}
}

func TestNewID_Uniqueness(t *testing.T) {
	const n = 500
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
