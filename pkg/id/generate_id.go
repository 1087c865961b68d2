package id

import "github.com/google/uuid"

// NewID returns a random (v4) UUID in canonical 36-char form.
func NewID() string {
	return uuid.NewString()
}
