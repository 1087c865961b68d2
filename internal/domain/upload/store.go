package upload

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidName = errors.New("invalid upload name")

// Store persists uploaded documents and returns the path they can be found under.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, path string) error
}
