package uploadmock

import (
	"bytes"
	"context"
	"io"
	"sync"

	"kamikaya-backend/internal/domain/upload"
)

var (
	_ upload.Store = (*Store)(nil)
	_ upload.Store = (*Memory)(nil)
)

// Store is a function-backed mock that satisfies upload.Store.
// Unset Save returns the name as the path; unset Remove is a no-op.
type Store struct {
	SaveFn   func(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	RemoveFn func(ctx context.Context, path string) error
}

func (m *Store) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, name, r, size, contentType)
	}
	return name, nil
}

func (m *Store) Remove(ctx context.Context, path string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, path)
	}
	return nil
}

// Memory keeps saved documents in a map keyed by "mem/<name>".
type Memory struct {
	mu    sync.Mutex
	Files map[string][]byte
}

func NewMemory() *Memory { return &Memory{Files: map[string][]byte{}} }

func (m *Memory) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := "mem/" + name
	m.Files[p] = buf.Bytes()
	return p, nil
}

func (m *Memory) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Files, path)
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Files)
}
