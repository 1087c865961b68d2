package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"kamikaya-backend/internal/domain/upload"
)

var _ upload.Store = (*Store)(nil)

// Store keeps uploaded documents as flat files in one directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, os.PathSeparator)
}

func (s *Store) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", upload.ErrInvalidName, name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	p := filepath.Join(s.dir, name)
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", p, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return "", fmt.Errorf("close %s: %w", p, err)
	}
	return p, nil
}

// Remove deletes a file previously returned by Save. Paths outside the
// store directory are refused; a file that is already gone is not an error.
func (s *Store) Remove(_ context.Context, path string) error {
	if filepath.Dir(filepath.Clean(path)) != s.dir || !validName(filepath.Base(path)) {
		return fmt.Errorf("%w: %q", upload.ErrInvalidName, path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
