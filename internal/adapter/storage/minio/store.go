package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"kamikaya-backend/internal/domain/upload"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ upload.Store = (*Store)(nil)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// Store keeps uploaded documents as objects in a single bucket. Stored paths
// have the form "<bucket>/<object>".
type Store struct {
	client *minio.Client
	bucket string
}

func NewStore(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", upload.ErrInvalidName, name)
	}
	if size <= 0 {
		size = -1
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.bucket + "/" + name, nil
}

func (s *Store) objectName(path string) (string, error) {
	name, ok := strings.CutPrefix(path, s.bucket+"/")
	if !ok || name == "" {
		return "", fmt.Errorf("%w: %q", upload.ErrInvalidName, path)
	}
	return name, nil
}

func (s *Store) Remove(ctx context.Context, path string) error {
	name, err := s.objectName(path)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
