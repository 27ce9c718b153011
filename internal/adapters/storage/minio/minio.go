// Package minio backs the file storage port with an S3-compatible bucket.
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"triphoto/internal/config"
	"triphoto/internal/core/port"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter, creating the bucket when it does not exist yet
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (port.FileStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

func (a *Adapter) Put(ctx context.Context, path string, r io.Reader) error {
	// Size -1 streams with multipart chunking; bodies are spooled to disk
	// before this call so there is no length to declare.
	_, err := a.client.PutObject(ctx, a.config.BucketName, path, r, -1, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", path, err)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, path string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, path, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", path, err)
	}
	return nil
}

func (a *Adapter) Exists(ctx context.Context, path string) (bool, error) {
	_, err := a.client.StatObject(ctx, a.config.BucketName, path, minio.StatObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", path, err)
	}
	return true, nil
}

func (a *Adapter) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := a.client.GetObject(ctx, a.config.BucketName, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}
	return obj, nil
}
