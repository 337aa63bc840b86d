// Package objectstore stores uploaded idea images in an S3 compatible bucket.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gravadigital/hackathon-api/internal/config"
	"github.com/gravadigital/hackathon-api/internal/logger"
)

// MinIOStore writes objects to a single bucket
type MinIOStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *log.Logger
}

// NewMinIOStore connects to the configured endpoint and makes sure the bucket exists
func NewMinIOStore(ctx context.Context, cfg *config.Config) (*MinIOStore, error) {
	log := logger.Repository("object_store")

	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Error("Failed to create object store client", "endpoint", cfg.MinIO.Endpoint, "error", err)
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.MinIO.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(client.EndpointURL().String(), "/") + "/" + cfg.MinIO.Bucket
	}

	s := &MinIOStore{
		client:    client,
		bucket:    cfg.MinIO.Bucket,
		publicURL: publicURL,
		log:       log,
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("Object store ready", "endpoint", cfg.MinIO.Endpoint, "bucket", s.bucket)
	return s, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		s.log.Error("Failed to check bucket", "bucket", s.bucket, "error", err)
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		s.log.Error("Failed to create bucket", "bucket", s.bucket, "error", err)
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.log.Info("Bucket created", "bucket", s.bucket)
	return nil
}

// Put uploads the object and returns the URL clients should use to fetch it
func (s *MinIOStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	s.log.Debug("Uploading object", "key", key, "size", size, "content_type", contentType)

	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("Failed to upload object", "key", key, "error", err)
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	s.log.Info("Object uploaded", "key", info.Key, "size", info.Size)
	return s.publicURL + "/" + key, nil
}

// Delete removes an object. Missing objects are not an error.
func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.log.Error("Failed to remove object", "key", key, "error", err)
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}
