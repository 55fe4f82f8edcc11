package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists with a public-read
// policy, and returns a ready-to-use MinioStorage.
func NewMinioStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		slog.Info("storage: created bucket", "bucket", bucket)
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload streams reader to MinIO under key and stamps a fresh asset id into
// the object's user metadata.
func (s *MinioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (Object, error) {
	assetID := uuid.NewString()
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{assetIDMetaKey: assetID},
	})
	if err != nil {
		return Object{}, fmt.Errorf("put object %q: %w", key, err)
	}
	return Object{Key: key, URL: s.PublicURL(key), AssetID: assetID}, nil
}

// List walks the bucket under prefix and stops after max objects.
func (s *MinioStorage) List(ctx context.Context, prefix string, max int) ([]Object, error) {
	if max <= 0 {
		return nil, nil
	}

	// Cancelling stops the listing goroutine once enough objects were read.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    true,
		MaxKeys:      max,
		WithMetadata: true,
	})

	objects := make([]Object, 0, max)
	for info := range objectCh {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects %q: %w", prefix, info.Err)
		}
		objects = append(objects, Object{
			Key:     info.Key,
			URL:     s.PublicURL(info.Key),
			AssetID: assetIDOf(info.UserMetadata, info.ETag),
		})
		if len(objects) == max {
			break
		}
	}
	return objects, nil
}

// DeleteBatch removes keys with a single multi-object delete request.
func (s *MinioStorage) DeleteBatch(ctx context.Context, keys []string) error {
	if len(keys) > MaxDeleteBatch {
		return fmt.Errorf("delete batch of %d keys exceeds limit %d", len(keys), MaxDeleteBatch)
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		objectsCh <- minio.ObjectInfo{Key: k}
	}
	close(objectsCh)

	var errs []error
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("remove %q: %w", rerr.ObjectName, rerr.Err))
	}
	return errors.Join(errs...)
}

// PublicURL returns the browser-accessible URL for the given key.
func (s *MinioStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// assetIDOf finds the asset id in listed user metadata. MinIO returns the
// keys with an "X-Amz-Meta-" prefix; objects uploaded without one fall back
// to their ETag.
func assetIDOf(meta map[string]string, etag string) string {
	for k, v := range meta {
		name := strings.TrimPrefix(strings.ToLower(k), "x-amz-meta-")
		if strings.EqualFold(name, assetIDMetaKey) && v != "" {
			return v
		}
	}
	return strings.Trim(etag, `"`)
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
