package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// gcsDeleteConcurrency bounds the per-object deletes issued for one batch.
const gcsDeleteConcurrency = 16

// GCSStorage implements Storage on a Google Cloud Storage bucket.
//
// Objects are expected to be publicly readable through bucket IAM
// (allUsers: Storage Object Viewer); no per-object ACLs are written.
type GCSStorage struct {
	client     *gcs.Client
	bucket     string
	publicBase string
}

// NewGCSStorage opens a GCS client. An empty credentialsFile uses the
// application default credentials. An empty publicBase defaults to
// https://storage.googleapis.com/<bucket>.
func NewGCSStorage(ctx context.Context, bucket, publicBase, credentialsFile string) (*GCSStorage, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("gcs: bucket is empty")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	if strings.TrimSpace(publicBase) == "" {
		publicBase = "https://storage.googleapis.com/" + bucket
	}

	return &GCSStorage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}

// Upload writes reader to key. size is informational for GCS.
func (s *GCSStorage) Upload(ctx context.Context, key string, reader io.Reader, _ int64, contentType string) (Object, error) {
	assetID := uuid.NewString()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{assetIDMetaKey: assetID}

	if _, err := io.Copy(w, reader); err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("finalize object %q: %w", key, err)
	}
	return Object{Key: key, URL: s.PublicURL(key), AssetID: assetID}, nil
}

// List iterates objects under prefix and stops after max.
func (s *GCSStorage) List(ctx context.Context, prefix string, max int) ([]Object, error) {
	if max <= 0 {
		return nil, nil
	}

	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})
	objects := make([]Object, 0, max)
	for len(objects) < max {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects %q: %w", prefix, err)
		}
		assetID := attrs.Metadata[assetIDMetaKey]
		if assetID == "" {
			assetID = strconv.FormatInt(attrs.Generation, 10)
		}
		objects = append(objects, Object{
			Key:     attrs.Name,
			URL:     s.PublicURL(attrs.Name),
			AssetID: assetID,
		})
	}
	return objects, nil
}

// DeleteBatch deletes keys concurrently. GCS has no multi-object delete in
// the Go client, so the batch fans out into bounded per-object calls.
// Objects that are already gone count as deleted.
func (s *GCSStorage) DeleteBatch(ctx context.Context, keys []string) error {
	if len(keys) > MaxDeleteBatch {
		return fmt.Errorf("delete batch of %d keys exceeds limit %d", len(keys), MaxDeleteBatch)
	}

	bh := s.client.Bucket(s.bucket)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(gcsDeleteConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			err := bh.Object(key).Delete(ctx)
			if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
				return fmt.Errorf("delete %q: %w", key, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// PublicURL escapes each path segment but keeps "/" separators.
func (s *GCSStorage) PublicURL(key string) string {
	parts := strings.Split(key, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return s.publicBase + "/" + strings.Join(parts, "/")
}
