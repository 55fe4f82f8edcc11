// Package storage defines the interface for object storage operations.
// The MinIO implementation works with any S3-compatible provider; the GCS
// implementation talks to Google Cloud Storage.
package storage

import (
	"context"
	"io"
)

// MaxDeleteBatch is the largest number of keys accepted by DeleteBatch.
const MaxDeleteBatch = 100

// Object describes a stored object.
type Object struct {
	Key     string
	URL     string
	AssetID string
}

// Storage is the interface for uploading, listing and deleting objects.
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (Object, error)
	// List returns at most max objects whose key starts with prefix, in store order.
	List(ctx context.Context, prefix string, max int) ([]Object, error)
	// DeleteBatch removes up to MaxDeleteBatch objects in one call.
	DeleteBatch(ctx context.Context, keys []string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

// assetIDMetaKey is the user-metadata key that carries the asset id.
const assetIDMetaKey = "Asset-Id"
