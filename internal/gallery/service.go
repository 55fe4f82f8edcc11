// Package gallery stores dog pictures in object storage and serves the
// upload, listing and bulk-delete endpoints on top of it.
package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doggydelights/service/internal/imaging"
	"github.com/doggydelights/service/internal/storage"
)

const (
	// ListLimit caps the number of images returned by List.
	ListLimit = 20
	// DeleteListLimit caps the number of images removed by one DeleteAll.
	DeleteListLimit = 500
)

// ErrUnsupportedImage is returned by Store for input that is not an image.
var ErrUnsupportedImage = imaging.ErrUnsupported

// StoredImage is one picture in the gallery.
type StoredImage struct {
	ID         string `json:"id"       example:"1f0c6a5e-8e0b-4f55-9a53-3c8d0f0e6b1a"`
	URL        string `json:"imageUrl" example:"http://localhost:9000/dogs/dog-gallery/Rex-1700000000000"`
	Name       string `json:"name"     example:"Rex"`
	Identifier string `json:"-"`
}

// NameSource produces display names for new uploads.
type NameSource interface {
	Next() string
}

// Service contains the gallery business logic.
type Service struct {
	store  storage.Storage
	names  NameSource
	clock  *stampClock
	folder string
	logger *slog.Logger
}

// NewService creates a gallery Service storing objects under folder.
func NewService(store storage.Storage, names NameSource, folder string, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		names:  names,
		clock:  newStampClock(time.Now),
		folder: folder,
		logger: logger,
	}
}

func (s *Service) prefix() string {
	return s.folder + "/"
}

// Store normalizes the picture to PNG and writes it under
// "<folder>/<name>-<epoch ms>". A single attempt is made.
func (s *Service) Store(ctx context.Context, file io.Reader) (*StoredImage, error) {
	data, format, err := imaging.ToPNG(file)
	if err != nil {
		return nil, err
	}

	identifier := fmt.Sprintf("%s%s-%d", s.prefix(), s.names.Next(), s.clock.Next())
	obj, err := s.store.Upload(ctx, identifier, bytes.NewReader(data), int64(len(data)), imaging.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	s.logger.Info("uploaded image", "identifier", identifier, "source_format", format, "url", obj.URL)
	return &StoredImage{
		ID:         obj.AssetID,
		URL:        obj.URL,
		Name:       DisplayName(identifier),
		Identifier: identifier,
	}, nil
}

// List returns up to ListLimit images in the order the store reports them.
func (s *Service) List(ctx context.Context) ([]StoredImage, error) {
	objects, err := s.store.List(ctx, s.prefix(), ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	images := make([]StoredImage, 0, len(objects))
	for _, obj := range objects {
		images = append(images, StoredImage{
			ID:         obj.AssetID,
			URL:        obj.URL,
			Name:       DisplayName(obj.Key),
			Identifier: obj.Key,
		})
	}
	return images, nil
}

// DeleteAll removes up to DeleteListLimit images and reports how many
// deletions were requested. Batches run concurrently and all of them run to
// completion; batches that succeeded before another failed are not restored.
func (s *Service) DeleteAll(ctx context.Context) (int, error) {
	objects, err := s.store.List(ctx, s.prefix(), DeleteListLimit)
	if err != nil {
		return 0, fmt.Errorf("list images: %w", err)
	}
	if len(objects) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}

	batches := Batches(keys, storage.MaxDeleteBatch)
	var failed atomic.Int32
	var g errgroup.Group
	for _, batch := range batches {
		g.Go(func() error {
			if err := s.store.DeleteBatch(ctx, batch); err != nil {
				failed.Add(1)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("bulk delete partially failed",
			"batches", len(batches),
			"failed_batches", failed.Load(),
			"error", err,
		)
		return 0, fmt.Errorf("delete images: %w", err)
	}

	s.logger.Info("deleted images", "count", len(keys), "batches", len(batches))
	return len(keys), nil
}

// IsUnsupported reports whether err means the upload was not an image.
func (s *Service) IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedImage)
}
