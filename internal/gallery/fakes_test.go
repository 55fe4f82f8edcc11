package gallery

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doggydelights/service/internal/storage"
)

// fakeStore is an in-memory storage.Storage that records every call.
type fakeStore struct {
	mu sync.Mutex

	objects          []storage.Object
	uploads          int
	lastContentType  string
	lastUploadedSize int64
	listMaxes        []int
	deleteCalls      [][]string

	uploadErr error
	listErr   error
	// deleteErr is returned by DeleteBatch for batches containing failKey.
	deleteErr error
	failKey   string
}

func (f *fakeStore) Upload(_ context.Context, key string, r io.Reader, size int64, contentType string) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return storage.Object{}, f.uploadErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return storage.Object{}, err
	}
	f.uploads++
	f.lastContentType = contentType
	f.lastUploadedSize = size
	obj := storage.Object{Key: key, URL: f.PublicURL(key), AssetID: fmt.Sprintf("asset-%d", f.uploads)}
	f.objects = append(f.objects, obj)
	return obj, nil
}

func (f *fakeStore) List(_ context.Context, _ string, max int) ([]storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listMaxes = append(f.listMaxes, max)
	if f.listErr != nil {
		return nil, f.listErr
	}
	n := min(max, len(f.objects))
	return slices.Clone(f.objects[:n]), nil
}

func (f *fakeStore) DeleteBatch(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, slices.Clone(keys))
	if f.deleteErr != nil && slices.Contains(keys, f.failKey) {
		return f.deleteErr
	}
	f.objects = slices.DeleteFunc(f.objects, func(o storage.Object) bool {
		return slices.Contains(keys, o.Key)
	})
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "http://cdn.test/" + key
}

func (f *fakeStore) seed(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("dog-gallery/Rex-%d", 1700000000000+i)
		f.objects = append(f.objects, storage.Object{Key: key, URL: f.PublicURL(key), AssetID: fmt.Sprintf("seed-%d", i)})
	}
}

func (f *fakeStore) deleteBatchSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sizes := make([]int, 0, len(f.deleteCalls))
	for _, c := range f.deleteCalls {
		sizes = append(sizes, len(c))
	}
	slices.Sort(sizes)
	return sizes
}

type fixedName string

func (n fixedName) Next() string { return string(n) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(store storage.Storage) *Service {
	return NewService(store, fixedName("Rex"), "dog-gallery", discardLogger())
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}
