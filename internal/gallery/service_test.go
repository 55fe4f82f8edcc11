package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_IdentifierEmbedsNameAndTimestamp(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	svc.clock = newStampClock(func() time.Time { return time.UnixMilli(1700000000123) })

	img, err := svc.Store(context.Background(), bytes.NewReader(jpegBytes(t)))
	require.NoError(t, err)

	assert.Equal(t, "dog-gallery/Rex-1700000000123", img.Identifier)
	assert.Equal(t, "Rex", img.Name)
	assert.Equal(t, DisplayName(img.Identifier), img.Name)
	assert.Equal(t, "http://cdn.test/dog-gallery/Rex-1700000000123", img.URL)
	assert.Equal(t, "asset-1", img.ID)
	assert.Equal(t, "image/png", store.lastContentType)
	assert.Positive(t, store.lastUploadedSize)
}

func TestStore_SameMillisecondStillUnique(t *testing.T) {
	svc := newTestService(&fakeStore{})
	svc.clock = newStampClock(func() time.Time { return time.UnixMilli(42) })

	a, err := svc.Store(context.Background(), bytes.NewReader(jpegBytes(t)))
	require.NoError(t, err)
	b, err := svc.Store(context.Background(), bytes.NewReader(jpegBytes(t)))
	require.NoError(t, err)

	assert.NotEqual(t, a.Identifier, b.Identifier)
	assert.Equal(t, a.Name, b.Name)
}

func TestStore_RejectsNonImage(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	_, err := svc.Store(context.Background(), strings.NewReader("woof"))
	require.Error(t, err)
	assert.True(t, svc.IsUnsupported(err))
	assert.Zero(t, store.uploads)
}

func TestStore_SurfacesStoreError(t *testing.T) {
	quota := errors.New("quota exceeded")
	svc := newTestService(&fakeStore{uploadErr: quota})

	_, err := svc.Store(context.Background(), bytes.NewReader(jpegBytes(t)))
	assert.ErrorIs(t, err, quota)
}

func TestList_CapsAtTwenty(t *testing.T) {
	store := &fakeStore{}
	store.seed(35)
	svc := newTestService(store)

	images, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Len(t, images, ListLimit)
	assert.Equal(t, []int{ListLimit}, store.listMaxes)
	assert.Equal(t, "Rex", images[0].Name)
	assert.Equal(t, "seed-0", images[0].ID)
	assert.Equal(t, "http://cdn.test/dog-gallery/Rex-1700000000000", images[0].URL)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	images, err := newTestService(&fakeStore{}).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestList_StoreErrorReturnsNothing(t *testing.T) {
	store := &fakeStore{listErr: errors.New("network down")}
	store.seed(3)

	images, err := newTestService(store).List(context.Background())
	assert.Error(t, err)
	assert.Nil(t, images)
}

func TestDeleteAll_NothingToDelete(t *testing.T) {
	store := &fakeStore{}

	n, err := newTestService(store).DeleteAll(context.Background())
	require.NoError(t, err)

	assert.Zero(t, n)
	assert.Empty(t, store.deleteCalls)
	assert.Equal(t, []int{DeleteListLimit}, store.listMaxes)
}

func TestDeleteAll_BatchesOfHundred(t *testing.T) {
	store := &fakeStore{}
	store.seed(250)

	n, err := newTestService(store).DeleteAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 250, n)
	assert.Equal(t, []int{50, 100, 100}, store.deleteBatchSizes())
	assert.Empty(t, store.objects)
}

func TestDeleteAll_ListsAtMostFiveHundred(t *testing.T) {
	store := &fakeStore{}
	store.seed(620)

	n, err := newTestService(store).DeleteAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 500, n)
	assert.Len(t, store.deleteCalls, 5)
	assert.Len(t, store.objects, 120)
}

func TestDeleteAll_PartialFailureIsNotRolledBack(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("rate limited")}
	store.seed(250)
	store.failKey = fmt.Sprintf("dog-gallery/Rex-%d", 1700000000000+120)

	_, err := newTestService(store).DeleteAll(context.Background())
	require.Error(t, err)

	// All three batches were attempted; the two healthy ones stay deleted.
	assert.Len(t, store.deleteCalls, 3)
	assert.Len(t, store.objects, 100)
}
