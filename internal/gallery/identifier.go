package gallery

import (
	"strings"
	"sync"
	"time"
)

// stampClock hands out epoch-millisecond stamps that strictly increase
// within the process, so two uploads in the same millisecond still get
// distinct identifiers.
type stampClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func newStampClock(now func() time.Time) *stampClock {
	return &stampClock{now: now}
}

func (c *stampClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}

// DisplayName derives the dog's name from a stored identifier such as
// "dog-gallery/Rex-1700000000000": the last path segment minus its
// trailing "-<timestamp>".
func DisplayName(identifier string) string {
	segments := strings.Split(identifier, "/")
	file := segments[len(segments)-1]
	parts := strings.Split(file, "-")
	return strings.Join(parts[:len(parts)-1], "-")
}

// Batches splits keys into consecutive slices of at most size elements.
func Batches(keys []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	batches := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := min(start+size, len(keys))
		batches = append(batches, keys[start:end])
	}
	return batches
}
