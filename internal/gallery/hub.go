package gallery

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// subscriberBuffer is how many unsent snapshots a slow watcher may queue
// before newer ones are dropped for it.
const subscriberBuffer = 4

// Hub fans gallery snapshots out to websocket watchers.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	logger *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{subs: make(map[chan []byte]struct{}), logger: logger}
}

// Subscribe registers a watcher. The returned func unregisters it and must
// be called exactly once.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Len returns the number of active watchers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish sends payload as JSON to every watcher without blocking.
func (h *Hub) Publish(payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- b:
		default:
			h.logger.Debug("dropping gallery snapshot for slow watcher")
		}
	}
	return nil
}
