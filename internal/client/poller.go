package client

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// DefaultPollInterval is how often the gallery view refreshes.
const DefaultPollInterval = 5 * time.Second

// GalleryQuerier lists the gallery.
type GalleryQuerier interface {
	Gallery(ctx context.Context) ([]Image, error)
}

// Poller keeps a gallery view fresh: one query when it starts, then one per
// interval until its context ends. A failed query is logged and the last
// rendered list stays as it was.
type Poller struct {
	src      GalleryQuerier
	interval time.Duration
	render   func([]Image)
	logger   *slog.Logger

	newTicker func(time.Duration) (<-chan time.Time, func())

	mu   sync.Mutex
	last []Image
}

// NewPoller returns a Poller that hands every fresh list to render.
func NewPoller(src GalleryQuerier, interval time.Duration, render func([]Image), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		src:       src,
		interval:  interval,
		render:    render,
		logger:    logger,
		newTicker: realTicker,
	}
}

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Run blocks until ctx is done. Queries already in flight are cancelled
// through ctx as well.
func (p *Poller) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	p.refresh(ctx)

	ticks, stop := p.newTicker(p.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			// select picks at random when both are ready.
			if ctx.Err() != nil {
				return
			}
			p.refresh(ctx)
		}
	}
}

// Latest returns the most recently rendered list.
func (p *Poller) Latest() []Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.last)
}

func (p *Poller) refresh(ctx context.Context) {
	images, err := p.src.Gallery(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("error fetching gallery", "error", err)
		}
		return
	}

	p.mu.Lock()
	p.last = images
	p.mu.Unlock()

	if p.render != nil {
		p.render(images)
	}
}
