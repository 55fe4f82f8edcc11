package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingQuerier struct {
	mu      sync.Mutex
	calls   int
	fail    bool
	queried chan struct{}
}

func newCountingQuerier() *countingQuerier {
	return &countingQuerier{queried: make(chan struct{}, 16)}
}

func (q *countingQuerier) Gallery(context.Context) ([]Image, error) {
	q.mu.Lock()
	q.calls++
	n := q.calls
	fail := q.fail
	q.mu.Unlock()
	defer func() { q.queried <- struct{}{} }()

	if fail {
		return nil, errors.New("server unreachable")
	}
	images := make([]Image, n)
	for i := range images {
		images[i] = Image{ID: string(rune('a' + i)), Name: "Rex"}
	}
	return images, nil
}

func (q *countingQuerier) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}

func (q *countingQuerier) setFail(v bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.fail = v
}

func (q *countingQuerier) wait(t *testing.T) {
	t.Helper()
	select {
	case <-q.queried:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for gallery query")
	}
}

// manualTicker lets the test decide when an interval elapses.
type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
	period  time.Duration
}

func (m *manualTicker) factory(d time.Duration) (<-chan time.Time, func()) {
	m.period = d
	return m.ch, func() {
		m.mu.Lock()
		m.stopped = true
		m.mu.Unlock()
	}
}

func (m *manualTicker) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func TestPoller_QueriesOnStartAndEveryTick(t *testing.T) {
	q := newCountingQuerier()
	ticker := &manualTicker{ch: make(chan time.Time)}

	var renders [][]Image
	var mu sync.Mutex
	p := NewPoller(q, 0, func(images []Image) {
		mu.Lock()
		renders = append(renders, images)
		mu.Unlock()
	}, quietLogger())
	p.newTicker = ticker.factory

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	q.wait(t)
	assert.Equal(t, 1, q.count())

	ticker.ch <- time.Now()
	q.wait(t)
	ticker.ch <- time.Now()
	q.wait(t)
	assert.Equal(t, 3, q.count())
	assert.Equal(t, DefaultPollInterval, ticker.period)

	cancel()
	<-done
	assert.True(t, ticker.isStopped())
	assert.Equal(t, 3, q.count(), "no queries after stop")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, renders, 3)
	assert.Len(t, renders[2], 3, "each render replaces the list in full")
	assert.Len(t, p.Latest(), 3)
}

func TestPoller_FailureKeepsLastList(t *testing.T) {
	q := newCountingQuerier()
	ticker := &manualTicker{ch: make(chan time.Time)}

	renders := 0
	var mu sync.Mutex
	p := NewPoller(q, time.Second, func([]Image) {
		mu.Lock()
		renders++
		mu.Unlock()
	}, quietLogger())
	p.newTicker = ticker.factory

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	q.wait(t)
	q.setFail(true)
	ticker.ch <- time.Now()
	q.wait(t)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, renders)
	assert.Len(t, p.Latest(), 1)
	assert.Equal(t, time.Second, ticker.period)
}

func TestPoller_CancelledBeforeStart(t *testing.T) {
	q := newCountingQuerier()
	p := NewPoller(q, time.Second, nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx)

	assert.Zero(t, q.count())
}

// cancellingQuerier stops the poller from inside the first query while a
// tick is already waiting.
type cancellingQuerier struct {
	cancel context.CancelFunc
	calls  int
}

func (q *cancellingQuerier) Gallery(context.Context) ([]Image, error) {
	q.calls++
	q.cancel()
	return nil, nil
}

func TestPoller_NoQueryAfterStopWithPendingTick(t *testing.T) {
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		q := &cancellingQuerier{cancel: cancel}
		ticker := &manualTicker{ch: make(chan time.Time, 1)}
		ticker.ch <- time.Now()

		p := NewPoller(q, time.Second, nil, quietLogger())
		p.newTicker = ticker.factory
		p.Run(ctx)

		require.Equal(t, 1, q.calls, "run %d queried after stop", i)
		assert.True(t, ticker.isStopped())
	}
}
