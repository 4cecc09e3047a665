package search

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/san-kum/metra/internal/feed"
)

// Guard lets at most one Find through at a time. Callers that arrive
// while a search is pending get ErrBusy immediately.
type Guard struct {
	finder Finder
	sem    *semaphore.Weighted

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewGuard(f Finder) *Guard {
	return &Guard{finder: f, sem: semaphore.NewWeighted(1)}
}

// Pending reports whether a search is in flight.
func (g *Guard) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancel != nil
}

func (g *Guard) Find(ctx context.Context, req Request) (feed.SourceGroups, error) {
	// Acquire and publish the cancel func together so Cancel never sees
	// a search that holds the slot but cannot be aborted.
	g.mu.Lock()
	if !g.sem.TryAcquire(1) {
		g.mu.Unlock()
		return nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.mu.Unlock()
	defer g.sem.Release(1)
	defer func() {
		g.mu.Lock()
		g.cancel = nil
		g.mu.Unlock()
		cancel()
	}()

	res, err := g.finder.Find(ctx, req)
	if err != nil && errors.Is(err, context.Canceled) {
		return nil, ErrCanceled
	}
	return res, err
}

// Cancel aborts the pending search, if any.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
}
