package bubble

import (
	"context"
	"slices"
	"sync"
	"time"
)

const (
	DefaultFrameRate  = 60
	DefaultEntryDelay = 1500 * time.Millisecond
)

// Loop drives an engine from its own goroutine. Pointer events arrive
// through a [Pointers] hub and are applied between steps, so the engine is
// only ever touched by the loop goroutine.
type Loop struct {
	engine     *Engine
	hub        *Pointers
	interval   time.Duration
	entryDelay time.Duration

	mu        sync.Mutex
	observers []func(Frame)
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewLoop returns a stopped loop. A non-positive frameRate selects
// DefaultFrameRate; hub may be nil when no pointer input is expected.
func NewLoop(e *Engine, hub *Pointers, frameRate int, entryDelay time.Duration) *Loop {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	if entryDelay < 0 {
		entryDelay = 0
	}
	return &Loop{
		engine:     e,
		hub:        hub,
		interval:   time.Second / time.Duration(frameRate),
		entryDelay: entryDelay,
	}
}

// Observe registers fn to receive a snapshot after every step. Observers
// run on the loop goroutine.
func (l *Loop) Observe(fn func(Frame)) {
	l.mu.Lock()
	l.observers = append(l.observers, fn)
	l.mu.Unlock()
}

// Running reports whether the loop goroutine is alive.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done != nil
}

// Start launches the loop. Physics begins after the entry delay; pointer
// events are handled from the start.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		return ErrLoopRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	events := make(chan PointerEvent, 64)
	unsubscribe := func() {}
	if l.hub != nil {
		unsubscribe = l.hub.Subscribe(func(ev PointerEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
	}

	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	go func() {
		defer close(done)
		defer l.release(done)
		defer unsubscribe()
		l.run(ctx, events)
	}()
	return nil
}

// Stop cancels the loop and waits for it to exit. No step, observer or
// click callback runs after Stop returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// release forgets a loop that exited on its own, typically because the
// parent context ended, so that Running reports false and Start works
// again. A newer loop started after Stop is left alone.
func (l *Loop) release(done chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done == done {
		l.cancel()
		l.cancel, l.done = nil, nil
	}
}

func (l *Loop) run(ctx context.Context, events <-chan PointerEvent) {
	start := time.NewTimer(l.entryDelay)
	defer start.Stop()

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if ctx.Err() != nil {
				return
			}
			l.engine.Dispatch(ev)
		case <-start.C:
			ticker = time.NewTicker(l.interval)
			tick = ticker.C
		case <-tick:
			if ctx.Err() != nil {
				return
			}
			l.engine.Step()
			l.notify(l.engine.Snapshot())
		}
	}
}

func (l *Loop) notify(f Frame) {
	l.mu.Lock()
	obs := slices.Clone(l.observers)
	l.mu.Unlock()
	for _, fn := range obs {
		fn(f)
	}
}
