package bubble

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLoopStopHaltsMutation(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	e := NewEngine(DefaultParams())
	e.Mount(headlineItems(), 800, 600)
	hub := NewPointers()
	loop := NewLoop(e, hub, 500, 0)

	var frames atomic.Int64
	loop.Observe(func(Frame) { frames.Add(1) })

	require.NoError(t, loop.Start(context.Background()))
	assert.True(t, loop.Running())
	assert.Equal(t, 1, hub.Len())
	require.Eventually(t, func() bool { return frames.Load() >= 5 }, 2*time.Second, time.Millisecond)

	loop.Stop()
	assert.False(t, loop.Running())
	assert.Equal(t, 0, hub.Len())

	seen, index := frames.Load(), e.FrameIndex()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, seen, frames.Load())
	assert.Equal(t, index, e.FrameIndex())
	assert.Equal(t, int(seen), index)
}

func TestLoopStartTwice(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	e := NewEngine(DefaultParams())
	e.Mount(headlineItems(), 800, 600)
	loop := NewLoop(e, nil, 0, time.Hour)

	require.NoError(t, loop.Start(context.Background()))
	assert.ErrorIs(t, loop.Start(context.Background()), ErrLoopRunning)
	loop.Stop()
	loop.Stop()

	require.NoError(t, loop.Start(context.Background()))
	loop.Stop()
}

func TestLoopWaitsForEntryDelay(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	e := NewEngine(DefaultParams())
	e.Mount(headlineItems(), 800, 600)
	loop := NewLoop(e, nil, 500, time.Hour)

	var frames atomic.Int64
	loop.Observe(func(Frame) { frames.Add(1) })
	require.NoError(t, loop.Start(context.Background()))
	time.Sleep(20 * time.Millisecond)
	loop.Stop()

	assert.Zero(t, frames.Load())
	assert.Zero(t, e.FrameIndex())
}

func TestLoopAppliesPointerEvents(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	e := NewEngine(DefaultParams())
	e.Mount([]Item{{ID: "solo", Title: "solo"}}, 800, 600)
	b, _ := e.Body("solo")

	clicks := make(chan string, 4)
	e.OnClick(func(it Item) { clicks <- it.ID })

	hub := NewPointers()
	loop := NewLoop(e, hub, 0, time.Hour)
	require.NoError(t, loop.Start(context.Background()))

	hub.Publish(PointerEvent{Kind: KindDown, X: b.Pos.X, Y: b.Pos.Y})
	hub.Publish(PointerEvent{Kind: KindUp, X: b.Pos.X, Y: b.Pos.Y})
	hub.Publish(PointerEvent{Kind: KindClick, X: b.Pos.X, Y: b.Pos.Y})

	select {
	case id := <-clicks:
		assert.Equal(t, "solo", id)
	case <-time.After(2 * time.Second):
		t.Fatal("click was not delivered")
	}

	loop.Stop()
	hub.Publish(PointerEvent{Kind: KindDown, X: b.Pos.X, Y: b.Pos.Y})
	hub.Publish(PointerEvent{Kind: KindUp, X: b.Pos.X, Y: b.Pos.Y})
	hub.Publish(PointerEvent{Kind: KindClick, X: b.Pos.X, Y: b.Pos.Y})
	assert.Empty(t, clicks)
}

func TestLoopStopsWithParentContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	e := NewEngine(DefaultParams())
	e.Mount(headlineItems(), 800, 600)
	loop := NewLoop(e, NewPointers(), 500, 0)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, loop.Start(ctx))
	cancel()
	loop.Stop()
	assert.False(t, loop.Running())
}

func TestLoopRestartsAfterParentCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	e := NewEngine(DefaultParams())
	e.Mount(headlineItems(), 800, 600)
	hub := NewPointers()
	loop := NewLoop(e, hub, 500, 0)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, loop.Start(ctx))
	cancel()
	require.Eventually(t, func() bool { return !loop.Running() }, 2*time.Second, time.Millisecond)
	assert.Equal(t, 0, hub.Len())

	require.NoError(t, loop.Start(context.Background()))
	assert.True(t, loop.Running())
	loop.Stop()
	assert.False(t, loop.Running())
}
