package bubble

import (
	"context"
	"errors"
	"testing"
)

type countMetric struct{ n int }

func (c *countMetric) Name() string   { return "count" }
func (c *countMetric) Observe(Frame)  { c.n++ }
func (c *countMetric) Value() float64 { return float64(c.n) }
func (c *countMetric) Reset()         { c.n = 0 }

func mountedEngine(items []Item) *Engine {
	e := NewEngine(DefaultParams())
	e.Mount(items, 800, 600)
	return e
}

func TestRunnerRecordsFrames(t *testing.T) {
	r := NewRunner(mountedEngine(headlineItems()))
	result, err := r.Run(context.Background(), RunConfig{Frames: 10, Record: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if last := result.Frames[len(result.Frames)-1]; last.Index != 10 {
		t.Errorf("expected last frame index 10, got %d", last.Index)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	r := NewRunner(mountedEngine(headlineItems()))
	tests := []struct {
		name string
		cfg  RunConfig
	}{
		{"zero frames", RunConfig{Frames: 0}},
		{"negative frames", RunConfig{Frames: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Run(context.Background(), tt.cfg); !errors.Is(err, ErrNoFrames) {
				t.Errorf("expected ErrNoFrames, got %v", err)
			}
		})
	}
}

func TestRunnerMetricsAndObservers(t *testing.T) {
	r := NewRunner(mountedEngine(headlineItems()))
	m := &countMetric{n: 99}
	r.AddMetric(m)

	observed := 0
	r.AddObserver(ObserverFunc(func(Frame) { observed++ }))

	result, err := r.Run(context.Background(), RunConfig{Frames: 25})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := result.Metrics["count"]; got != 25 {
		t.Errorf("expected metric 25, got %f", got)
	}
	if observed != 25 {
		t.Errorf("expected 25 observations, got %d", observed)
	}
	if result.Frames != nil {
		t.Errorf("expected no frames without Record")
	}
}

func TestRunnerSettles(t *testing.T) {
	r := NewRunner(mountedEngine([]Item{{ID: "solo", Title: "solo"}}))
	result, err := r.Run(context.Background(), RunConfig{Frames: 20000})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Settled <= 0 {
		t.Errorf("expected the single bubble to settle, got %d", result.Settled)
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(mountedEngine(headlineItems()))
	if _, err := r.Run(ctx, RunConfig{Frames: 10}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := r.RunWithCallback(ctx, RunConfig{Frames: 10}, func(Frame) bool { return true }); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunWithCallbackStopsEarly(t *testing.T) {
	r := NewRunner(mountedEngine(headlineItems()))
	calls := 0
	err := r.RunWithCallback(context.Background(), RunConfig{Frames: 100}, func(f Frame) bool {
		calls++
		return calls < 3
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 callbacks, got %d", calls)
	}
}
