package bubble

import (
	"context"
	"fmt"
)

// DefaultSettleSpeed is the top speed under which a frame counts as at rest.
const DefaultSettleSpeed = 0.01

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Observer is notified after every step of a run.
type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a plain function to [Observer].
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type RunConfig struct {
	Frames        int
	Record        bool
	ValidateState bool
	SettleSpeed   float64
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	// Settled is the first frame whose top speed fell under the settle
	// speed, or -1.
	Settled int
	Errors  []error
}

// Runner steps a mounted engine without a clock, for recording and tests.
type Runner struct {
	engine    *Engine
	metrics   []Metric
	observers []Observer
}

func NewRunner(e *Engine) *Runner {
	return &Runner{
		engine:    e,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRun(cfg); err != nil {
		return nil, err
	}
	settle := cfg.SettleSpeed
	if settle <= 0 {
		settle = DefaultSettleSpeed
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Settled: -1,
		Errors:  make([]error, 0),
	}
	if cfg.Record {
		result.Frames = make([]Frame, 0, cfg.Frames+1)
		result.Frames = append(result.Frames, r.engine.Snapshot())
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		r.engine.Step()
		f := r.engine.Snapshot()

		if cfg.ValidateState && !validFrame(f) {
			result.Errors = append(result.Errors, RunError{Frame: f.Index, Message: "invalid state (NaN/Inf)"})
			break
		}

		for _, m := range r.metrics {
			m.Observe(f)
		}
		for _, obs := range r.observers {
			obs.OnFrame(f)
		}

		result.StepsTaken++
		if result.Settled < 0 && MaxSpeed(f) < settle {
			result.Settled = f.Index
		}
		if cfg.Record {
			result.Frames = append(result.Frames, f)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback streams frames to callback until it returns false or
// the frame budget is spent.
func (r *Runner) RunWithCallback(ctx context.Context, cfg RunConfig, callback func(Frame) bool) error {
	if err := validateRun(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.engine.Step()
		f := r.engine.Snapshot()

		if cfg.ValidateState && !validFrame(f) {
			return RunError{Frame: f.Index, Message: "invalid state (NaN/Inf)"}
		}
		if !callback(f) {
			return nil
		}
	}

	return nil
}

func validateRun(cfg RunConfig) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w, got %d", ErrNoFrames, cfg.Frames)
	}
	return nil
}

func validFrame(f Frame) bool {
	for _, p := range f.Bodies {
		if !finite(p.Body.Pos) || !finite(p.Body.Vel) {
			return false
		}
	}
	return true
}
