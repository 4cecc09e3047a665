package bubble

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams indicates a physics or sizing parameter out of range.
	ErrInvalidParams = errors.New("bubble: invalid parameters")

	// ErrNoFrames indicates a headless run was asked for zero frames.
	ErrNoFrames = errors.New("bubble: frame count must be positive")

	// ErrNoRuns indicates an ensemble was asked for zero or fewer seeds.
	ErrNoRuns = errors.New("bubble: run count must be positive")

	ErrLoopRunning = errors.New("bubble: loop already running")
)

// ParamError names the offending parameter.
type ParamError struct {
	Name string
}

func (e *ParamError) Error() string {
	return "bubble: invalid parameters: " + e.Name + " out of range"
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParams
}

// RunError records where a headless run produced an unusable frame.
type RunError struct {
	Frame   int
	Message string
}

func (e RunError) Error() string {
	return fmt.Sprintf("bubble: frame %d: %s", e.Frame, e.Message)
}
