package feed

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("feed: not found")
	ErrInvalidSource = errors.New("feed: invalid source")
	ErrBackend       = errors.New("feed: backend failure")
)

// FieldError names a missing or malformed form field.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("feed: %s is required", e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidSource
}

// BackendError describes a failed call to the backend service.
type BackendError struct {
	Op     string
	Status int
	Err    error
}

func (e *BackendError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("feed: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("feed: %s: HTTP error! status: %d", e.Op, e.Status)
	}
}

func (e *BackendError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrBackend, e.Err}
	}
	return []error{ErrBackend}
}
