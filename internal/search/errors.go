package search

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMissingQuery = errors.New("search: query parameter is required")
	ErrBusy         = errors.New("search: a request is already in flight")
	ErrFailed       = errors.New("search: failed to find sources")
)

// ErrCanceled is returned when a pending search is aborted through
// Guard.Cancel or the caller's context. It matches context.Canceled.
var ErrCanceled = fmt.Errorf("search: canceled: %w", context.Canceled)
