package feed

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/metra/internal/logging"
)

// Fallback serves reads from a primary provider and, when that fails,
// from a fixture. The failure is logged and remembered but never
// returned. Writes go to the primary only.
type Fallback struct {
	primary Provider
	backup  Provider
	logger  *zap.Logger

	mu      sync.Mutex
	lastErr error
}

func NewFallback(primary, backup Provider, logger *zap.Logger) *Fallback {
	return &Fallback{
		primary: primary,
		backup:  backup,
		logger:  logging.OrNop(logger).Named("feed"),
	}
}

func (f *Fallback) Mode() string { return f.primary.Mode() }

// Degraded reports the error behind the most recent fallback, or nil when
// the last read succeeded.
func (f *Fallback) Degraded() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Fallback) record(op string, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil || errors.Is(err, ErrNotFound) {
		f.lastErr = nil
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	f.lastErr = err
	f.logger.Warn("backend unavailable, using mock data", zap.String("op", op), zap.Error(err))
	return true
}

func (f *Fallback) Events(ctx context.Context) ([]Event, error) {
	events, err := f.primary.Events(ctx)
	if f.record("events", err) {
		return f.backup.Events(ctx)
	}
	return events, err
}

func (f *Fallback) Event(ctx context.Context, id string) (Event, error) {
	ev, err := f.primary.Event(ctx, id)
	if f.record("event", err) {
		return f.backup.Event(ctx, id)
	}
	return ev, err
}

func (f *Fallback) Sources(ctx context.Context) ([]Source, error) {
	sources, err := f.primary.Sources(ctx)
	if f.record("sources", err) {
		return f.backup.Sources(ctx)
	}
	return sources, err
}

func (f *Fallback) CreateEvent(ctx context.Context, ev Event) (Event, error) {
	return f.primary.CreateEvent(ctx, ev)
}

func (f *Fallback) AddSource(ctx context.Context, src NewSource) ([]Source, error) {
	return f.primary.AddSource(ctx, src)
}

func (f *Fallback) DeleteSource(ctx context.Context, id string) error {
	return f.primary.DeleteSource(ctx, id)
}

// New picks the provider for a data mode.
func New(mode, backend string, client *http.Client, logger *zap.Logger) Provider {
	if mode != ModeLive {
		return NewFixture()
	}
	return NewFallback(NewRemote(backend, client, logger), NewFixture(), logger)
}
