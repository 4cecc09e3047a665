package feed

import "context"

const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Provider is the data layer behind the dashboard, the sources list and
// the event detail view.
type Provider interface {
	Mode() string
	Events(ctx context.Context) ([]Event, error)
	Event(ctx context.Context, id string) (Event, error)
	CreateEvent(ctx context.Context, ev Event) (Event, error)
	Sources(ctx context.Context) ([]Source, error)
	// AddSource stores src and returns the refreshed source list.
	AddSource(ctx context.Context, src NewSource) ([]Source, error)
	DeleteSource(ctx context.Context, id string) error
}
