package viz

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/metra/internal/config"
	"github.com/san-kum/metra/internal/feed"
	"github.com/san-kum/metra/internal/search"
)

type TickMsg time.Time

type eventsMsg struct {
	events []feed.Event
	err    error
}

type sourcesMsg struct {
	sources []feed.Source
	err     error
}

type eventMsg struct {
	id    string
	event feed.Event
	err   error
}

type foundMsg struct {
	id     string
	groups feed.SourceGroups
	err    error
}

type statusMsg string

// ConfigMsg delivers a reloaded configuration to a running dashboard.
type ConfigMsg struct {
	Config *config.Config
	Err    error
}

func tick(rate int) tea.Cmd {
	if rate <= 0 {
		rate = 60
	}
	return tea.Tick(time.Second/time.Duration(rate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func loadEvents(ctx context.Context, p feed.Provider) tea.Cmd {
	return func() tea.Msg {
		events, err := p.Events(ctx)
		return eventsMsg{events: events, err: err}
	}
}

func loadSources(ctx context.Context, p feed.Provider) tea.Cmd {
	return func() tea.Msg {
		sources, err := p.Sources(ctx)
		return sourcesMsg{sources: sources, err: err}
	}
}

func addSource(ctx context.Context, p feed.Provider, in feed.NewSource) tea.Cmd {
	return func() tea.Msg {
		sources, err := p.AddSource(ctx, in)
		return sourcesMsg{sources: sources, err: err}
	}
}

// deleteSource removes id and reloads the list.
func deleteSource(ctx context.Context, p feed.Provider, id string) tea.Cmd {
	return func() tea.Msg {
		if err := p.DeleteSource(ctx, id); err != nil {
			return sourcesMsg{err: err}
		}
		sources, err := p.Sources(ctx)
		return sourcesMsg{sources: sources, err: err}
	}
}

func loadEvent(ctx context.Context, p feed.Provider, id string) tea.Cmd {
	return func() tea.Msg {
		ev, err := p.Event(ctx, id)
		return eventMsg{id: id, event: ev, err: err}
	}
}

func findSources(ctx context.Context, g *search.Guard, ev feed.Event) tea.Cmd {
	return func() tea.Msg {
		groups, err := g.Find(ctx, search.Request{Query: ev.Title, EventID: ev.ID})
		return foundMsg{id: ev.ID, groups: groups, err: err}
	}
}
