// Package search finds additional sources for an event.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/san-kum/metra/internal/feed"
)

// DefaultDelay is how long the stub pretends to search.
const DefaultDelay = 2 * time.Second

type Request struct {
	Query   string `json:"query"`
	EventID string `json:"eventId,omitempty"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrMissingQuery
	}
	return nil
}

// Finder looks up more sources for a query.
type Finder interface {
	Find(ctx context.Context, req Request) (feed.SourceGroups, error)
}

// Stub waits Delay and then answers every query with the same sources.
type Stub struct {
	Delay time.Duration
}

func NewStub(delay time.Duration) *Stub {
	return &Stub{Delay: delay}
}

func (s *Stub) Find(ctx context.Context, req Request) (feed.SourceGroups, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return stubSources(), nil
}

func stubSources() feed.SourceGroups {
	return feed.SourceGroups{
		feed.GroupReliability: {
			{Name: "Reuters", Score: 9.1, URL: "reuters.com"},
			{Name: "Associated Press", Score: 9.0, URL: "ap.org"},
			{Name: "The Guardian", Score: 8.8, URL: "theguardian.com"},
		},
		feed.GroupEngagement: {
			{Name: "Twitter Trending", Score: 8.5, URL: "twitter.com"},
			{Name: "Reddit Discussion", Score: 7.8, URL: "reddit.com"},
		},
		feed.GroupMetric: {
			{Name: "Google Trends", Score: 8.2, URL: "trends.google.com"},
			{Name: "Semrush Analytics", Score: 7.9, URL: "semrush.com"},
		},
	}
}
