package feed

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

var fixtureCreated = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func fixtureEvents() []Event {
	updated := time.Date(2024, 1, 15, 14, 20, 0, 0, time.UTC)
	ev := func(id, title, desc, category, color string, relevance, trending float64, sources int, keywords ...string) Event {
		return Event{
			ID: id, Title: title, Description: desc, Category: category, Color: color,
			RelevanceScore: relevance, TrendingScore: trending, Keywords: keywords,
			SourcesCount: sources, ClusterSize: sources,
			CreatedAt: fixtureCreated, UpdatedAt: updated,
		}
	}
	return []Event{
		ev("1", "Global Climate Accord Reached",
			"Leaders from around the world signed a landmark agreement to combat climate change.",
			"Environment", "#10b981", 9.2, 8.5, 15, "climate", "accord", "global"),
		ev("2", "New AI Breakthrough in Healthcare",
			"Researchers developed an AI model that can predict disease outbreaks with high accuracy.",
			"Technology", "#3b82f6", 9.5, 9.1, 22, "AI", "healthcare", "breakthrough"),
		ev("3", "Economic Stimulus Package Approved",
			"Government passes a new bill aimed at boosting the national economy.",
			"Economics", "#f59e0b", 8.8, 7.9, 18, "economy", "stimulus", "government"),
		ev("4", "Mars Rover Discovers Ancient Water Traces",
			"NASA's latest rover mission finds compelling evidence of past liquid water on Mars.",
			"Science", "#8b5cf6", 9.0, 8.2, 12, "Mars", "NASA", "space"),
		ev("5", "International Sports Tournament Kicks Off",
			"Athletes from various nations gather for the highly anticipated global sports event.",
			"Sports", "#f97316", 7.5, 7.0, 10, "sports", "tournament", "athletes"),
		ev("6", "New Policy on Digital Privacy Announced",
			"Governments worldwide are implementing stricter regulations to protect user data.",
			"Politics", "#ef4444", 8.7, 8.0, 14, "privacy", "digital", "policy"),
	}
}

// fixtureDetail is the long-form description shown for the first event.
const fixtureDetail = "Leaders from around the world have signed a landmark agreement to combat climate change, " +
	"setting ambitious targets for carbon reduction and renewable energy adoption."

func fixtureGroups() SourceGroups {
	return SourceGroups{
		GroupReliability: {
			{Name: "The New York Times", Score: 9.5, URL: "nytimes.com"},
			{Name: "BBC News", Score: 9.3, URL: "bbc.com"},
			{Name: "Reuters", Score: 9.7, URL: "reuters.com"},
			{Name: "Associated Press", Score: 9.6, URL: "ap.org"},
			{Name: "The Guardian", Score: 8.9, URL: "theguardian.com"},
		},
		GroupNeutrality: {
			{Name: "Reuters", Score: 9.8, URL: "reuters.com"},
			{Name: "Associated Press", Score: 9.5, URL: "ap.org"},
			{Name: "BBC News", Score: 9.2, URL: "bbc.com"},
			{Name: "The New York Times", Score: 8.7, URL: "nytimes.com"},
			{Name: "Bloomberg", Score: 8.4, URL: "bloomberg.com"},
		},
		GroupAccuracy: {
			{Name: "Nature", Score: 9.9, URL: "nature.com"},
			{Name: "Scientific American", Score: 9.7, URL: "scientificamerican.com"},
			{Name: "The New York Times", Score: 9.4, URL: "nytimes.com"},
			{Name: "BBC News", Score: 9.1, URL: "bbc.com"},
			{Name: "Reuters", Score: 8.9, URL: "reuters.com"},
		},
		GroupMetric: {
			{Name: "Example Source 1", Score: 8.5, URL: "example1.com"},
			{Name: "Example Source 2", Score: 7.8, URL: "example2.com"},
			{Name: "Example Source 3", Score: 8.2, URL: "example3.com"},
			{Name: "Example Source 4", Score: 7.9, URL: "example4.com"},
		},
	}
}

func fixtureSources() []Source {
	src := func(id, name, url string, cred, eng float64, title, category string, n int) Source {
		return Source{
			ID: id, Name: name, URL: url, CredibilityScore: cred, EngagementScore: eng,
			ArticleTitle: title, ArticleURL: url + "/article" + strconv.Itoa(n), Category: category,
		}
	}
	return []Source{
		src("src1", "The New York Times", "nytimes.com", 9.2, 8.7, "Breaking News: Global Summit Concludes", "Politics", 1),
		src("src2", "BBC News", "bbc.com", 9.5, 8.9, "Analysis: Economic Impact of New Policies", "Economics", 2),
		src("src3", "Reuters", "reuters.com", 9.8, 8.4, "Tech Giant Announces New AI Initiative", "Technology", 3),
		src("src4", "The Guardian", "theguardian.com", 8.9, 8.2, "Environmental Concerns Rise Amidst Climate Change", "Environment", 4),
		src("src5", "CNN", "cnn.com", 8.7, 9.1, "Political Tensions Escalate in Region", "Politics", 5),
		src("src6", "Associated Press", "ap.org", 9.6, 8.3, "International Trade Agreement Reached", "Economics", 6),
		src("src7", "Bloomberg", "bloomberg.com", 9.3, 8.8, "Market Analysis: Stock Prices Surge", "Economics", 7),
		src("src8", "Nature", "nature.com", 9.9, 7.8, "Breakthrough in Quantum Computing Research", "Science", 8),
	}
}

// User-added sources get these placeholder scores until the backend
// rates them.
const (
	UserAddedCategory    = "User Added"
	UserAddedTitle       = "User Added Source"
	userAddedCredibility = 7.5
	userAddedEngagement  = 6.8
)

// Fixture serves the built-in sample data from memory. It is safe for
// concurrent use.
type Fixture struct {
	mu      sync.RWMutex
	events  []Event
	sources []Source
	nextID  int
	now     func() time.Time
}

func NewFixture() *Fixture {
	events := fixtureEvents()
	for i := range events {
		events[i].Sources = fixtureGroups()
	}
	events[0].Description = fixtureDetail
	events[0].Keywords = append(events[0].Keywords, "environment")

	return &Fixture{
		events:  events,
		sources: fixtureSources(),
		nextID:  len(events) + 1,
		now:     time.Now,
	}
}

func (f *Fixture) Mode() string { return ModeMock }

func (f *Fixture) Events(ctx context.Context) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Event, len(f.events))
	for i, ev := range f.events {
		out[i] = cloneEvent(ev)
	}
	return out, nil
}

func (f *Fixture) Event(ctx context.Context, id string) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ev := range f.events {
		if ev.ID == id {
			return cloneEvent(ev), nil
		}
	}
	return Event{}, ErrNotFound
}

func (f *Fixture) CreateEvent(ctx context.Context, ev Event) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	if ev.Title == "" {
		return Event{}, &FieldError{Field: "title"}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	ev.ID = strconv.Itoa(f.nextID)
	f.nextID++
	now := f.now().UTC()
	ev.CreatedAt, ev.UpdatedAt = now, now
	if ev.Category == "" {
		ev.Category = "News"
	}
	f.events = append(f.events, cloneEvent(ev))
	return ev, nil
}

func (f *Fixture) Sources(ctx context.Context) ([]Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.sources), nil
}

// AddSource prepends a user source with placeholder scores.
func (f *Fixture) AddSource(ctx context.Context, in NewSource) ([]Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	title := in.Description
	if title == "" {
		title = UserAddedTitle
	}
	src := Source{
		ID:               "src-" + uuid.NewString(),
		Name:             in.Name,
		URL:              in.URL,
		CredibilityScore: userAddedCredibility,
		EngagementScore:  userAddedEngagement,
		ArticleTitle:     title,
		ArticleURL:       in.URL,
		Category:         UserAddedCategory,
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append([]Source{src}, f.sources...)
	return slices.Clone(f.sources), nil
}

func (f *Fixture) DeleteSource(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.sources, func(s Source) bool { return s.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	f.sources = slices.Delete(f.sources, i, i+1)
	return nil
}

func cloneEvent(ev Event) Event {
	ev.Keywords = slices.Clone(ev.Keywords)
	ev.Sources = ev.Sources.Clone()
	return ev
}
