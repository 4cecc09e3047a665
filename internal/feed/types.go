package feed

import (
	"strings"
	"time"

	"github.com/san-kum/metra/internal/bubble"
)

// Source group keys, in display order.
const (
	GroupReliability = "reliability_sources"
	GroupNeutrality  = "neutrality_sources"
	GroupAccuracy    = "accuracy_sources"
	GroupEngagement  = "engagement_sources"
	GroupMetric      = "metric_here_sources"
)

var GroupOrder = []string{GroupReliability, GroupNeutrality, GroupAccuracy, GroupEngagement, GroupMetric}

// GroupTitle turns "reliability_sources" into "Reliability".
func GroupTitle(key string) string {
	name := strings.TrimSuffix(key, "_sources")
	if name == "metric_here" {
		return "Metric"
	}
	if name == "" {
		return key
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

type SourceScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	URL   string  `json:"url"`
}

// SourceGroups maps a group key to its scored sources.
type SourceGroups map[string][]SourceScore

// Clone deep-copies the groups.
func (g SourceGroups) Clone() SourceGroups {
	if g == nil {
		return nil
	}
	out := make(SourceGroups, len(g))
	for k, v := range g {
		out[k] = append([]SourceScore(nil), v...)
	}
	return out
}

// Keys returns the non-empty group keys, known groups first in display
// order.
func (g SourceGroups) Keys() []string {
	keys := make([]string, 0, len(g))
	seen := make(map[string]bool, len(g))
	for _, k := range GroupOrder {
		if len(g[k]) > 0 {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	for k, v := range g {
		if !seen[k] && len(v) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

type Event struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Category       string       `json:"category"`
	Color          string       `json:"color"`
	RelevanceScore float64      `json:"relevance_score"`
	TrendingScore  float64      `json:"trending_score"`
	Keywords       []string     `json:"keywords"`
	SourcesCount   int          `json:"sources_count"`
	ClusterSize    int          `json:"cluster_size"`
	Sources        SourceGroups `json:"sources,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// MergeSources appends found groups onto the event's groups, key by key.
func (e *Event) MergeSources(found SourceGroups) {
	if len(found) == 0 {
		return
	}
	if e.Sources == nil {
		e.Sources = make(SourceGroups, len(found))
	}
	for k, v := range found {
		e.Sources[k] = append(e.Sources[k], v...)
	}
}

type Source struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	URL              string  `json:"url"`
	CredibilityScore float64 `json:"credibility_score"`
	EngagementScore  float64 `json:"engagement_score"`
	ArticleTitle     string  `json:"article_title"`
	ArticleURL       string  `json:"article_url"`
	Category         string  `json:"category"`
}

// NewSource is the add-source form.
type NewSource struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (n NewSource) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return &FieldError{Field: "name"}
	}
	if strings.TrimSpace(n.URL) == "" {
		return &FieldError{Field: "url"}
	}
	return nil
}

// Items converts events into bubble-map items sized by title and valued
// by source count.
func Items(events []Event) []bubble.Item {
	items := make([]bubble.Item, len(events))
	for i, ev := range events {
		items[i] = bubble.Item{
			ID:       ev.ID,
			Title:    ev.Title,
			Value:    float64(ev.SourcesCount),
			Category: ev.Category,
			Color:    ev.Color,
		}
	}
	return items
}

// Band is a qualitative score rating.
type Band int

const (
	BandPoor Band = iota
	BandFair
	BandGood
)

func (b Band) String() string {
	switch b {
	case BandGood:
		return "good"
	case BandFair:
		return "fair"
	default:
		return "poor"
	}
}

// SourceBand rates a score on the sources list.
func SourceBand(score float64) Band {
	switch {
	case score > 8:
		return BandGood
	case score > 6:
		return BandFair
	default:
		return BandPoor
	}
}

// DetailBand rates a score on the event detail view, which is stricter.
func DetailBand(score float64) Band {
	switch {
	case score > 8.5:
		return BandGood
	case score > 7:
		return BandFair
	default:
		return BandPoor
	}
}
