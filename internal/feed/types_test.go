package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBands(t *testing.T) {
	tests := []struct {
		score  float64
		source Band
		detail Band
	}{
		{9.0, BandGood, BandGood},
		{8.5, BandGood, BandFair},
		{8.0, BandFair, BandFair},
		{7.0, BandFair, BandPoor},
		{6.0, BandPoor, BandPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.source, SourceBand(tt.score), "source band for %v", tt.score)
		assert.Equal(t, tt.detail, DetailBand(tt.score), "detail band for %v", tt.score)
	}
	assert.Equal(t, "good", BandGood.String())
}

func TestMergeSources(t *testing.T) {
	ev := Event{Sources: SourceGroups{
		GroupReliability: {{Name: "BBC News", Score: 9.3}},
	}}
	ev.MergeSources(SourceGroups{
		GroupReliability: {{Name: "Reuters", Score: 9.1}},
		GroupEngagement:  {{Name: "Reddit Discussion", Score: 7.8}},
	})

	require.Len(t, ev.Sources[GroupReliability], 2)
	assert.Equal(t, "Reuters", ev.Sources[GroupReliability][1].Name)
	assert.Len(t, ev.Sources[GroupEngagement], 1)

	var empty Event
	empty.MergeSources(SourceGroups{GroupMetric: {{Name: "Google Trends"}}})
	assert.Len(t, empty.Sources[GroupMetric], 1)
}

func TestGroupKeysAndTitles(t *testing.T) {
	g := SourceGroups{
		GroupMetric:      {{Name: "a"}},
		GroupReliability: {{Name: "b"}},
		GroupAccuracy:    nil,
	}
	assert.Equal(t, []string{GroupReliability, GroupMetric}, g.Keys())
	assert.Equal(t, "Reliability", GroupTitle(GroupReliability))
	assert.Equal(t, "Metric", GroupTitle(GroupMetric))
}

func TestItems(t *testing.T) {
	items := Items([]Event{{ID: "4", Title: "Mars", SourcesCount: 12, Category: "Science", Color: "#8b5cf6"}})
	require.Len(t, items, 1)
	assert.Equal(t, "4", items[0].ID)
	assert.Equal(t, 12.0, items[0].Value)
	assert.Equal(t, "#8b5cf6", items[0].Color)
}

func TestNewSourceValidate(t *testing.T) {
	assert.NoError(t, NewSource{Name: "Wire", URL: "wire.example"}.Validate())

	err := NewSource{URL: "wire.example"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidSource)
	assert.EqualError(t, err, "feed: name is required")
	assert.ErrorIs(t, NewSource{Name: "Wire"}.Validate(), ErrInvalidSource)
}
