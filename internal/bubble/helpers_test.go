package bubble

import "time"

func headlineItems() []Item {
	return []Item{
		{ID: "1", Title: "Global Climate Accord Reached", Value: 3, Category: "Environment", Color: "#4CAF50"},
		{ID: "2", Title: "New AI Breakthrough in Healthcare", Value: 3, Category: "Technology", Color: "#2196F3"},
		{ID: "3", Title: "Economic Stimulus Package Approved", Value: 3, Category: "Economy", Color: "#FF9800"},
		{ID: "4", Title: "Mars Rover Discovers Ancient Water Traces", Value: 3, Category: "Science", Color: "#9C27B0"},
		{ID: "5", Title: "International Sports Tournament Kicks Off", Value: 3, Category: "Sports", Color: "#F44336"},
		{ID: "6", Title: "New Policy on Digital Privacy Announced", Value: 3, Category: "Politics", Color: "#607D8B"},
	}
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
