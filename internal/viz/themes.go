package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Good    lipgloss.Color
	Fair    lipgloss.Color
	Poor    lipgloss.Color
}

// Available themes
var (
	ThemeEmerald = Theme{
		Name:    "emerald",
		Primary: lipgloss.Color("#10b981"),
		Accent:  lipgloss.Color("#a3e635"),
		Text:    lipgloss.Color("#f8fafc"),
		Muted:   lipgloss.Color("#64748b"),
		Border:  lipgloss.Color("#065f46"),
		Good:    lipgloss.Color("#4ade80"),
		Fair:    lipgloss.Color("#facc15"),
		Poor:    lipgloss.Color("#f87171"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0ea5e9"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Border:  lipgloss.Color("#075985"),
		Good:    lipgloss.Color("#00ff88"),
		Fair:    lipgloss.Color("#ffcc00"),
		Poor:    lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Border:  lipgloss.Color("#444444"),
		Good:    lipgloss.Color("#00ff00"),
		Fair:    lipgloss.Color("#ffaa00"),
		Poor:    lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeEmerald, ThemeOcean, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to emerald.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeEmerald
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme cycles to the theme after t.
func nextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
