package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/metra/internal/feed"
)

// styles are derived from the active theme.
type styles struct {
	theme    Theme
	title    lipgloss.Style
	subtle   lipgloss.Style
	keyHint  lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	card     lipgloss.Style
	cardSel  lipgloss.Style
	panel    lipgloss.Style
	errText  lipgloss.Style
	warnText lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	graph    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		theme:    t,
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		subtle:   lipgloss.NewStyle().Foreground(t.Muted),
		keyHint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1),
		cardSel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Accent).Padding(0, 1),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 2),
		errText:  lipgloss.NewStyle().Foreground(t.Poor),
		warnText: lipgloss.NewStyle().Foreground(t.Fair),
		tab:      lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1),
		tabOn:    lipgloss.NewStyle().Bold(true).Foreground(t.Text).Background(t.Border).Padding(0, 1),
		graph:    lipgloss.NewStyle().Foreground(t.Primary),
	}
}

func (s styles) band(b feed.Band) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	switch b {
	case feed.BandGood:
		return st.Foreground(s.theme.Good)
	case feed.BandFair:
		return st.Foreground(s.theme.Fair)
	}
	return st.Foreground(s.theme.Poor)
}

// categoryHeader renders the colored strip at the top of a grid card.
func (s styles) categoryHeader(category, color string, width int) string {
	bg, err := colorful.Hex(color)
	if err != nil {
		bg, _ = colorful.Hex(string(s.theme.Primary))
	}
	fg := bg.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.8)
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Bold(true).
		Background(lipgloss.Color(bg.Hex())).
		Foreground(lipgloss.Color(fg.Hex())).
		Render(truncate(category, width))
}

// GradientText colors text from start to end, blending in Lab space.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	if errA != nil || errB != nil {
		return text
	}

	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return out.String()
}

// ProgressBar renders a filled bar for a fraction in [0, 1].
func (s styles) ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(width, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(s.theme.Primary).Render(bar)
}

// truncate shortens s to at most width cells, with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Separator draws a decorated horizontal rule.
func (s styles) Separator(width int) string {
	if width < 8 {
		return s.subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return s.subtle.Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1))
}
