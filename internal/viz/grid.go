package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/metra/internal/feed"
)

const (
	gridColumns   = 3
	minCardWidth  = 28
	cardBodyLines = 3
)

// wideCard reports whether card i spans two columns.
func wideCard(i int) bool { return i == 3 || i == 6 }

type gridCell struct {
	index int
	span  int
}

// gridRows packs n cards into rows of cols columns. A wide card that
// does not fit in the current row starts the next one.
func gridRows(n, cols int) [][]gridCell {
	if cols < 1 {
		cols = 1
	}
	var rows [][]gridCell
	var row []gridCell
	used := 0
	for i := 0; i < n; i++ {
		span := 1
		if cols > 1 && wideCard(i) {
			span = 2
		}
		if used+span > cols {
			rows = append(rows, row)
			row, used = nil, 0
		}
		row = append(row, gridCell{index: i, span: span})
		used += span
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// gridColumnsFor picks the column count for a terminal width.
func gridColumnsFor(width int) int {
	if width >= gridColumns*minCardWidth {
		return gridColumns
	}
	return 1
}

// moveCursor steps the grid selection by (dx, dy) in reading order.
func moveCursor(cursor, n, cols, dx, dy int) int {
	if n == 0 {
		return 0
	}
	rows := gridRows(n, cols)
	r, c := 0, 0
	for ri, row := range rows {
		for ci, cell := range row {
			if cell.index == cursor {
				r, c = ri, ci
			}
		}
	}
	if dy != 0 {
		r = max(0, min(len(rows)-1, r+dy))
		c = min(c, len(rows[r])-1)
		return rows[r][c].index
	}
	return max(0, min(n-1, cursor+dx))
}

func (d *Dashboard) viewGrid(width int) string {
	if len(d.events) == 0 {
		return d.styles.subtle.Render("No events.")
	}
	cols := gridColumnsFor(width)
	unit := width / cols

	var lines []string
	for _, row := range gridRows(len(d.events), cols) {
		cards := make([]string, len(row))
		for i, cell := range row {
			cards[i] = d.card(d.events[cell.index], cell.index == d.cursor, unit*cell.span)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(lines, "\n")
}

func (d *Dashboard) card(ev feed.Event, selected bool, width int) string {
	style := d.styles.card
	if selected {
		style = d.styles.cardSel
	}
	inner := max(width-style.GetHorizontalFrameSize(), 4)

	title := d.styles.value.Bold(true).Render(truncate(ev.Title, inner))
	body := lipgloss.NewStyle().Width(inner).Height(cardBodyLines).MaxHeight(cardBodyLines).
		Foreground(d.styles.theme.Muted).Render(ev.Description)
	footer := d.styles.subtle.Render(truncate(
		fmt.Sprintf("%d sources · relevance %.1f · trending %.1f", ev.SourcesCount, ev.RelevanceScore, ev.TrendingScore), inner))

	content := lipgloss.JoinVertical(lipgloss.Left,
		d.styles.categoryHeader(ev.Category, ev.Color, inner),
		title,
		body,
		footer,
	)
	return style.Width(width - style.GetHorizontalBorderSize()).Render(content)
}
