package viz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/san-kum/metra/internal/feed"
	"github.com/san-kum/metra/internal/search"
)

type detailModel struct {
	id        string
	event     *feed.Event
	loading   bool
	err       error
	notFound  bool
	searching bool
	viewport  viewport.Model
	md        *glamour.TermRenderer
	mdWidth   int
}

func (d *Dashboard) openDetail(id string) tea.Cmd {
	if d.view != viewDetail {
		d.back = d.view
	}
	d.setView(viewDetail)
	d.detail = detailModel{id: id, loading: true, viewport: viewport.New(d.width, d.bodyHeight())}
	return tea.Batch(loadEvent(d.ctx, d.provider, id), d.spinner.Tick)
}

// closeDetail aborts any pending search and returns to the previous view.
func (d *Dashboard) closeDetail() {
	d.guard.Cancel()
	d.detail = detailModel{}
	d.setView(d.back)
}

func (d *Dashboard) applyEvent(msg eventMsg) {
	if msg.id != d.detail.id {
		return
	}
	d.detail.loading = false
	switch {
	case errors.Is(msg.err, feed.ErrNotFound):
		d.detail.notFound = true
	case msg.err != nil:
		d.detail.err = msg.err
	default:
		ev := msg.event
		d.detail.event = &ev
	}
	d.refreshDetail()
}

func (d *Dashboard) updateDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		d.closeDetail()
		return d, nil
	case "f":
		if d.detail.event == nil || d.detail.searching {
			return d, nil
		}
		d.detail.searching = true
		return d, tea.Batch(findSources(d.ctx, d.guard, *d.detail.event), d.spinner.Tick)
	case "c":
		d.guard.Cancel()
		return d, nil
	}
	var cmd tea.Cmd
	d.detail.viewport, cmd = d.detail.viewport.Update(msg)
	return d, cmd
}

func (d *Dashboard) applyFound(msg foundMsg) {
	if msg.id != d.detail.id {
		return
	}
	d.detail.searching = false
	switch {
	case msg.err == nil:
	case errors.Is(msg.err, search.ErrCanceled), errors.Is(msg.err, search.ErrBusy):
		return
	default:
		d.logger.Error("find more sources", zap.String("event", msg.id), zap.Error(msg.err))
		d.status = "Failed to find more sources"
		return
	}
	if d.detail.event == nil {
		return
	}
	n := 0
	for _, v := range msg.groups {
		n += len(v)
	}
	d.detail.event.MergeSources(msg.groups)
	d.status = fmt.Sprintf("found %d more sources", n)
	d.refreshDetail()
}

// refreshDetail re-renders the event into the viewport.
func (d *Dashboard) refreshDetail() {
	dm := &d.detail
	dm.viewport.Width, dm.viewport.Height = d.width, d.bodyHeight()
	if dm.event == nil {
		dm.viewport.SetContent("")
		return
	}
	dm.viewport.SetContent(d.renderMarkdown(eventMarkdown(*dm.event)) + "\n" + d.renderGroups(dm.event.Sources))
}

func (d *Dashboard) renderMarkdown(md string) string {
	width := max(d.width-4, 20)
	if d.detail.md == nil || d.detail.mdWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			d.logger.Debug("markdown renderer", zap.Error(err))
			return md
		}
		d.detail.md, d.detail.mdWidth = r, width
	}
	out, err := d.detail.md.Render(md)
	if err != nil {
		return md
	}
	return out
}

func eventMarkdown(ev feed.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ev.Title)
	if ev.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", ev.Description)
	}
	fmt.Fprintf(&b, "**Category:** %s · **Relevance:** %.1f · **Trending:** %.1f · **Sources:** %d\n",
		ev.Category, ev.RelevanceScore, ev.TrendingScore, ev.SourcesCount)
	if len(ev.Keywords) > 0 {
		fmt.Fprintf(&b, "\n`%s`\n", strings.Join(ev.Keywords, "` `"))
	}
	return b.String()
}

func (d *Dashboard) renderGroups(groups feed.SourceGroups) string {
	st := d.styles
	var b strings.Builder
	for _, key := range groups.Keys() {
		b.WriteString(st.title.Render(feed.GroupTitle(key)) + "\n")
		for _, src := range groups[key] {
			score := st.band(feed.DetailBand(src.Score)).Render(fmt.Sprintf("%4.1f", src.Score))
			b.WriteString("  " + score + "  " + st.value.Render(truncate(src.Name, 28)) + "  " + st.subtle.Render(src.URL) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (d *Dashboard) viewDetail() string {
	dm := &d.detail
	st := d.styles
	switch {
	case dm.loading:
		return d.spinner.View() + " Loading event details..."
	case dm.notFound:
		return st.panel.Render(st.title.Render("Event Not Found") + "\n\n" +
			st.subtle.Render(fmt.Sprintf("No event with id %q.", dm.id)) + "\n" +
			st.keyHint.Render("esc: back"))
	case dm.err != nil && dm.event == nil:
		return st.panel.Render(st.errText.Render("Error Loading Event") + "\n\n" + dm.err.Error() + "\n" +
			st.keyHint.Render("esc: back"))
	}

	action := st.keyHint.Render("f: Find More Sources")
	if dm.searching {
		action = d.spinner.View() + " Finding Sources..." + st.keyHint.Render("  c: cancel")
	}
	return dm.viewport.View() + "\n" + action
}
