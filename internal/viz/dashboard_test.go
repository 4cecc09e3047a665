package viz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/metra/internal/bubble"
	"github.com/san-kum/metra/internal/config"
	"github.com/san-kum/metra/internal/feed"
	"github.com/san-kum/metra/internal/search"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type testDashboard struct {
	*Dashboard
	copied []string
}

func newTestDashboard(t *testing.T, opts Options) *testDashboard {
	t.Helper()
	td := &testDashboard{}
	if opts.Provider == nil {
		opts.Provider = feed.NewFixture()
	}
	opts.Finder = search.NewStub(0)
	opts.Width, opts.Height = 800, 600
	opts.Clipboard = func(s string) error {
		td.copied = append(td.copied, s)
		return nil
	}
	td.Dashboard = New(opts)
	t.Cleanup(td.cancel)

	td.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	td.send(loadEvents(td.ctx, td.provider)())
	return td
}

func (td *testDashboard) send(msg tea.Msg) tea.Cmd {
	_, cmd := td.Update(msg)
	return cmd
}

func (td *testDashboard) press(keys ...string) {
	for _, k := range keys {
		td.send(keyMsg(k))
	}
}

func TestDashboardLoadsEvents(t *testing.T) {
	d := newTestDashboard(t, Options{})

	assert.Len(t, d.events, 6)
	assert.False(t, d.loading)
	assert.Equal(t, 6, d.bubbles.engine.Len())
	assert.Contains(t, d.View(), "Global Climate Accord Reached")
	assert.Contains(t, d.View(), "MOCK")
}

func TestDashboardLayoutToggle(t *testing.T) {
	d := newTestDashboard(t, Options{})

	d.press("tab")
	assert.Equal(t, viewBubble, d.view)
	assert.Equal(t, 1, d.bubbles.hub.Len())
	assert.Contains(t, d.View(), "PHYSICS")

	d.press("tab")
	assert.Equal(t, viewGrid, d.view)
	assert.Zero(t, d.bubbles.hub.Len())
}

func TestDashboardTickStepsOnlyInBubbleView(t *testing.T) {
	d := newTestDashboard(t, Options{})
	later := d.bubbles.mountedAt.Add(time.Minute)

	cmd := d.send(TickMsg(later))
	assert.NotNil(t, cmd)
	assert.Zero(t, d.bubbles.engine.FrameIndex())

	d.press("b")
	d.send(TickMsg(later))
	d.send(TickMsg(later))
	assert.Equal(t, 2, d.bubbles.engine.FrameIndex())
	assert.Len(t, d.bubbles.energy, 2)
}

func TestDashboardEntryDelayHoldsPhysics(t *testing.T) {
	d := newTestDashboard(t, Options{EntryDelay: time.Second})
	d.press("b")

	d.send(TickMsg(d.bubbles.mountedAt.Add(500 * time.Millisecond)))
	assert.Zero(t, d.bubbles.engine.FrameIndex())
	d.send(TickMsg(d.bubbles.mountedAt.Add(time.Second)))
	assert.Equal(t, 1, d.bubbles.engine.FrameIndex())
}

func bubbleCell(t *testing.T, d *testDashboard, id string) (int, int, string) {
	t.Helper()
	b, ok := d.bubbles.engine.Body(id)
	require.True(t, ok)
	col, row := int(b.Pos.X/cellPxW), int(b.Pos.Y/cellPxH)
	x, y := toCanvas(col, row)
	top, ok := d.bubbles.engine.At(x, y)
	require.True(t, ok)
	return col, row + headerLines, top.ID
}

func TestDashboardClickOpensDetail(t *testing.T) {
	d := newTestDashboard(t, Options{})
	d.press("b")
	col, row, want := bubbleCell(t, d, "4")

	d.send(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	cmd := d.send(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.NotNil(t, cmd)
	assert.Equal(t, viewDetail, d.view)
	assert.Equal(t, want, d.detail.id)
	assert.Zero(t, d.bubbles.hub.Len())

	d.press("esc")
	assert.Equal(t, viewBubble, d.view)
	assert.Equal(t, 1, d.bubbles.hub.Len())
}

func TestDashboardDragDoesNotOpenDetail(t *testing.T) {
	d := newTestDashboard(t, Options{})
	d.press("b")
	col, row, _ := bubbleCell(t, d, "2")

	d.send(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, bubble.PotentialDrag, d.bubbles.engine.DragPhase())
	d.send(tea.MouseMsg{X: col + 4, Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.Equal(t, bubble.Dragging, d.bubbles.engine.DragPhase())
	d.send(tea.MouseMsg{X: col + 4, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Equal(t, viewBubble, d.view)
	assert.Equal(t, bubble.Idle, d.bubbles.engine.DragPhase())
}

func TestDashboardHover(t *testing.T) {
	d := newTestDashboard(t, Options{})
	d.press("b")
	col, row, want := bubbleCell(t, d, "1")

	d.send(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.Equal(t, want, d.bubbles.engine.Hovered())

	d.send(tea.MouseMsg{X: 500, Y: 500, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.Empty(t, d.bubbles.engine.Hovered())
}

func TestDashboardDetailAndFindSources(t *testing.T) {
	d := newTestDashboard(t, Options{})

	d.press("enter")
	require.Equal(t, viewDetail, d.view)
	assert.Contains(t, d.View(), "Loading event details")

	d.send(loadEvent(d.ctx, d.provider, "1")())
	require.NotNil(t, d.detail.event)
	assert.Contains(t, d.View(), "Find More Sources")

	d.press("f")
	assert.True(t, d.detail.searching)
	assert.Contains(t, d.View(), "Finding Sources...")

	d.send(findSources(d.ctx, d.guard, *d.detail.event)())
	assert.False(t, d.detail.searching)
	assert.Len(t, d.detail.event.Sources[feed.GroupReliability], 8)
	assert.Len(t, d.detail.event.Sources[feed.GroupEngagement], 2)
	assert.Equal(t, "found 7 more sources", d.status)
}

func TestDashboardCanceledSearchIsSilent(t *testing.T) {
	d := newTestDashboard(t, Options{})
	d.press("enter")
	d.send(loadEvent(d.ctx, d.provider, "1")())
	d.press("f")

	d.send(foundMsg{id: "1", err: search.ErrCanceled})
	assert.False(t, d.detail.searching)
	assert.Empty(t, d.status)

	d.send(foundMsg{id: "1", err: errors.New("boom")})
	assert.Equal(t, "Failed to find more sources", d.status)
}

func TestDashboardEventNotFound(t *testing.T) {
	d := newTestDashboard(t, Options{})
	d.openDetail("99")
	d.send(loadEvent(d.ctx, d.provider, "99")())

	assert.True(t, d.detail.notFound)
	assert.Contains(t, d.View(), "Event Not Found")
}

func TestDashboardSources(t *testing.T) {
	d := newTestDashboard(t, Options{})

	d.press("s")
	require.Equal(t, viewSources, d.view)
	d.send(loadSources(d.ctx, d.provider)())
	require.Len(t, d.sources.list, 8)
	assert.Contains(t, d.View(), "The New York Times")

	cmd := d.send(keyMsg("y"))
	require.NotNil(t, cmd)
	d.send(cmd())
	assert.Equal(t, []string{"nytimes.com"}, d.copied)
	assert.Equal(t, "copied nytimes.com", d.status)

	d.press("j", "d")
	assert.Equal(t, "src2", d.sources.confirm)
	assert.Contains(t, d.View(), deletePrompt)
	cmd = d.send(keyMsg("enter"))
	require.NotNil(t, cmd)
	d.send(cmd())
	assert.Len(t, d.sources.list, 7)
	assert.Equal(t, "Reuters", d.sources.list[1].Name)

	d.press("d", "n")
	assert.Empty(t, d.sources.confirm)
	assert.Len(t, d.sources.list, 7)
}

func TestDashboardAddSource(t *testing.T) {
	d := newTestDashboard(t, Options{})
	d.press("s")
	d.send(loadSources(d.ctx, d.provider)())

	d.press("a")
	require.True(t, d.sources.form.active)
	d.press("enter")
	assert.NotEmpty(t, d.sources.form.invalid)
	assert.True(t, d.sources.form.active)

	d.press("W", "i", "r", "e", "tab", "w", "i", "r", "e", ".", "e", "x")
	cmd := d.send(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.False(t, d.sources.form.active)

	d.send(cmd())
	require.Len(t, d.sources.list, 9)
	assert.Equal(t, "Wire", d.sources.list[0].Name)
	assert.Equal(t, "wire.ex", d.sources.list[0].URL)
	assert.Equal(t, feed.UserAddedCategory, d.sources.list[0].Category)
}

func TestDashboardModeToggleFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	dead := srv.URL
	srv.Close()

	d := newTestDashboard(t, Options{
		Providers: func(mode string) feed.Provider { return feed.New(mode, dead, nil, nil) },
	})

	cmd := d.send(keyMsg("m"))
	require.NotNil(t, cmd)
	assert.Equal(t, feed.ModeLive, d.provider.Mode())

	d.send(loadEvents(d.ctx, d.provider)())
	assert.Len(t, d.events, 6)
	assert.Equal(t, "backend unavailable, showing mock data", d.status)
	assert.Contains(t, d.View(), "LIVE")

	d.press("m")
	assert.Equal(t, feed.ModeMock, d.provider.Mode())
}

func TestDashboardModeFixed(t *testing.T) {
	d := newTestDashboard(t, Options{})
	assert.Nil(t, d.send(keyMsg("m")))
	assert.Equal(t, "data mode is fixed", d.status)
}

func TestDashboardConfigReload(t *testing.T) {
	d := newTestDashboard(t, Options{})

	cfg := config.DefaultConfig()
	cfg.Physics.Collision = "elastic"
	d.send(ConfigMsg{Config: cfg})
	assert.Equal(t, bubble.PolicyElastic, d.bubbles.engine.Params().Policy)
	assert.Equal(t, 6, d.bubbles.engine.Len())
	assert.Equal(t, "config reloaded", d.status)

	d.send(ConfigMsg{Err: errors.New("bad yaml")})
	assert.Equal(t, "config reload failed: bad yaml", d.status)
}

func TestDashboardQuit(t *testing.T) {
	d := newTestDashboard(t, Options{})
	cmd := d.send(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.ErrorIs(t, d.ctx.Err(), context.Canceled)
}

func TestFitParams(t *testing.T) {
	p := bubble.DefaultParams()
	small := fitParams(p, 400, 300, 800, 600)
	assert.Equal(t, 25.0, small.MinRadius)
	assert.Equal(t, 60.0, small.MaxRadius)

	big := fitParams(p, 1600, 1200, 800, 600)
	assert.Equal(t, p, big)
}
