package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/metra/internal/bubble"
	"github.com/san-kum/metra/internal/feed"
	"github.com/san-kum/metra/internal/logging"
	"github.com/san-kum/metra/internal/search"
)

type view int

const (
	viewGrid view = iota
	viewBubble
	viewSources
	viewDetail
)

func (v view) String() string {
	switch v {
	case viewGrid:
		return "Grid"
	case viewBubble:
		return "Bubble"
	case viewSources:
		return "Sources"
	case viewDetail:
		return "Event"
	}
	return "?"
}

const (
	headerLines = 2
	footerLines = 2
	statsWidth  = 34
)

type Options struct {
	Provider feed.Provider
	// Providers returns the provider for a data mode. The mock/live
	// toggle is disabled when nil.
	Providers  func(mode string) feed.Provider
	Finder     search.Finder
	Params     bubble.Params
	Width      float64
	Height     float64
	FrameRate  int
	EntryDelay time.Duration
	Theme      string
	Logger     *zap.Logger
	Clipboard  func(string) error
	Now        func() time.Time
}

// Dashboard is the terminal front end: a grid of event cards, the bubble
// map, the sources list and the event detail view.
type Dashboard struct {
	opts     Options
	ctx      context.Context
	cancel   context.CancelFunc
	provider feed.Provider
	guard    *search.Guard
	logger   *zap.Logger
	styles   styles
	now      func() time.Time
	spinner  spinner.Model

	view, back    view
	width, height int

	events  []feed.Event
	loading bool
	err     error
	cursor  int

	bubbles *bubbleMap
	sources sourcesModel
	detail  detailModel
	status  string
}

func New(opts Options) *Dashboard {
	if opts.Provider == nil {
		opts.Provider = feed.NewFixture()
	}
	if opts.Finder == nil {
		opts.Finder = search.NewStub(search.DefaultDelay)
	}
	if opts.Params == (bubble.Params{}) {
		opts.Params = bubble.DefaultParams()
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = bubble.DefaultFrameRate
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dashboard{
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		provider: opts.Provider,
		guard:    search.NewGuard(opts.Finder),
		logger:   logging.OrNop(opts.Logger).Named("viz"),
		styles:   newStyles(GetTheme(opts.Theme)),
		now:      opts.Now,
		spinner:  sp,
		width:    80,
		height:   24,
		loading:  true,
		bubbles:  newBubbleMap(opts.Params, opts.Width, opts.Height, opts.EntryDelay),
	}
	d.sources.form = newSourceForm()
	return d
}

func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(loadEvents(d.ctx, d.provider), tick(d.opts.FrameRate), d.spinner.Tick)
}

func (d *Dashboard) bodyHeight() int {
	return max(d.height-headerLines-footerLines, 1)
}

// canvasSize is the bubble canvas in cells, leaving room for the stats
// panel.
func (d *Dashboard) canvasSize() (int, int) {
	cols := d.width - statsWidth
	if cols < 20 {
		cols = d.width
	}
	return max(cols, 1), d.bodyHeight()
}

func (d *Dashboard) mountBubbles() {
	cols, rows := d.canvasSize()
	d.bubbles.mount(feed.Items(d.events), cols, rows, d.now())
}

func (d *Dashboard) setView(v view) {
	if v == viewBubble {
		d.bubbles.attach()
	} else {
		d.bubbles.detach()
	}
	d.view = v
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width, d.height = msg.Width, msg.Height
		d.mountBubbles()
		if d.view == viewDetail {
			d.refreshDetail()
		}
		return d, nil

	case tea.KeyMsg:
		return d.updateKey(msg)

	case tea.MouseMsg:
		if d.view != viewBubble {
			return d, nil
		}
		if id, ok := d.bubbles.mouse(msg, 0, headerLines); ok {
			return d, d.openDetail(id)
		}
		return d, nil

	case TickMsg:
		if d.view == viewBubble {
			d.bubbles.tick(time.Time(msg))
		}
		return d, tick(d.opts.FrameRate)

	case spinner.TickMsg:
		if !d.busy() {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case eventsMsg:
		d.loading = false
		d.err = msg.err
		if msg.err == nil {
			d.events = msg.events
			d.cursor = min(d.cursor, max(len(d.events)-1, 0))
			d.mountBubbles()
		}
		d.noteDegraded()
		return d, nil

	case sourcesMsg:
		d.sources.apply(msg)
		if msg.err != nil {
			d.logger.Warn("sources", zap.Error(msg.err))
		}
		d.noteDegraded()
		return d, nil

	case eventMsg:
		d.applyEvent(msg)
		return d, nil

	case foundMsg:
		d.applyFound(msg)
		return d, nil

	case statusMsg:
		d.status = string(msg)
		return d, nil

	case ConfigMsg:
		d.applyConfig(msg)
		return d, nil
	}
	return d, nil
}

func (d *Dashboard) busy() bool {
	return d.loading || d.sources.loading || d.detail.loading || d.detail.searching
}

func (d *Dashboard) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return d, d.quit()
	}
	switch d.view {
	case viewDetail:
		return d.updateDetailKey(msg)
	case viewSources:
		if d.sources.form.active || d.sources.confirm != "" {
			return d.updateSourcesKey(msg)
		}
	}

	switch msg.String() {
	case "q":
		return d, d.quit()
	case "g":
		d.setView(viewGrid)
		return d, nil
	case "b":
		d.setView(viewBubble)
		return d, nil
	case "tab":
		if d.view == viewGrid {
			d.setView(viewBubble)
		} else {
			d.setView(viewGrid)
		}
		return d, nil
	case "s":
		d.setView(viewSources)
		d.sources.loading = true
		return d, tea.Batch(loadSources(d.ctx, d.provider), d.spinner.Tick)
	case "esc":
		if d.view == viewSources {
			d.setView(viewGrid)
		}
		return d, nil
	case "m":
		return d, d.toggleMode()
	case "t":
		d.styles = newStyles(nextTheme(d.styles.theme))
		d.status = "theme: " + d.styles.theme.Name
		return d, nil
	case "r":
		return d, d.reload()
	}

	switch d.view {
	case viewGrid:
		return d.updateGridKey(msg)
	case viewBubble:
		if msg.String() == "enter" {
			if id := d.bubbles.engine.Hovered(); id != "" {
				return d, d.openDetail(id)
			}
		}
	case viewSources:
		return d.updateSourcesKey(msg)
	}
	return d, nil
}

func (d *Dashboard) updateGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := gridColumnsFor(d.width)
	switch msg.String() {
	case "left", "h":
		d.cursor = moveCursor(d.cursor, len(d.events), cols, -1, 0)
	case "right", "l":
		d.cursor = moveCursor(d.cursor, len(d.events), cols, 1, 0)
	case "up", "k":
		d.cursor = moveCursor(d.cursor, len(d.events), cols, 0, -1)
	case "down", "j":
		d.cursor = moveCursor(d.cursor, len(d.events), cols, 0, 1)
	case "enter":
		if d.cursor < len(d.events) {
			return d, d.openDetail(d.events[d.cursor].ID)
		}
	}
	return d, nil
}

func (d *Dashboard) quit() tea.Cmd {
	d.guard.Cancel()
	d.bubbles.detach()
	d.cancel()
	return tea.Quit
}

func (d *Dashboard) reload() tea.Cmd {
	d.loading = true
	cmds := []tea.Cmd{loadEvents(d.ctx, d.provider), d.spinner.Tick}
	if d.view == viewSources {
		d.sources.loading = true
		cmds = append(cmds, loadSources(d.ctx, d.provider))
	}
	return tea.Batch(cmds...)
}

// toggleMode switches between fixture and backend data.
func (d *Dashboard) toggleMode() tea.Cmd {
	if d.opts.Providers == nil {
		d.status = "data mode is fixed"
		return nil
	}
	next := feed.ModeLive
	if d.provider.Mode() == feed.ModeLive {
		next = feed.ModeMock
	}
	d.provider = d.opts.Providers(next)
	d.status = next + " data"
	d.logger.Info("data mode", zap.String("mode", next))
	return d.reload()
}

func (d *Dashboard) noteDegraded() {
	fb, ok := d.provider.(interface{ Degraded() error })
	if !ok {
		return
	}
	if err := fb.Degraded(); err != nil {
		d.status = "backend unavailable, showing mock data"
	}
}

func (d *Dashboard) copy(text string) tea.Cmd {
	write := d.opts.Clipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return statusMsg("clipboard: " + err.Error())
		}
		return statusMsg("copied " + text)
	}
}

func (d *Dashboard) applyConfig(msg ConfigMsg) {
	if msg.Err != nil {
		d.logger.Warn("config reload", zap.Error(msg.Err))
		d.status = "config reload failed: " + msg.Err.Error()
		return
	}
	p, err := msg.Config.Params()
	if err != nil {
		d.status = "config reload failed: " + err.Error()
		return
	}
	d.opts.FrameRate = msg.Config.Canvas.FrameRate
	d.bubbles.entryDelay = msg.Config.Canvas.EntryDelay
	d.bubbles.refW, d.bubbles.refH = msg.Config.Canvas.Width, msg.Config.Canvas.Height
	d.bubbles.setParams(p, d.now())
	d.status = "config reloaded"
}

func (d *Dashboard) View() string {
	var body string
	switch d.view {
	case viewGrid:
		body = d.viewLoading(func() string { return d.viewGrid(d.width) })
	case viewBubble:
		body = d.viewLoading(func() string {
			return lipgloss.JoinHorizontal(lipgloss.Top,
				d.bubbles.view(d.now()),
				d.bubbles.stats(d.styles, statsWidth, d.now()))
		})
	case viewSources:
		body = d.viewSources(d.width)
	case viewDetail:
		body = d.viewDetail()
	}
	return d.header() + "\n" + body + "\n" + d.footer()
}

func (d *Dashboard) viewLoading(render func() string) string {
	switch {
	case d.loading && len(d.events) == 0:
		return d.spinner.View() + " Loading events..."
	case d.err != nil && len(d.events) == 0:
		return d.styles.errText.Render("Error: " + d.err.Error())
	}
	return render()
}

func (d *Dashboard) header() string {
	st := d.styles
	tabs := make([]string, 0, 4)
	for _, v := range []view{viewGrid, viewBubble, viewSources} {
		if v == d.view {
			tabs = append(tabs, st.tabOn.Render(v.String()))
		} else {
			tabs = append(tabs, st.tab.Render(v.String()))
		}
	}
	mode := strings.ToUpper(d.provider.Mode())
	line := GradientText("METRA", st.theme.Primary, st.theme.Accent) + "  " +
		strings.Join(tabs, "") + "  " + st.subtle.Render(mode)
	return line + "\n" + st.Separator(d.width)
}

func (d *Dashboard) footer() string {
	var hints string
	switch d.view {
	case viewGrid:
		hints = "←↑↓→ select  enter open  tab bubble  s sources  m mock/live  t theme  q quit"
	case viewBubble:
		hints = "drag bubbles  click open  tab grid  s sources  m mock/live  q quit"
	case viewSources:
		hints = "a add  d delete  y copy url  r reload  esc back  q quit"
	case viewDetail:
		hints = "f find sources  c cancel  ↑↓ scroll  esc back"
	}
	line := d.styles.keyHint.Render(truncate(hints, d.width))
	if d.status != "" {
		line = d.styles.warnText.Render(truncate(d.status, d.width)) + "\n" + line
	} else {
		line = "\n" + line
	}
	return line
}

// Run starts the dashboard with mouse tracking. Reloaded configurations
// arriving on configs are forwarded to the program.
func Run(ctx context.Context, d *Dashboard, configs <-chan ConfigMsg) error {
	p := tea.NewProgram(d, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case msg, ok := <-configs:
				if !ok {
					return
				}
				p.Send(msg)
			}
		}
	}()
	_, err := p.Run()
	d.cancel()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
