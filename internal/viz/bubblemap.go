package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/metra/internal/bubble"
)

// A terminal cell is treated as 8x16 pixels, which makes a braille dot
// 4x4 pixels square.
const (
	cellPxW  = 8
	cellPxH  = 16
	pxPerDot = 4

	energyHistory = 120
)

// bubbleMap renders the engine onto a braille canvas and feeds it mouse
// input through a pointer hub. It is owned by the dashboard's Update.
type bubbleMap struct {
	engine     *bubble.Engine
	hub        *bubble.Pointers
	unsub      func()
	base       bubble.Params
	refW, refH float64
	entry      bubble.Entry
	entryDelay time.Duration
	mountedAt  time.Time
	cols, rows int
	canvas     *Canvas
	energy     []float64
	pressed    bool
	clicked    string
}

func newBubbleMap(p bubble.Params, refW, refH float64, entryDelay time.Duration) *bubbleMap {
	m := &bubbleMap{
		engine:     bubble.NewEngine(p),
		hub:        bubble.NewPointers(),
		base:       p,
		refW:       refW,
		refH:       refH,
		entry:      bubble.DefaultEntry(),
		entryDelay: entryDelay,
		energy:     make([]float64, 0, energyHistory),
	}
	m.engine.OnClick(func(it bubble.Item) { m.clicked = it.ID })
	return m
}

// fitParams shrinks the radius range for canvases smaller than the
// reference size.
func fitParams(p bubble.Params, w, h, refW, refH float64) bubble.Params {
	if refW <= 0 || refH <= 0 {
		return p
	}
	s := math.Min(w/refW, h/refH)
	if s > 0 && s < 1 {
		p.MinRadius *= s
		p.MaxRadius *= s
	}
	return p
}

func (m *bubbleMap) mount(items []bubble.Item, cols, rows int, now time.Time) {
	cols, rows = max(cols, 1), max(rows, 1)
	w, h := float64(cols*cellPxW), float64(rows*cellPxH)
	m.engine.SetParams(fitParams(m.base, w, h, m.refW, m.refH))
	m.engine.Mount(items, w, h)
	m.cols, m.rows = cols, rows
	m.canvas = NewCanvas(cols, rows)
	m.mountedAt = now
	m.energy = m.energy[:0]
	m.pressed = false
	m.clicked = ""
}

func (m *bubbleMap) setParams(p bubble.Params, now time.Time) {
	m.base = p
	if m.canvas != nil {
		m.mount(m.engine.Items(), m.cols, m.rows, now)
	}
}

// attach subscribes the engine to the pointer hub; detach undoes it.
func (m *bubbleMap) attach() {
	if m.unsub == nil {
		m.unsub = m.hub.Subscribe(m.engine.Dispatch)
	}
}

func (m *bubbleMap) detach() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.pressed = false
}

func (m *bubbleMap) attached() bool { return m.unsub != nil }

// tick advances physics once the entry delay has passed.
func (m *bubbleMap) tick(now time.Time) {
	if m.canvas == nil || now.Sub(m.mountedAt) < m.entryDelay {
		return
	}
	m.engine.Step()
	m.energy = append(m.energy, bubble.KineticEnergy(m.engine.Snapshot()))
	if len(m.energy) > energyHistory {
		m.energy = append(m.energy[:0], m.energy[len(m.energy)-energyHistory:]...)
	}
}

// toCanvas maps a terminal cell to canvas pixels at the cell center.
func toCanvas(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * cellPxW, (float64(row) + 0.5) * cellPxH
}

// mouse publishes a terminal mouse event as pointer events. left and top
// are the screen position of the canvas. It returns the id of a clicked
// bubble.
func (m *bubbleMap) mouse(msg tea.MouseMsg, left, top int) (string, bool) {
	col, row := msg.X-left, msg.Y-top
	inside := col >= 0 && row >= 0 && col < m.cols && row < m.rows
	x, y := toCanvas(col, row)
	publish := func(k bubble.PointerKind) {
		m.hub.Publish(bubble.PointerEvent{Kind: k, X: x, Y: y})
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return "", false
		}
		m.pressed = true
		publish(bubble.KindDown)
	case tea.MouseActionMotion:
		if !inside && !m.pressed {
			publish(bubble.KindLeave)
			break
		}
		publish(bubble.KindMove)
	case tea.MouseActionRelease:
		if !m.pressed {
			return "", false
		}
		m.pressed = false
		publish(bubble.KindUp)
		if inside {
			publish(bubble.KindClick)
		}
	}

	if m.clicked == "" {
		return "", false
	}
	id := m.clicked
	m.clicked = ""
	return id, true
}

func (m *bubbleMap) view(now time.Time) string {
	if m.canvas == nil {
		return ""
	}
	m.canvas.Clear()
	elapsed := now.Sub(m.mountedAt)
	grow := m.entry.RadiusFactor(elapsed)
	hovered := m.engine.Hovered()
	frame := m.engine.Snapshot()

	for _, p := range frame.Bodies {
		cx, cy := int(p.Body.Pos.X/pxPerDot), int(p.Body.Pos.Y/pxPerDot)
		r := int(math.Round(p.Body.R * grow / pxPerDot))
		m.canvas.DrawCircle(cx, cy, r, p.Item.Color)
		if p.Item.ID == hovered {
			m.canvas.DrawCircle(cx, cy, r-1, p.Item.Color)
		}
	}
	for _, p := range frame.Bodies {
		m.label(p, grow, elapsed)
	}
	return m.canvas.Render()
}

func (m *bubbleMap) label(p bubble.Placed, grow float64, elapsed time.Duration) {
	r := p.Body.R * grow
	perLine := int(2 * r * 0.8 / cellPxW)
	maxLines := int(2 * r * 0.6 / cellPxH)
	if perLine < 3 || maxLines < 1 {
		return
	}
	lines := bubble.WrapLabel(p.Item.Title, perLine)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncate(lines[maxLines-1]+"…", perLine)
	}

	col := int(p.Body.Pos.X / cellPxW)
	row := int(p.Body.Pos.Y/cellPxH) - len(lines)/2
	for i, line := range lines {
		if m.entry.LabelOpacity(elapsed, i) < 0.5 {
			continue
		}
		m.canvas.Text(col-runewidth.StringWidth(line)/2, row+i, line, p.Item.Color)
	}
}

// stats renders the side panel next to the canvas.
func (m *bubbleMap) stats(s styles, width int, now time.Time) string {
	var b strings.Builder
	b.WriteString(s.title.Render("PHYSICS") + "\n\n")

	if p := m.entry.Progress(now.Sub(m.mountedAt)); p < 1 {
		b.WriteString(s.label.Render("Entry") + s.ProgressBar(p, 12) + "\n")
	}
	b.WriteString(s.label.Render("Frame") + s.value.Render(fmt.Sprintf("%d", m.engine.FrameIndex())) + "\n")
	b.WriteString(s.label.Render("Bubbles") + s.value.Render(fmt.Sprintf("%d", m.engine.Len())) + "\n")
	b.WriteString(s.label.Render("Gesture") + s.value.Render(m.engine.DragPhase().String()) + "\n")
	b.WriteString(s.label.Render("Collision") + s.value.Render(m.engine.Params().Policy.String()) + "\n")

	energy := 0.0
	if n := len(m.energy); n > 0 {
		energy = m.energy[n-1]
	}
	b.WriteString(s.label.Render("Energy") + s.value.Render(fmt.Sprintf("%.3f", energy)) + "\n")
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy,
			asciigraph.Height(4),
			asciigraph.Width(max(width-12, 10)),
			asciigraph.Caption("kinetic energy"))
		b.WriteString("\n" + s.graph.Render(chart) + "\n")
	}

	if id := m.engine.Hovered(); id != "" {
		for _, it := range m.engine.Items() {
			if it.ID == id {
				b.WriteString("\n" + s.selected.Render(truncate(it.Title, width)) + "\n")
				b.WriteString(s.subtle.Render(fmt.Sprintf("%s · %.0f sources", it.Category, it.Value)) + "\n")
			}
		}
	}
	return b.String()
}
