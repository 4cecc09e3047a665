package bubble

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// DragPhase is the state of the pointer gesture machine.
type DragPhase int

const (
	Idle DragPhase = iota
	PotentialDrag
	Dragging
)

func (p DragPhase) String() string {
	switch p {
	case Idle:
		return "idle"
	case PotentialDrag:
		return "potential-drag"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

type dragState struct {
	phase       DragPhase
	id          string
	pressed     string
	start       r2.Vec
	bodyStart   r2.Vec
	offset      r2.Vec
	wasDragging bool
	releasedAt  time.Time
}

// held is the id exempt from physics, or "" when nothing is grabbed.
func (d *dragState) held() string {
	if d.phase == Idle {
		return ""
	}
	return d.id
}

// DragPhase reports the current gesture state.
func (e *Engine) DragPhase() DragPhase { return e.drag.phase }

// JustFinishedDragging is true between the release of a drag and the end
// of the release delay, so a trailing click can suppress itself.
func (e *Engine) JustFinishedDragging() bool {
	e.expireRelease()
	return e.drag.phase == Idle && e.drag.wasDragging
}

func (e *Engine) expireRelease() {
	d := &e.drag
	if d.wasDragging && d.phase == Idle && !d.releasedAt.IsZero() &&
		e.clock.Now().Sub(d.releasedAt) >= e.params.ReleaseClearDelay {
		d.wasDragging = false
	}
}

// PointerDown starts a potential drag on the topmost bubble under (x, y).
// It reports whether a bubble was hit.
func (e *Engine) PointerDown(x, y float64) bool {
	it, ok := e.At(x, y)
	if !ok {
		e.drag = dragState{}
		return false
	}
	b := e.bodies[it.ID]
	p := r2.Vec{X: x, Y: y}
	e.drag = dragState{
		phase:     PotentialDrag,
		id:        it.ID,
		pressed:   it.ID,
		start:     p,
		bodyStart: b.Pos,
		offset:    r2.Sub(p, b.Pos),
	}
	b.Vel = r2.Vec{}
	return true
}

// PointerMove advances a gesture once the pointer travels past the drag
// threshold; while dragging the bubble follows the pointer inside bounds.
func (e *Engine) PointerMove(x, y float64) {
	d := &e.drag
	if d.phase == Idle {
		e.Hover(x, y)
		return
	}
	p := r2.Vec{X: x, Y: y}
	if d.phase == PotentialDrag && r2.Norm(r2.Sub(p, d.start)) > e.params.DragThreshold {
		d.phase = Dragging
		d.wasDragging = true
	}
	if d.phase != Dragging {
		return
	}
	b := e.bodies[d.id]
	b.Pos = r2.Sub(p, d.offset)
	b.Vel = r2.Vec{}
	clampBody(b, e.width, e.height)
}

// PointerUp ends the gesture. A drag releases the bubble with a small
// random velocity scaled by how far it travelled.
func (e *Engine) PointerUp(x, y float64) {
	d := &e.drag
	if d.phase == Idle {
		return
	}
	b := e.bodies[d.id]
	if d.phase == Dragging {
		d.pressed = ""
	}
	if d.phase == Dragging && b != nil {
		dist := r2.Norm(r2.Sub(b.Pos, d.bodyStart))
		momentum := math.Min(dist/100, 1)
		b.Vel = r2.Vec{
			X: (e.rng.Float64() - 0.5) * 2 * momentum,
			Y: (e.rng.Float64() - 0.5) * 2 * momentum,
		}
	}
	d.phase = Idle
	d.id = ""
	d.releasedAt = e.clock.Now()
}

// Click fires the click callback for the bubble pressed in the current
// gesture, or the bubble under (x, y) when there was no press. It does
// nothing if the gesture turned into a drag.
func (e *Engine) Click(x, y float64) (Item, bool) {
	e.expireRelease()
	d := &e.drag
	if d.phase == Dragging || d.wasDragging {
		return Item{}, false
	}
	var (
		it Item
		ok bool
	)
	if d.pressed != "" {
		it, ok = e.item(d.pressed)
		d.pressed = ""
	} else {
		it, ok = e.At(x, y)
	}
	if !ok {
		return Item{}, false
	}
	if e.onClick != nil {
		e.onClick(it)
	}
	return it, true
}

// Hover grows the bubble under (x, y) and restores the previously hovered
// one.
func (e *Engine) Hover(x, y float64) {
	it, ok := e.At(x, y)
	id := ""
	if ok {
		id = it.ID
	}
	if id == e.hovered {
		return
	}
	if b, ok := e.bodies[e.hovered]; ok && b.OriginalR > 0 {
		b.R = b.OriginalR
	}
	e.hovered = id
	if b, ok := e.bodies[id]; ok {
		if b.OriginalR == 0 {
			b.OriginalR = b.R
		}
		b.R = b.OriginalR * e.params.HoverScale
		clampBody(b, e.width, e.height)
	}
}

// Leave restores the hovered bubble when the pointer exits the canvas.
func (e *Engine) Leave() {
	if b, ok := e.bodies[e.hovered]; ok && b.OriginalR > 0 {
		b.R = b.OriginalR
	}
	e.hovered = ""
}
