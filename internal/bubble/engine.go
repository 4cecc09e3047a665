package bubble

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Clock supplies the current time for gesture bookkeeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Engine owns the physics state for one mounted item set.
type Engine struct {
	params  Params
	items   []Item
	index   map[string]int
	bodies  map[string]*Body
	width   float64
	height  float64
	rng     *rand.Rand
	clock   Clock
	drag    dragState
	hovered string
	onClick func(Item)
	frame   int
}

func NewEngine(p Params) *Engine {
	return &Engine{
		params: p,
		index:  make(map[string]int),
		bodies: make(map[string]*Body),
		rng:    rand.New(rand.NewSource(p.Seed)),
		clock:  systemClock{},
	}
}

func (e *Engine) SetClock(c Clock)      { e.clock = c }
func (e *Engine) OnClick(fn func(Item)) { e.onClick = fn }
func (e *Engine) Params() Params        { return e.params }

// Mount discards all previous state and lays out items on a w×h canvas.
// Items with a duplicate id are skipped.
func (e *Engine) Mount(items []Item, w, h float64) {
	e.items = make([]Item, 0, len(items))
	e.index = make(map[string]int, len(items))
	for _, it := range items {
		if _, dup := e.index[it.ID]; dup {
			continue
		}
		e.index[it.ID] = len(e.items)
		e.items = append(e.items, it)
	}
	e.width, e.height = w, h
	e.bodies = Layout(e.items, w, h, e.params, e.rng)
	e.drag = dragState{}
	e.hovered = ""
	e.frame = 0
}

// Remount rebuilds with the current items on a new canvas size.
func (e *Engine) Remount(w, h float64) {
	e.Mount(e.items, w, h)
}

// SetParams replaces the parameters and rebuilds from scratch.
func (e *Engine) SetParams(p Params) {
	e.params = p
	e.rng = rand.New(rand.NewSource(p.Seed))
	e.Mount(e.items, e.width, e.height)
}

func (e *Engine) Len() int             { return len(e.bodies) }
func (e *Engine) Size() (w, h float64) { return e.width, e.height }
func (e *Engine) FrameIndex() int      { return e.frame }
func (e *Engine) Hovered() string      { return e.hovered }
func (e *Engine) Items() []Item        { return append([]Item(nil), e.items...) }

func (e *Engine) item(id string) (Item, bool) {
	i, ok := e.index[id]
	if !ok {
		return Item{}, false
	}
	return e.items[i], true
}

// Body returns a copy of the body for id.
func (e *Engine) Body(id string) (Body, bool) {
	b, ok := e.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Snapshot copies every body in item order.
func (e *Engine) Snapshot() Frame {
	f := Frame{Index: e.frame, Width: e.width, Height: e.height, Bodies: make([]Placed, 0, len(e.items))}
	for _, it := range e.items {
		if b, ok := e.bodies[it.ID]; ok {
			f.Bodies = append(f.Bodies, Placed{Item: it, Body: *b})
		}
	}
	return f
}

// At returns the topmost bubble containing (x, y). Later items are drawn
// above earlier ones.
func (e *Engine) At(x, y float64) (Item, bool) {
	p := r2.Vec{X: x, Y: y}
	for i := len(e.items) - 1; i >= 0; i-- {
		b, ok := e.bodies[e.items[i].ID]
		if !ok {
			continue
		}
		if r2.Norm(r2.Sub(p, b.Pos)) <= b.R {
			return e.items[i], true
		}
	}
	return Item{}, false
}
