package bubble

import (
	"slices"
	"sync"
)

// PointerKind identifies a pointer gesture event.
type PointerKind int

const (
	KindDown PointerKind = iota
	KindMove
	KindUp
	KindClick
	KindLeave
)

func (k PointerKind) String() string {
	switch k {
	case KindDown:
		return "down"
	case KindMove:
		return "move"
	case KindUp:
		return "up"
	case KindClick:
		return "click"
	case KindLeave:
		return "leave"
	}
	return "unknown"
}

// PointerEvent is a pointer position in canvas coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

// Dispatch routes one pointer event to the matching gesture method.
func (e *Engine) Dispatch(ev PointerEvent) {
	switch ev.Kind {
	case KindDown:
		e.PointerDown(ev.X, ev.Y)
	case KindMove:
		e.PointerMove(ev.X, ev.Y)
	case KindUp:
		e.PointerUp(ev.X, ev.Y)
	case KindClick:
		e.Click(ev.X, ev.Y)
	case KindLeave:
		e.Leave()
	}
}

// Pointers fans pointer events out to subscribers. It stands for the
// document-level listeners a canvas registers so that a drag keeps
// tracking after the pointer leaves the canvas.
type Pointers struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(PointerEvent)
}

func NewPointers() *Pointers {
	return &Pointers{listeners: make(map[int]func(PointerEvent))}
}

// Subscribe registers fn and returns the function that removes it.
// Calling the returned function more than once is harmless.
func (p *Pointers) Subscribe(fn func(PointerEvent)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.next
	p.next++
	p.listeners[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// Publish delivers ev to every current subscriber in registration order.
func (p *Pointers) Publish(ev PointerEvent) {
	p.mu.Lock()
	ids := make([]int, 0, len(p.listeners))
	for id := range p.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(PointerEvent), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, p.listeners[id])
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len reports the number of live subscriptions.
func (p *Pointers) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}
