package bubble

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// coincident is the distance under which two centers are treated as equal.
const coincident = 1e-9

// Step advances the simulation by one frame. A dragged bubble is skipped
// but still acts as an immovable obstacle.
func (e *Engine) Step() {
	if len(e.items) == 0 || e.width <= 0 || e.height <= 0 {
		return
	}
	held := e.drag.held()
	center := r2.Vec{X: e.width / 2, Y: e.height / 2}

	for _, it := range e.items {
		if it.ID == held {
			continue
		}
		b := e.bodies[it.ID]
		e.gravitate(b, center)
		b.Vel = r2.Scale(e.params.Friction, b.Vel)
		e.limitSpeed(b)
		b.Pos = r2.Add(b.Pos, b.Vel)
		e.bounce(b)

		for _, other := range e.items {
			if other.ID == it.ID {
				continue
			}
			e.collide(b, e.bodies[other.ID], other.ID == held)
		}
	}

	for _, b := range e.bodies {
		clampBody(b, e.width, e.height)
	}
	e.frame++
}

func (e *Engine) gravitate(b *Body, center r2.Vec) {
	d := r2.Sub(center, b.Pos)
	dist := r2.Norm(d)
	if dist <= coincident {
		return
	}
	force := e.params.CenterGravity * (dist / 200)
	b.Vel = r2.Add(b.Vel, r2.Scale(force/dist, d))
}

func (e *Engine) limitSpeed(b *Body) {
	speed := r2.Norm(b.Vel)
	if speed > e.params.MaxVelocity {
		b.Vel = r2.Scale(e.params.MaxVelocity/speed, b.Vel)
	}
}

func (e *Engine) bounce(b *Body) {
	k := e.params.Bounce * (1 - e.params.Softening)
	if b.Pos.X-b.R < 0 || b.Pos.X+b.R > e.width {
		b.Vel.X = -b.Vel.X * k
	}
	if b.Pos.Y-b.R < 0 || b.Pos.Y+b.R > e.height {
		b.Vel.Y = -b.Vel.Y * k
	}
	clampBody(b, e.width, e.height)
}

// collide separates b and o along the line of centers when they overlap.
// A fixed obstacle absorbs none of the separation.
func (e *Engine) collide(b, o *Body, fixed bool) {
	d := r2.Sub(b.Pos, o.Pos)
	dist := r2.Norm(d)
	minDist := b.R + o.R
	if dist >= minDist {
		return
	}

	var n r2.Vec
	if dist <= coincident {
		n = r2.Vec{X: 1}
	} else {
		n = r2.Scale(1/dist, d)
	}
	overlap := minDist - dist

	if fixed {
		b.Pos = r2.Add(b.Pos, r2.Scale(overlap, n))
	} else {
		b.Pos = r2.Add(b.Pos, r2.Scale(overlap/2, n))
		o.Pos = r2.Sub(o.Pos, r2.Scale(overlap/2, n))
	}

	switch e.params.Policy {
	case PolicyElastic:
		elastic(b, o, n, fixed)
	default:
		b.Vel = r2.Vec{}
		if !fixed {
			o.Vel = r2.Vec{}
		}
	}
}

// elastic swaps the normal velocity components of two equal masses, or
// reflects b off a fixed obstacle. Separating pairs are left alone.
func elastic(b, o *Body, n r2.Vec, fixed bool) {
	if fixed {
		vn := r2.Dot(b.Vel, n)
		if vn < 0 {
			b.Vel = r2.Sub(b.Vel, r2.Scale(2*vn, n))
		}
		return
	}
	vn := r2.Dot(r2.Sub(b.Vel, o.Vel), n)
	if vn >= 0 {
		return
	}
	b.Vel = r2.Sub(b.Vel, r2.Scale(vn, n))
	o.Vel = r2.Add(o.Vel, r2.Scale(vn, n))
}

// KineticEnergy sums ½|v|² over all bubbles of a frame with unit mass.
func KineticEnergy(f Frame) float64 {
	total := 0.0
	for _, p := range f.Bodies {
		total += 0.5 * r2.Norm2(p.Body.Vel)
	}
	return total
}

// MaxSpeed is the largest speed in a frame.
func MaxSpeed(f Frame) float64 {
	m := 0.0
	for _, p := range f.Bodies {
		m = math.Max(m, p.Body.Speed())
	}
	return m
}

// MaxOverlap is the deepest pairwise penetration in a frame.
func MaxOverlap(f Frame) float64 {
	worst := 0.0
	for i := range f.Bodies {
		for j := i + 1; j < len(f.Bodies); j++ {
			a, b := f.Bodies[i].Body, f.Bodies[j].Body
			o := a.R + b.R - r2.Norm(r2.Sub(a.Pos, b.Pos))
			worst = math.Max(worst, o)
		}
	}
	return worst
}
