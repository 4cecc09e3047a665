package bubble

import (
	"math"
	"math/rand"
	"unicode/utf8"

	"gonum.org/v1/gonum/spatial/r2"
)

// RadiusScale maps label length onto [MinR, MaxR] with a square-root curve,
// so bubble area grows roughly linearly with text length.
type RadiusScale struct {
	MinLen, MaxLen int
	MinR, MaxR     float64
}

// NewRadiusScale fits the scale domain to the label lengths of items.
func NewRadiusScale(items []Item, minR, maxR float64) RadiusScale {
	s := RadiusScale{MinR: minR, MaxR: maxR}
	for i, it := range items {
		n := utf8.RuneCountInString(it.Title)
		if i == 0 || n < s.MinLen {
			s.MinLen = n
		}
		if i == 0 || n > s.MaxLen {
			s.MaxLen = n
		}
	}
	return s
}

// Radius returns the radius for a label. A collapsed domain yields the
// midpoint of the range.
func (s RadiusScale) Radius(title string) float64 {
	lo, hi := math.Sqrt(float64(s.MinLen)), math.Sqrt(float64(s.MaxLen))
	span := hi - lo
	if span <= 0 {
		return s.MinR + (s.MaxR-s.MinR)/2
	}
	t := (math.Sqrt(float64(utf8.RuneCountInString(title))) - lo) / span
	t = math.Max(0, math.Min(1, t))
	return s.MinR + t*(s.MaxR-s.MinR)
}

// Layout places items evenly on a ring of radius min(w,h)/3 around the
// canvas center with a small random velocity on each axis.
func Layout(items []Item, w, h float64, p Params, rng *rand.Rand) map[string]*Body {
	bodies := make(map[string]*Body, len(items))
	if len(items) == 0 || w <= 0 || h <= 0 {
		return bodies
	}

	scale := NewRadiusScale(items, p.MinRadius, p.MaxRadius)
	center := r2.Vec{X: w / 2, Y: h / 2}
	ring := math.Min(w, h) / 3
	n := float64(len(items))

	for i, it := range items {
		angle := float64(i) / n * 2 * math.Pi
		r := scale.Radius(it.Title)
		b := &Body{
			Pos: r2.Add(center, r2.Scale(ring, r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)})),
			Vel: r2.Vec{X: (rng.Float64() - 0.5) * 2, Y: (rng.Float64() - 0.5) * 2},
			R:   r,
		}
		b.OriginalR = r
		clampBody(b, w, h)
		bodies[it.ID] = b
	}
	return bodies
}

// clampBody keeps the whole circle inside the canvas. A circle wider than
// the canvas on an axis is pinned to the middle of that axis.
func clampBody(b *Body, w, h float64) bool {
	x, xHit := clampAxis(b.Pos.X, b.R, w)
	y, yHit := clampAxis(b.Pos.Y, b.R, h)
	b.Pos = r2.Vec{X: x, Y: y}
	return xHit || yHit
}

func clampAxis(v, r, size float64) (float64, bool) {
	if 2*r >= size {
		return size / 2, v != size/2
	}
	if v < r {
		return r, true
	}
	if v > size-r {
		return size - r, true
	}
	return v, false
}
