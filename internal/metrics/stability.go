package metrics

import "github.com/san-kum/metra/internal/bubble"

// Containment is the fraction of frames in which every bubble lies inside
// the canvas.
type Containment struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f bubble.Frame) {
	c.samples++
	for _, p := range f.Bodies {
		b := p.Body
		if b.Pos.X < b.R-c.tolerance || b.Pos.X > f.Width-b.R+c.tolerance ||
			b.Pos.Y < b.R-c.tolerance || b.Pos.Y > f.Height-b.R+c.tolerance {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

// Violations is the number of frames with at least one escaped bubble.
func (c *Containment) Violations() int { return c.violations }

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Overlap tracks the deepest penetration seen in the last frame and over
// the whole run.
type Overlap struct {
	name  string
	last  float64
	worst float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "max_overlap"}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(f bubble.Frame) {
	o.last = bubble.MaxOverlap(f)
	if o.last > o.worst {
		o.worst = o.last
	}
}

// Value is the overlap in the most recent frame.
func (o *Overlap) Value() float64 { return o.last }

// Worst is the largest overlap over the run.
func (o *Overlap) Worst() float64 { return o.worst }

func (o *Overlap) Reset() {
	o.last = 0
	o.worst = 0
}
