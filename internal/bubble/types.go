package bubble

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Item is one record rendered as a bubble. The engine never mutates it.
type Item struct {
	ID       string  `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Value    float64 `json:"value" yaml:"value"`
	Category string  `json:"category" yaml:"category"`
	Color    string  `json:"color" yaml:"color"`
}

// Body is the engine-private simulation state of one bubble.
type Body struct {
	Pos       r2.Vec
	Vel       r2.Vec
	R         float64
	OriginalR float64
}

// Speed returns the magnitude of the body's velocity.
func (b Body) Speed() float64 { return r2.Norm(b.Vel) }

// Placed pairs an item with a copy of its body.
type Placed struct {
	Item Item
	Body Body
}

// Frame is a snapshot of every bubble after a step.
type Frame struct {
	Index  int
	Width  float64
	Height float64
	Bodies []Placed
}

// CollisionPolicy selects how velocities respond when two bubbles overlap.
type CollisionPolicy int

const (
	// PolicyAbsorb zeroes both velocities on contact.
	PolicyAbsorb CollisionPolicy = iota
	// PolicyElastic exchanges the normal velocity components of equal-mass bubbles.
	PolicyElastic
)

func (p CollisionPolicy) String() string {
	switch p {
	case PolicyAbsorb:
		return "absorb"
	case PolicyElastic:
		return "elastic"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy maps a policy name to a CollisionPolicy.
func ParsePolicy(name string) (CollisionPolicy, error) {
	switch name {
	case "", "absorb":
		return PolicyAbsorb, nil
	case "elastic":
		return PolicyElastic, nil
	}
	return PolicyAbsorb, fmt.Errorf("%w: unknown collision policy %q", ErrInvalidParams, name)
}

// Params tunes sizing, physics and interaction.
type Params struct {
	MinRadius         float64
	MaxRadius         float64
	CenterGravity     float64
	Friction          float64
	MaxVelocity       float64
	Bounce            float64
	Softening         float64
	DragThreshold     float64
	HoverScale        float64
	ReleaseClearDelay time.Duration
	Policy            CollisionPolicy
	Seed              int64
}

func DefaultParams() Params {
	return Params{
		MinRadius:         50,
		MaxRadius:         120,
		CenterGravity:     0.002,
		Friction:          0.98,
		MaxVelocity:       8,
		Bounce:            0.75,
		Softening:         0.1,
		DragThreshold:     5,
		HoverScale:        1.2,
		ReleaseClearDelay: 50 * time.Millisecond,
		Policy:            PolicyAbsorb,
		Seed:              1,
	}
}

// Validate reports the first parameter outside its valid range.
func (p Params) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"min_radius", p.MinRadius > 0},
		{"max_radius", p.MaxRadius >= p.MinRadius},
		{"center_gravity", p.CenterGravity >= 0},
		{"friction", p.Friction > 0 && p.Friction < 1},
		{"max_velocity", p.MaxVelocity > 0},
		{"bounce", p.Bounce >= 0 && p.Bounce <= 1},
		{"softening", p.Softening >= 0 && p.Softening < 1},
		{"drag_threshold", p.DragThreshold >= 0},
		{"hover_scale", p.HoverScale >= 1},
		{"release_clear_delay", p.ReleaseClearDelay >= 0},
	}
	for _, c := range checks {
		if !c.ok {
			return &ParamError{Name: c.name}
		}
	}
	if p.Policy != PolicyAbsorb && p.Policy != PolicyElastic {
		return &ParamError{Name: "policy"}
	}
	return nil
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
