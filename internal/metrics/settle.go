package metrics

import "github.com/san-kum/metra/internal/bubble"

// Settle records the first frame whose fastest bubble is slower than
// speed. Value is -1 until that happens.
type Settle struct {
	name  string
	speed float64
	frame int
}

func NewSettle(speed float64) *Settle {
	if speed <= 0 {
		speed = bubble.DefaultSettleSpeed
	}
	return &Settle{name: "settle_frame", speed: speed, frame: -1}
}

func (s *Settle) Name() string { return s.name }

func (s *Settle) Observe(f bubble.Frame) {
	if s.frame < 0 && bubble.MaxSpeed(f) < s.speed {
		s.frame = f.Index
	}
}

func (s *Settle) Value() float64 { return float64(s.frame) }

func (s *Settle) Reset() { s.frame = -1 }

// Standard returns the metrics recorded for every simulate run.
func Standard() []bubble.Metric {
	return []bubble.Metric{
		NewEnergy(),
		NewEnergyDecay(),
		NewOverlap(),
		NewContainment(1e-6),
		NewSettle(0),
	}
}
