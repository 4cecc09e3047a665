package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/metra/internal/bubble"
)

// Energy is the mean kinetic energy of the bubbles over a run.
type Energy struct {
	name    string
	samples []float64
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f bubble.Frame) {
	e.samples = append(e.samples, bubble.KineticEnergy(f))
}

func (e *Energy) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return stat.Mean(e.samples, nil)
}

// StdDev is the spread of the per-frame energy.
func (e *Energy) StdDev() float64 {
	if len(e.samples) < 2 {
		return 0
	}
	return stat.StdDev(e.samples, nil)
}

func (e *Energy) Reset() {
	e.samples = e.samples[:0]
}

// EnergyDecay is the ratio of the last observed kinetic energy to the
// first. Values near zero mean the map came to rest.
type EnergyDecay struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewEnergyDecay() *EnergyDecay {
	return &EnergyDecay{name: "energy_decay"}
}

func (e *EnergyDecay) Name() string { return e.name }

func (e *EnergyDecay) Observe(f bubble.Frame) {
	ke := bubble.KineticEnergy(f)
	if e.samples == 0 {
		e.initial = ke
	}
	e.current = ke
	e.samples++
}

func (e *EnergyDecay) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return math.Abs(e.current) / math.Abs(e.initial)
}

func (e *EnergyDecay) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}
