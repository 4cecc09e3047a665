package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/metra/internal/bubble"
)

func frameWith(index int, bodies ...bubble.Body) bubble.Frame {
	f := bubble.Frame{Index: index, Width: 200, Height: 200}
	for _, b := range bodies {
		f.Bodies = append(f.Bodies, bubble.Placed{Body: b})
	}
	return f
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()

	m.Observe(frameWith(1, bubble.Body{Vel: r2.Vec{X: 2}}))
	m.Observe(frameWith(2, bubble.Body{Vel: r2.Vec{X: 4}}))

	if got := m.Value(); math.Abs(got-5) > 1e-9 {
		t.Errorf("expected mean energy 5, got %f", got)
	}
	if m.StdDev() == 0 {
		t.Error("expected non-zero spread")
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()
	m.Observe(frameWith(1, bubble.Body{Vel: r2.Vec{X: 1, Y: 1}}))
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDecay(t *testing.T) {
	m := NewEnergyDecay()
	m.Observe(frameWith(1, bubble.Body{Vel: r2.Vec{X: 2}}))
	m.Observe(frameWith(2, bubble.Body{Vel: r2.Vec{X: 1}}))

	if got := m.Value(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("expected decay 0.25, got %f", got)
	}
}
