package metrics

import (
	"math"
	"testing"
)

func TestDominantPeriod(t *testing.T) {
	series := make([]float64, 128)
	for i := range series {
		series[i] = 5 + math.Sin(2*math.Pi*float64(i)/16)
	}

	period, mag := DominantPeriod(series)
	if math.Abs(period-16) > 1e-9 {
		t.Errorf("expected period 16, got %v", period)
	}
	if mag <= 0 {
		t.Errorf("expected positive magnitude, got %v", mag)
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
	}{
		{"empty", nil},
		{"short", []float64{1, 2, 3}},
		{"constant", []float64{2, 2, 2, 2, 2, 2, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p, m := DominantPeriod(tt.series); p != 0 || m != 0 {
				t.Errorf("expected zeros, got %v, %v", p, m)
			}
		})
	}
}
