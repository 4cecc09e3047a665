package metrics

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// DominantPeriod finds the strongest oscillation in a per-frame series,
// such as kinetic energy while the map settles. It returns the period in
// frames and its spectral magnitude, or zeros when the series is flat or
// shorter than four samples.
func DominantPeriod(series []float64) (period, magnitude float64) {
	n := len(series)
	if n < 4 {
		return 0, 0
	}

	mean := stat.Mean(series, nil)
	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	best := 0
	for k := 1; k <= n/2; k++ {
		if m := cmplx.Abs(spectrum[k]); m > magnitude {
			magnitude = m
			best = k
		}
	}
	if best == 0 || magnitude < 1e-12 {
		return 0, 0
	}
	return float64(n) / float64(best), magnitude
}
