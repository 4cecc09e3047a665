package bubble

import (
	"math"
	"time"
)

// Entry times the mount animation. It is independent of the physics loop
// and only scales what a renderer draws.
type Entry struct {
	Grow         time.Duration
	LabelDelay   time.Duration
	LabelStagger time.Duration
	LabelFade    time.Duration
}

func DefaultEntry() Entry {
	return Entry{
		Grow:         1200 * time.Millisecond,
		LabelDelay:   600 * time.Millisecond,
		LabelStagger: 100 * time.Millisecond,
		LabelFade:    800 * time.Millisecond,
	}
}

// Progress is the linear grow-in progress in [0, 1] at t after mount.
func (e Entry) Progress(t time.Duration) float64 {
	return ratio(t, e.Grow)
}

// RadiusFactor is the eased radius multiplier at t. It overshoots 1
// briefly before settling.
func (e Entry) RadiusFactor(t time.Duration) float64 {
	return backOut(e.Progress(t))
}

// LabelOpacity is the opacity of label line at t after mount.
func (e Entry) LabelOpacity(t time.Duration, line int) float64 {
	delay := e.LabelDelay + time.Duration(line)*e.LabelStagger
	return ratio(t-delay, e.LabelFade)
}

// Done reports whether every animation for a label of lines lines has
// finished at t.
func (e Entry) Done(t time.Duration, lines int) bool {
	if t < e.Grow {
		return false
	}
	if lines <= 0 {
		return true
	}
	return e.LabelOpacity(t, lines-1) >= 1
}

func ratio(t, total time.Duration) float64 {
	if total <= 0 {
		if t >= 0 {
			return 1
		}
		return 0
	}
	return math.Max(0, math.Min(1, float64(t)/float64(total)))
}

const backOvershoot = 1.70158

func backOut(t float64) float64 {
	t--
	return t*t*((backOvershoot+1)*t+backOvershoot) + 1
}
