package config

import (
	"fmt"
	"sort"
	"time"
)

// Presets are named physics tunings. Fields left zero keep the current
// value when applied.
var Presets = map[string]PhysicsConfig{
	"calm": {
		CenterGravity: 0.001, Friction: 0.95, MaxVelocity: 4, Bounce: 0.5,
	},
	"lively": {
		CenterGravity: 0.004, Friction: 0.99, MaxVelocity: 12, Bounce: 0.9,
		ReleaseClearDelay: 80 * time.Millisecond,
	},
	"dense": {
		MinRadius: 30, MaxRadius: 70, CenterGravity: 0.006, Friction: 0.97,
	},
	"elastic": {
		Collision: "elastic", Friction: 0.985, Bounce: 0.85,
	},
}

func GetPreset(name string) *PhysicsConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset overlays the non-zero fields of a named preset onto cfg.
func ApplyPreset(cfg *Config, name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	dst := &cfg.Physics
	setFloat(&dst.MinRadius, p.MinRadius)
	setFloat(&dst.MaxRadius, p.MaxRadius)
	setFloat(&dst.CenterGravity, p.CenterGravity)
	setFloat(&dst.Friction, p.Friction)
	setFloat(&dst.MaxVelocity, p.MaxVelocity)
	setFloat(&dst.Bounce, p.Bounce)
	setFloat(&dst.Softening, p.Softening)
	setFloat(&dst.DragThreshold, p.DragThreshold)
	setFloat(&dst.HoverScale, p.HoverScale)
	if p.ReleaseClearDelay != 0 {
		dst.ReleaseClearDelay = p.ReleaseClearDelay
	}
	if p.Collision != "" {
		dst.Collision = p.Collision
	}
	if p.Seed != 0 {
		dst.Seed = p.Seed
	}
	return nil
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}
