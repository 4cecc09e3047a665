package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/metra/internal/bubble"
)

const (
	ModeMock = "mock"
	ModeLive = "live"

	DefaultBackend    = "http://127.0.0.1:8000"
	DefaultAddr       = "127.0.0.1:3000"
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	DefaultFrameRate  = 60
	DefaultEntryDelay = 1500 * time.Millisecond
	DefaultSearchWait = 2 * time.Second
)

type Config struct {
	Data    DataConfig    `yaml:"data" envPrefix:"DATA_"`
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
	Canvas  CanvasConfig  `yaml:"canvas" envPrefix:"CANVAS_"`
	Physics PhysicsConfig `yaml:"physics" envPrefix:"PHYSICS_"`
	Search  SearchConfig  `yaml:"search" envPrefix:"SEARCH_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	RunsDir string        `yaml:"runs_dir" env:"RUNS_DIR"`
}

// DataConfig selects fixture data or the backend service.
type DataConfig struct {
	Mode    string        `yaml:"mode" env:"MODE"`
	Backend string        `yaml:"backend" env:"BACKEND"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type CanvasConfig struct {
	Width      float64       `yaml:"width" env:"WIDTH"`
	Height     float64       `yaml:"height" env:"HEIGHT"`
	FrameRate  int           `yaml:"frame_rate" env:"FRAME_RATE"`
	EntryDelay time.Duration `yaml:"entry_delay" env:"ENTRY_DELAY"`
}

type PhysicsConfig struct {
	MinRadius         float64       `yaml:"min_radius" env:"MIN_RADIUS"`
	MaxRadius         float64       `yaml:"max_radius" env:"MAX_RADIUS"`
	CenterGravity     float64       `yaml:"center_gravity" env:"CENTER_GRAVITY"`
	Friction          float64       `yaml:"friction" env:"FRICTION"`
	MaxVelocity       float64       `yaml:"max_velocity" env:"MAX_VELOCITY"`
	Bounce            float64       `yaml:"bounce" env:"BOUNCE"`
	Softening         float64       `yaml:"softening" env:"SOFTENING"`
	DragThreshold     float64       `yaml:"drag_threshold" env:"DRAG_THRESHOLD"`
	HoverScale        float64       `yaml:"hover_scale" env:"HOVER_SCALE"`
	ReleaseClearDelay time.Duration `yaml:"release_clear_delay" env:"RELEASE_CLEAR_DELAY"`
	Collision         string        `yaml:"collision" env:"COLLISION"`
	Seed              int64         `yaml:"seed" env:"SEED"`
}

type SearchConfig struct {
	Delay  time.Duration `yaml:"delay" env:"DELAY"`
	Remote bool          `yaml:"remote" env:"REMOTE"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"LEVEL"`
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
	File        string `yaml:"file" env:"FILE"`
}

func DefaultConfig() *Config {
	p := bubble.DefaultParams()
	return &Config{
		Data: DataConfig{
			Mode:    ModeMock,
			Backend: DefaultBackend,
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Canvas: CanvasConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			FrameRate:  DefaultFrameRate,
			EntryDelay: DefaultEntryDelay,
		},
		Physics: physicsFromParams(p),
		Search: SearchConfig{
			Delay: DefaultSearchWait,
		},
		Log: LogConfig{
			Level: "info",
		},
		RunsDir: ".metra/runs",
	}
}

func physicsFromParams(p bubble.Params) PhysicsConfig {
	return PhysicsConfig{
		MinRadius:         p.MinRadius,
		MaxRadius:         p.MaxRadius,
		CenterGravity:     p.CenterGravity,
		Friction:          p.Friction,
		MaxVelocity:       p.MaxVelocity,
		Bounce:            p.Bounce,
		Softening:         p.Softening,
		DragThreshold:     p.DragThreshold,
		HoverScale:        p.HoverScale,
		ReleaseClearDelay: p.ReleaseClearDelay,
		Collision:         p.Policy.String(),
		Seed:              p.Seed,
	}
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve loads path, applies METRA_* environment overrides and validates
// the result.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Params converts the physics section into engine parameters.
func (c *Config) Params() (bubble.Params, error) {
	policy, err := bubble.ParsePolicy(c.Physics.Collision)
	if err != nil {
		return bubble.Params{}, err
	}
	p := bubble.Params{
		MinRadius:         c.Physics.MinRadius,
		MaxRadius:         c.Physics.MaxRadius,
		CenterGravity:     c.Physics.CenterGravity,
		Friction:          c.Physics.Friction,
		MaxVelocity:       c.Physics.MaxVelocity,
		Bounce:            c.Physics.Bounce,
		Softening:         c.Physics.Softening,
		DragThreshold:     c.Physics.DragThreshold,
		HoverScale:        c.Physics.HoverScale,
		ReleaseClearDelay: c.Physics.ReleaseClearDelay,
		Policy:            policy,
		Seed:              c.Physics.Seed,
	}
	return p, p.Validate()
}

// Live reports whether data should come from the backend service.
func (c *Config) Live() bool { return c.Data.Mode == ModeLive }

func (c *Config) Validate() error {
	switch c.Data.Mode {
	case ModeMock, ModeLive:
	default:
		return &FieldError{Field: "data.mode", Reason: fmt.Sprintf("unknown mode %q", c.Data.Mode)}
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return &FieldError{Field: "canvas", Reason: "width and height must be positive"}
	}
	if c.Canvas.FrameRate <= 0 {
		return &FieldError{Field: "canvas.frame_rate", Reason: "must be positive"}
	}
	if c.Search.Delay < 0 {
		return &FieldError{Field: "search.delay", Reason: "must not be negative"}
	}
	if _, err := c.Params(); err != nil {
		return &FieldError{Field: "physics", Reason: err.Error(), Err: err}
	}
	return nil
}
