// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/botz/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// CyclePeriod is the length of the actuation clock cycle in ticks.
const CyclePeriod = 200

// Config holds all simulation configuration parameters.
type Config struct {
	Arena       ArenaConfig       `yaml:"arena"`
	Environment EnvironmentConfig `yaml:"environment"`
	Walls       WallsConfig       `yaml:"walls"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Wind        WindConfig        `yaml:"wind"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ArenaConfig holds the playfield size. Walls sit Inset units inside the edges.
type ArenaConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Inset  float64 `yaml:"inset"`
}

// EnvironmentConfig holds the global forces. Presets may override these on load.
type EnvironmentConfig struct {
	Gravity      float64 `yaml:"gravity"`
	Atmosphere   float64 `yaml:"atmosphere"`    // velocity drag per tick, 0..1
	WallBounce   float64 `yaml:"wall_bounce"`   // fraction of normal velocity reflected
	WallFriction float64 `yaml:"wall_friction"` // fraction of tangential velocity lost (non-wheels)
	LeftWind     float64 `yaml:"left_wind"`
	Tension      float64 `yaml:"tension"`     // default tension for new links
	ClockSpeed   int32   `yaml:"clock_speed"` // may be negative
}

// WallsConfig enables collision planes.
type WallsConfig struct {
	Floor   bool `yaml:"floor"`
	Ceiling bool `yaml:"ceiling"`
	Left    bool `yaml:"left"`
	Right   bool `yaml:"right"`
}

// SimulationConfig holds run-mode settings.
type SimulationConfig struct {
	Preset         string `yaml:"preset"`
	AutoReverse    bool   `yaml:"auto_reverse"`
	ClockPause     bool   `yaml:"clock_pause"`
	StepsPerUpdate int    `yaml:"steps_per_update"`
}

// WindConfig holds optional gust parameters layered over left_wind.
type WindConfig struct {
	GustStrength float64 `yaml:"gust_strength"` // 0 = steady wind
	GustScale    float64 `yaml:"gust_scale"`    // noise frequency per tick
	Seed         int64   `yaml:"seed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	RightWall float64
	Ceiling   float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("arena size must be positive, got %dx%d", c.Arena.Width, c.Arena.Height)
	}
	if c.Environment.Atmosphere < 0 || c.Environment.Atmosphere > 1 {
		return fmt.Errorf("environment.atmosphere must be in [0, 1], got %g", c.Environment.Atmosphere)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.RightWall = float64(c.Arena.Width) - c.Arena.Inset
	c.Derived.Ceiling = float64(c.Arena.Height) - c.Arena.Inset

	if c.Simulation.StepsPerUpdate < 1 {
		c.Simulation.StepsPerUpdate = 1
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 600
	}
}

// Env converts the environment section to its runtime form.
func (c *Config) Env() components.Environment {
	e := c.Environment
	return components.Environment{
		Gravity:      e.Gravity,
		Atmosphere:   e.Atmosphere,
		WallBounce:   e.WallBounce,
		WallFriction: e.WallFriction,
		LeftWind:     e.LeftWind,
		Tension:      e.Tension,
		ClockSpeed:   e.ClockSpeed,
	}
}

// WallSet converts the walls section to its runtime form.
func (c *Config) WallSet() components.Walls {
	return components.Walls{
		Floor:   c.Walls.Floor,
		Ceiling: c.Walls.Ceiling,
		Left:    c.Walls.Left,
		Right:   c.Walls.Right,
	}
}

// Bounds returns the arena collision bounds.
func (c *Config) Bounds() components.Arena {
	return components.Arena{RightWall: c.Derived.RightWall, Ceiling: c.Derived.Ceiling}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
