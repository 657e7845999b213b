// Package config provides configuration loading and access for the sandbox.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all sandbox configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Display      DisplayConfig      `yaml:"display"`
	Scenarios    ScenariosConfig    `yaml:"scenarios"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds engine parameters and the three solver toggles.
type PhysicsConfig struct {
	Hz                 float64    `yaml:"hz"` // Steps per simulated second; time step is 1/hz
	Gravity            [2]float64 `yaml:"gravity"`
	Iterations         int        `yaml:"iterations"`
	WarmStarting       bool       `yaml:"warm_starting"`
	PositionCorrection bool       `yaml:"position_correction"`
	AccumulateImpulses bool       `yaml:"accumulate_impulses"`
}

// DisplayConfig holds the initial overlay settings.
type DisplayConfig struct {
	Scale       float64  `yaml:"scale"`       // Pixels per world unit
	TranslateX  float64  `yaml:"translate_x"` // Origin offset in pixels
	TranslateY  float64  `yaml:"translate_y"`
	MarkerColor [3]uint8 `yaml:"marker_color"`
}

// ScenariosConfig holds scenario selection and soft-joint tuning.
type ScenariosConfig struct {
	Default int             `yaml:"default"`
	Seed    int64           `yaml:"seed"` // 0 = time-based
	Bridge  SoftJointConfig `yaml:"bridge"`
	Chain   SoftJointConfig `yaml:"chain"`
}

// SoftJointConfig is a spring-damper specification for soft joints.
type SoftJointConfig struct {
	FrequencyHz  float64 `yaml:"frequency_hz"`
	DampingRatio float64 `yaml:"damping_ratio"`
}

// OrchestratorConfig holds orchestrator behaviour switches.
type OrchestratorConfig struct {
	Strict bool `yaml:"strict"` // Panic on contract violations instead of ignoring them
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int `yaml:"perf_collector_window"`
	PerfLogInterval     int `yaml:"perf_log_interval"` // Ticks between perf rows (0 = off)
	StatsWindow         int `yaml:"stats_window"`      // Ticks per stats window (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TimeStep    float64    // 1 / Physics.Hz
	Gravity     r2.Vec     // Physics.Gravity as a vector
	MarkerColor color.RGBA // Display.MarkerColor, opaque
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
		// Unmarshal into same struct - only overwrites fields present in file
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

// validate rejects values the engine cannot run with.
func (c *Config) validate() error {
	if c.Physics.Hz <= 0 {
		return fmt.Errorf("physics.hz must be positive, got %v", c.Physics.Hz)
	}
	if c.Physics.Iterations < 1 {
		return fmt.Errorf("physics.iterations must be at least 1, got %d", c.Physics.Iterations)
	}
	for name, sj := range map[string]SoftJointConfig{"bridge": c.Scenarios.Bridge, "chain": c.Scenarios.Chain} {
		if sj.FrequencyHz <= 0 || sj.DampingRatio < 0 {
			return fmt.Errorf("scenarios.%s: frequency must be positive and damping non-negative", name)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TimeStep = 1 / c.Physics.Hz
	c.Derived.Gravity = r2.Vec{X: c.Physics.Gravity[0], Y: c.Physics.Gravity[1]}
	c.Derived.MarkerColor = color.RGBA{
		R: c.Display.MarkerColor[0],
		G: c.Display.MarkerColor[1],
		B: c.Display.MarkerColor[2],
		A: 255,
	}
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
