// Package config provides configuration loading and access for the renderer.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation and rendering parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Field       FieldConfig       `yaml:"field"`
	Particles   ParticlesConfig   `yaml:"particles"`
	Integration IntegrationConfig `yaml:"integration"`
	Sim         SimConfig         `yaml:"sim"`
	Render      RenderConfig      `yaml:"render"`
	Output      OutputConfig      `yaml:"output"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds the vector field's framing parameters.
type FieldConfig struct {
	Scale   float64 `yaml:"scale"`    // Units between the two nearest window edges
	CenterX float64 `yaml:"center_x"` // Complex-plane point at the window center
	CenterY float64 `yaml:"center_y"`
	Terms   int     `yaml:"terms"` // Series terms of the field function (exclusive upper bound)
}

// ParticlesConfig holds particle population and lifecycle parameters.
type ParticlesConfig struct {
	MaxLifetime float64 `yaml:"max_lifetime"` // Upper bound on lifetime draw, in frames
	FadeIn      float64 `yaml:"fade_in"`      // Sigmoid time constant for fade-in, in frames
	FadeOut     float64 `yaml:"fade_out"`     // Sigmoid time constant for fade-out, in frames
	Initial     int     `yaml:"initial"`      // Population at frame zero
	PerFrame    int     `yaml:"per_frame"`    // Newcomers injected each frame
	Size        float64 `yaml:"size"`         // Trail thickness in pixels
}

// IntegrationConfig holds curve-following parameters.
type IntegrationConfig struct {
	Epsilon  float64 `yaml:"epsilon"`  // Per-frame advance distance
	Substeps int     `yaml:"substeps"` // Sub-steps per frame; affects smoothness, not speed
}

// SimConfig holds scheduling parameters.
type SimConfig struct {
	Workers   int `yaml:"workers"`    // Worker goroutines; 0 = GOMAXPROCS
	BatchSize int `yaml:"batch_size"` // Particles per scheduler batch
}

// RenderConfig holds compositing parameters.
type RenderConfig struct {
	BloomThreshold float64 `yaml:"bloom_threshold"` // Brightness cutoff for the bloom extract pass
	TrailFade      float64 `yaml:"trail_fade"`      // Per-frame background alpha that decays old trails
	BackgroundR    float64 `yaml:"background_r"`
	BackgroundG    float64 `yaml:"background_g"`
	BackgroundB    float64 `yaml:"background_b"`
}

// OutputConfig holds frame-sink parameters.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	Save       bool   `yaml:"save"`
	LoopFrames int    `yaml:"loop_frames"` // 1 = infinite animation, >1 = seamless loop of this length
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Frames per stats window
	PerfWindow  int `yaml:"perf_window"`  // Frames averaged by the perf collector
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Workers         int     // Effective worker count
	DivergenceLimit float64 // 4 * Scale^2; squared-magnitude retirement bound
	SubstepAdvance  float64 // Epsilon / Substeps
	ScreenW32       float32
	ScreenH32       float32
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

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	workers := c.Sim.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	c.Derived.Workers = workers
	c.Derived.DivergenceLimit = 4 * c.Field.Scale * c.Field.Scale
	c.Derived.SubstepAdvance = c.Integration.Epsilon / float64(c.Integration.Substeps)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
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
