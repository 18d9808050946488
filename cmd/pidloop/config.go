package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ixian/pid"
)

// Plant kinds
const (
	PlantLag     = "lag"
	PlantHeading = "heading"
)

// Config represents the complete configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Controller ControllerConfig `yaml:"controller"`
	Loop       LoopConfig       `yaml:"loop"`
	Plant      PlantConfig      `yaml:"plant"`
}

// ServerConfig contains server-related settings
type ServerConfig struct {
	MetricsPort int    `yaml:"metrics_port"`
	LogLevel    string `yaml:"log_level"`
}

// ControllerConfig contains the PID gains, output bounds and input wrapping
type ControllerConfig struct {
	Label  string `yaml:"label"`
	Preset string `yaml:"preset"` // Starting gains, overridden by any gain set below

	Gains GainsConfig `yaml:",inline"`

	OutputMin float64 `yaml:"output_min"`
	OutputMax float64 `yaml:"output_max"` // Output is unclamped when both bounds are zero

	Continuous bool    `yaml:"continuous"`
	InputMin   float64 `yaml:"input_min"`
	InputMax   float64 `yaml:"input_max"`
}

// GainsConfig holds the gains as written in the file. A nil gain was left
// out and takes the preset's value, so an explicit 0 is kept.
type GainsConfig struct {
	Kp *float64 `yaml:"kp"`
	Ki *float64 `yaml:"ki"`
	Kd *float64 `yaml:"kd"`
}

// NewGainsConfig sets all three gains explicitly
func NewGainsConfig(g pid.Gains) GainsConfig {
	return GainsConfig{Kp: &g.Kp, Ki: &g.Ki, Kd: &g.Kd}
}

// applyPreset fills the gains that were left out
func (g *GainsConfig) applyPreset(preset pid.Gains) {
	if g.Kp == nil {
		g.Kp = &preset.Kp
	}
	if g.Ki == nil {
		g.Ki = &preset.Ki
	}
	if g.Kd == nil {
		g.Kd = &preset.Kd
	}
}

// Values returns the gains for the controller; any still unset are 0
func (g GainsConfig) Values() pid.Gains {
	var out pid.Gains
	if g.Kp != nil {
		out.Kp = *g.Kp
	}
	if g.Ki != nil {
		out.Ki = *g.Ki
	}
	if g.Kd != nil {
		out.Kd = *g.Kd
	}
	return out
}

// LoopConfig contains control loop timing and target
type LoopConfig struct {
	Setpoint float64       `yaml:"setpoint"`
	Interval time.Duration `yaml:"interval"` // Time between control cycles
	Steps    int           `yaml:"steps"`    // Number of cycles to run, 0 runs until interrupted
}

// PlantConfig describes the simulated process
type PlantConfig struct {
	Kind         string        `yaml:"kind"`          // "lag" or "heading"
	Gain         float64       `yaml:"gain"`          // Process gain per unit of output
	TimeConstant time.Duration `yaml:"time_constant"` // Lag plant only
	Initial      float64       `yaml:"initial"`       // Starting measured value
	Ambient      float64       `yaml:"ambient"`       // Lag plant resting value
}

// LoadConfig loads and parses the configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Set defaults for any missing values
	setDefaults(&config)

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for any missing configuration fields
func setDefaults(config *Config) {
	if config.Server.MetricsPort == 0 {
		config.Server.MetricsPort = 9090
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Plant.Kind == "" {
		config.Plant.Kind = PlantLag
	}
	if config.Plant.Gain == 0 {
		config.Plant.Gain = 1.0
	}
	if config.Plant.TimeConstant == 0 {
		config.Plant.TimeConstant = 5 * time.Second
	}
	if config.Loop.Interval == 0 {
		config.Loop.Interval = 100 * time.Millisecond
	}
	if config.Controller.Label == "" {
		config.Controller.Label = config.Plant.Kind
	}
	if config.Controller.Preset == "" {
		if config.Plant.Kind == PlantHeading {
			config.Controller.Preset = pid.PresetHeading.Name
		} else {
			config.Controller.Preset = pid.PresetThermal.Name
		}
	}
	if preset, ok := pid.LookupPreset(config.Controller.Preset); ok {
		config.Controller.Gains.applyPreset(preset.Gains)
	}
	if config.Plant.Kind == PlantHeading && !config.Controller.Continuous &&
		config.Controller.InputMin == 0 && config.Controller.InputMax == 0 {
		config.Controller.Continuous = true
		config.Controller.InputMin = -180
		config.Controller.InputMax = 180
	}
}

// Validate checks all configuration values for logical consistency
func (c *Config) Validate() error {
	// Controller validation
	if _, ok := pid.LookupPreset(c.Controller.Preset); !ok {
		return fmt.Errorf("preset must be one of: thermal, heading, velocity, got %s", c.Controller.Preset)
	}
	if c.Controller.OutputMin > c.Controller.OutputMax {
		return fmt.Errorf("output_min (%.3f) must not exceed output_max (%.3f)",
			c.Controller.OutputMin, c.Controller.OutputMax)
	}
	if c.Controller.Continuous && c.Controller.InputMin >= c.Controller.InputMax {
		return fmt.Errorf("input_min (%.3f) must be less than input_max (%.3f) with continuous input",
			c.Controller.InputMin, c.Controller.InputMax)
	}

	// Loop validation
	if c.Loop.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Loop.Interval)
	}
	if c.Loop.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Loop.Steps)
	}

	// Plant validation
	if c.Plant.Kind != PlantLag && c.Plant.Kind != PlantHeading {
		return fmt.Errorf("plant kind must be one of: lag, heading, got %s", c.Plant.Kind)
	}
	if c.Plant.Kind == PlantLag && c.Plant.TimeConstant <= c.Loop.Interval {
		return fmt.Errorf("time_constant (%v) must be longer than interval (%v)",
			c.Plant.TimeConstant, c.Loop.Interval)
	}

	// Server validation
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("metrics_port must be between 1-65535, got %d", c.Server.MetricsPort)
	}
	if _, err := parseLogLevel(c.Server.LogLevel); err != nil {
		return err
	}

	return nil
}

// NewController builds a controller from the config, reporting to sink
func (c ControllerConfig) NewController(sink pid.Sink) *pid.Controller {
	opts := []pid.Option{pid.WithLabel(c.Label), pid.WithSink(sink)}
	if c.OutputMin != 0 || c.OutputMax != 0 {
		opts = append(opts, pid.WithOutputRange(c.OutputMin, c.OutputMax))
	}
	if c.Continuous {
		opts = append(opts, pid.WithContinuousInput(c.InputMin, c.InputMax))
	}
	g := c.Gains.Values()
	return pid.New(g.Kp, g.Ki, g.Kd, opts...)
}
