package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.001
	DefaultDuration = 5.0
	DefaultMethod   = "recursive"
)

// Config holds the run parameters of a simulation: which scene to load, how
// long to integrate, and which constrained-dynamics method to use.
type Config struct {
	Scene    string  `yaml:"scene"` // scene file path, empty for the builtin scene
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Method   string  `yaml:"method"` // recursive or lagrangian
	Validate bool    `yaml:"validate"`
	Output   string  `yaml:"output"` // CSV path, empty to skip
}

func DefaultConfig() *Config {
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Method:   DefaultMethod,
		Validate: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

func (c *Config) Check() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.Method != "recursive" && c.Method != "lagrangian" {
		return fmt.Errorf("method must be recursive or lagrangian, got %q", c.Method)
	}
	return nil
}
