package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for a simulation run
type Config struct {
	Width               int           `json:"width"`
	Height              int           `json:"height"`
	FrameRate           time.Duration `json:"frame_rate"`
	AutoRestart         bool          `json:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold"`
	MaxGenerations      int           `json:"max_generations"`
	InjectionCount      int           `json:"injection_count"`
	Fill                string        `json:"fill"`
	RandomDensity       float64       `json:"random_density"`
	Seed                int64         `json:"seed"`
	Rule                string        `json:"rule"`
	WorldFile           string        `json:"world_file"`
	SaveFile            string        `json:"save_file"`
	SaveFormat          string        `json:"save_format"`
	HalfSteps           bool          `json:"half_steps"`
	Display             bool          `json:"display"`
	Styled              bool          `json:"styled"`
	LogLevel            string        `json:"log_level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               60,
		Height:              30,
		FrameRate:           150 * time.Millisecond,
		AutoRestart:         true,
		StagnationThreshold: 5,
		MaxGenerations:      1000,
		InjectionCount:      3,
		Fill:                "random",
		RandomDensity:       0.5,
		Seed:                time.Now().UnixNano(),
		Rule:                "conway",
		SaveFormat:          "base64",
		Display:             true,
		Styled:              true,
		LogLevel:            "info",
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, config.Validate()
}

// Validate checks the settings that cannot be repaired by defaults
func (c Config) Validate() error {
	if c.WorldFile == "" && (c.Width <= 0 || c.Height <= 0) {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] world size %dx%d", c.Width, c.Height)
	}
	if c.FrameRate < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] negative frame rate %v", c.FrameRate)
	}
	if c.StagnationThreshold < 0 || c.MaxGenerations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] negative limits: stagnation=%d max_generations=%d",
			c.StagnationThreshold, c.MaxGenerations)
	}
	if !(c.RandomDensity >= 0 && c.RandomDensity <= 1) {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] random density %v outside [0, 1]", c.RandomDensity)
	}
	return nil
}
