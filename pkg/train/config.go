package train

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every knob of the training run. Zero-value fields in a
// config file fall back to the defaults.
type Config struct {
	Seed            int64   `yaml:"seed"`
	TestRatio       float64 `yaml:"test_ratio"`
	Trees           int     `yaml:"trees"`
	MaxDepth        int     `yaml:"max_depth"`
	MinSamplesSplit int     `yaml:"min_samples_split"`
	Scale           bool    `yaml:"scale"`
	ModelPath       string  `yaml:"model_path"`
	LogLevel        string  `yaml:"log_level"`
}

// DefaultConfig mirrors the canonical run: seed 42, 80/20 split, 100
// trees, artifact under app/.
func DefaultConfig() Config {
	return Config{
		Seed:            42,
		TestRatio:       0.2,
		Trees:           100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		Scale:           false,
		ModelPath:       "app/model.gob",
		LogLevel:        "info",
	}
}

// LoadConfig reads a yaml file over the defaults. An empty path returns
// the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("train: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("train: parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations no run can satisfy.
func (c Config) Validate() error {
	if c.Trees <= 0 {
		return fmt.Errorf("train: trees must be positive, got %d", c.Trees)
	}
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return fmt.Errorf("train: test_ratio must be in (0,1), got %v", c.TestRatio)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("train: model_path must not be empty")
	}
	return nil
}
