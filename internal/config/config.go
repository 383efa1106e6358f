// Package config handles loading and saving user configuration for
// Magic Train.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all user configuration.
type Config struct {
	// APIKey authenticates against the Gemini API. Usually supplied
	// through the GEMINI_API_KEY environment variable rather than the
	// config file.
	APIKey string `yaml:"api_key"`
	// Model overrides the default chat model.
	Model string `yaml:"model"`
	// SummaryThreshold is the exchanged-message count that triggers an
	// automatic conversation summary.
	SummaryThreshold int `yaml:"summary_threshold"`
	// LustResetOnSwitch zeroes lust when changing conversation partner.
	LustResetOnSwitch bool `yaml:"lust_reset_on_switch"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		SummaryThreshold:  8,
		LustResetOnSwitch: true,
	}
}

// Load reads config.yaml from dir, layering it over the defaults. A
// missing file is not an error. A .env file in the working directory
// and the GEMINI_API_KEY variable are consulted for the API key.
func Load(dir string) (*Config, error) {
	godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if cfg.SummaryThreshold <= 0 {
		cfg.SummaryThreshold = 8
	}
	return cfg, nil
}

// Save writes the configuration to config.yaml in dir.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), out, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// DatabasePath returns the save-database location inside dir.
func DatabasePath(dir string) string {
	return filepath.Join(dir, "magictrain.db")
}
