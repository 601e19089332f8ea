// Package config loads client configuration from an optional yaml file with
// environment-variable overrides on top. With neither present the defaults
// point at the local development backend.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	devBaseURL  = "http://localhost:5000/api"
	prodBaseURL = "https://alumni-7bn6.onrender.com/api"

	envProduction = "production"
)

type Config struct {
	// Environment selects the default BaseURL: "development" or "production".
	Environment string        `yaml:"environment"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	// StateDir holds the persisted token and identity snapshot. Empty means
	// the per-user default.
	StateDir string `yaml:"state_dir"`
}

// Load reads path if it exists, then applies env overrides and defaults.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to env + defaults
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.Environment = getenv("ALUMNI_ENV", cfg.Environment)
	cfg.BaseURL = getenv("ALUMNI_API_URL", cfg.BaseURL)
	cfg.StateDir = getenv("ALUMNI_STATE_DIR", cfg.StateDir)
	if v := os.Getenv("ALUMNI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse ALUMNI_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.BaseURL == "" {
		if cfg.Environment == envProduction {
			cfg.BaseURL = prodBaseURL
		} else {
			cfg.BaseURL = devBaseURL
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL, got %q", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
