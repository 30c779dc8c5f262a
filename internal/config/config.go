// Package config resolves console configuration from a YAML file overlaid by
// environment variables. The only required value is the GraphQL endpoint.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/attendly/attendly/internal/errors"
)

// Config holds the console configuration.
//
// DebugOTP controls whether the server's convenience `otp` field is shown in
// verification screens. It exists for test and staging environments only and
// never participates in any trust decision.
type Config struct {
	Endpoint  string `yaml:"endpoint" env:"ATTENDLY_ENDPOINT"`
	DebugOTP  bool   `yaml:"debug_otp" env:"ATTENDLY_DEBUG_OTP"`
	LogLevel  string `yaml:"log_level" env:"ATTENDLY_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"ATTENDLY_LOG_FORMAT"`
}

// DefaultPath returns the well-known config file location,
// e.g. ~/.config/attendly/config.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigInvalid, "cannot determine config directory", err)
	}
	return filepath.Join(dir, "attendly", "config.yaml"), nil
}

// Load reads the config file at path (missing file is fine) and overlays
// environment variables on top.
func Load(path string) (*Config, error) {
	cfg := &Config{
		LogLevel:  "info",
		LogFormat: "text",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file; env and defaults apply.
		case err != nil:
			return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot read config file", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot parse config file", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot parse environment", err)
	}

	return cfg, nil
}

// LoadFile reads only the config file at path, without the environment
// overlay. Used when editing the file so env values are not baked in.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return cfg, nil
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot parse config file", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New(errors.ErrCodeConfigEndpoint, "no GraphQL endpoint configured").
			WithSuggestion("Set ATTENDLY_ENDPOINT").
			WithSuggestion("Or add 'endpoint: https://...' to the config file")
	}
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return errors.New(errors.ErrCodeConfigEndpoint, "endpoint must be an http(s) URL")
	}
	return nil
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "cannot create config directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "cannot encode config", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "cannot write config file", err)
	}
	return nil
}
