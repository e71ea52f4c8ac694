// Package config loads tool configuration from defaults, an optional YAML
// file, and environment variables, in that order of increasing precedence.
// A .env file in the working directory is honored so API tokens can stay
// out of shell history.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied before any file or environment override.
const (
	DefaultDirName        = ".eodhist"
	DefaultConfigFileName = "config.yaml"
	DefaultDataDirName    = "data"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultTimeoutSeconds = 30
	DefaultRateLimit      = 10
)

// Environment variable names recognized by ApplyEnv. EODHIST_API_TOKEN
// takes precedence over the shorter EOD_TOKEN fallback.
const (
	EnvAPIToken      = "EODHIST_API_TOKEN"
	EnvAPITokenAlt   = "EOD_TOKEN"
	EnvBasePath      = "EODHIST_BASE_PATH"
	EnvBaseURL       = "EODHIST_BASE_URL"
	EnvLogLevel      = "EODHIST_LOG_LEVEL"
	EnvLogFormat     = "EODHIST_LOG_FORMAT"
	EnvLogFile       = "EODHIST_LOG_FILE"
	EnvTimeoutSecs   = "EODHIST_TIMEOUT_SECONDS"
	EnvRateLimit     = "EODHIST_RATE_LIMIT"
)

// ErrMissingAPIToken is returned by Validate when no API token was
// configured through any source.
var ErrMissingAPIToken = errors.New("no API token configured (set " + EnvAPIToken + " or api_token in config)")

// HTTPConfig holds the API client transport settings.
type HTTPConfig struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
	// RateLimit caps outgoing requests per second.
	RateLimit int `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`
}

// LoggingConfig holds the logging settings.
type LoggingConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `yaml:"level,omitempty"  json:"level,omitempty"`
	// Format selects console or json output.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	// File, when set, duplicates log output into this file.
	File string `yaml:"file,omitempty"   json:"file,omitempty"`
}

// StaleDaysConfig overrides the per-dataset default staleness thresholds.
type StaleDaysConfig struct {
	// Listing applies to exchange lists, symbol lists and time series.
	Listing *int `yaml:"listing,omitempty"      json:"listing,omitempty"`
	// Fundamentals applies to fundamentals documents.
	Fundamentals *int `yaml:"fundamentals,omitempty" json:"fundamentals,omitempty"`
}

// Config is the full tool configuration.
type Config struct {
	// APIToken authenticates against the EOD API.
	APIToken string `yaml:"api_token,omitempty" json:"-"`
	// BasePath is the root directory of the snapshot cache.
	BasePath string `yaml:"base_path,omitempty" json:"base_path,omitempty"`

	HTTP      HTTPConfig      `yaml:"http,omitempty"       json:"http,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"    json:"logging,omitempty"`
	StaleDays StaleDaysConfig `yaml:"stale_days,omitempty" json:"stale_days,omitempty"`
}

// Default returns a Config populated with built-in defaults. The cache
// lives under ~/.eodhist/data unless overridden.
func Default() *Config {
	return &Config{
		BasePath: filepath.Join(homeDir(), DefaultDirName, DefaultDataDirName),
		HTTP: HTTPConfig{
			TimeoutSeconds: DefaultTimeoutSeconds,
			RateLimit:      DefaultRateLimit,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultConfigPath returns the path of the user-level config file,
// ~/.eodhist/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), DefaultDirName, DefaultConfigFileName)
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (the default location when path is empty; a missing file is fine),
// then environment variables. A .env file in the working directory is
// loaded into the environment first when present.
func Load(path string) (*Config, error) {
	// Missing .env is the common case, not an error.
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No user config file, defaults stand.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overlays recognized environment variables onto the config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.APIToken = v
	} else if v := os.Getenv(EnvAPITokenAlt); v != "" && c.APIToken == "" {
		c.APIToken = v
	}
	if v := os.Getenv(EnvBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.HTTP.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvTimeoutSecs); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.HTTP.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			c.HTTP.RateLimit = limit
		}
	}
}

// Validate checks that the settings required for API access are present.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return ErrMissingAPIToken
	}
	if c.BasePath == "" {
		return errors.New("base_path cannot be empty")
	}
	return nil
}

// homeDir returns the user home directory, falling back to the working
// directory when it cannot be determined.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
