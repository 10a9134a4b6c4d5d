// Package config loads connection settings from defaults, an optional config
// file and SURREALDB_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "SURREALDB"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	URL       string        `mapstructure:"url"`
	Namespace string        `mapstructure:"namespace"`
	Database  string        `mapstructure:"database"`
	Username  string        `mapstructure:"user"`
	Password  string        `mapstructure:"pass"`
	Timeout   time.Duration `mapstructure:"timeout"`
	LogLevel  string        `mapstructure:"log_level"`
	LogPath   string        `mapstructure:"log_path"`
}

var defaults = map[string]any{
	"url":       "ws://localhost:8000",
	"namespace": "test",
	"database":  "test",
	"user":      "",
	"pass":      "",
	"timeout":   "30s",
	"log_level": "info",
	"log_path":  "",
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg, err := load(viper.New(), "")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration. path names a YAML, TOML or JSON file and may
// be empty. Environment variables such as SURREALDB_URL or SURREALDB_LOG_LEVEL
// override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	return load(v, path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the endpoint and the namespace and database.
func (c *Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w: url: %v", ErrInvalidConfig, err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return fmt.Errorf("%w: url scheme must be ws, wss, http or https, got %q", ErrInvalidConfig, u.Scheme)
	}

	if c.Namespace == "" || c.Database == "" {
		return fmt.Errorf("%w: namespace and database are required", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// HasCredentials reports whether a user to sign in with is configured.
func (c *Config) HasCredentials() bool {
	return c.Username != ""
}
