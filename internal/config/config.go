// Package config loads kanban's user configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the configuration file looked up in the working directory.
	FileName = ".kanban.yaml"

	// EnvAPIURL overrides api_url when set.
	EnvAPIURL = "KANBAN_API_URL"

	// Default configuration values
	DefaultAPIURL        = "http://localhost:8080/api"
	DefaultUploadTimeout = 30 * time.Second
	DefaultColor         = ColorAuto
	DefaultServerAddr    = ":8080"
	DefaultDBPath        = "./data/app.db"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents user configuration from .kanban.yaml.
type Config struct {
	// APIURL is the root of the board API the CLI talks to.
	APIURL string `yaml:"api_url"`

	// UploadTimeout bounds project uploads. Zero disables the limit.
	UploadTimeout time.Duration `yaml:"upload_timeout"`

	// Color is one of auto, always or never.
	Color string `yaml:"color"`

	// Server configures `kanban serve`.
	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the reference server.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	DBPath         string `yaml:"db_path"`
	RequestLogging bool   `yaml:"request_logging"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		APIURL:        DefaultAPIURL,
		UploadTimeout: DefaultUploadTimeout,
		Color:         DefaultColor,
		Server: ServerConfig{
			Addr:   DefaultServerAddr,
			DBPath: DefaultDBPath,
		},
	}
}

// Path returns the path of the config file in dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads .kanban.yaml from dir if it exists, otherwise returns
// defaults. Partial files are merged with defaults, and the environment
// overrides both.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(dir))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	}

	if url := os.Getenv(EnvAPIURL); url != "" {
		cfg.APIURL = url
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if c.UploadTimeout < 0 {
		return fmt.Errorf("upload_timeout must not be negative")
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	return nil
}
