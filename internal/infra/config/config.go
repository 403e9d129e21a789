// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Binding names for UI affordances.
const (
	BindingWired = "wired" // UI event invokes the domain operation
	BindingInert = "inert" // UI event is registered but does nothing
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Playlist  PlaylistConfig  `yaml:"playlist"`
	Transport TransportConfig `yaml:"transport"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Bindings  BindingsConfig  `yaml:"bindings"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr         string      `yaml:"addr" default:":8080"`
	ControlToken string      `yaml:"control_token"`
	Hooks        HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// PlaylistConfig represents the playlist seed configuration.
type PlaylistConfig struct {
	// DefaultPath is a JSON catalog file. Empty means the embedded default.
	DefaultPath string `yaml:"default_path"`
}

// TransportConfig represents transport configuration.
type TransportConfig struct {
	// DurationSec is a pointer so an explicit 0 survives defaulting.
	DurationSec *int   `yaml:"duration_sec" default:"300" validate:"required,gte=0"`
	SeekStepSec int    `yaml:"seek_step_sec" default:"15" validate:"gte=1,lte=3600"`
	SeekMode    string `yaml:"seek_mode" default:"apply" validate:"oneof=apply diagnostic"`
}

const defaultDurationSec = 300

// Duration returns the configured duration.
func (t TransportConfig) Duration() time.Duration {
	if t.DurationSec == nil {
		return defaultDurationSec * time.Second
	}
	return time.Duration(*t.DurationSec) * time.Second
}

// SeekStep returns the configured seek step.
func (t TransportConfig) SeekStep() time.Duration {
	return time.Duration(t.SeekStepSec) * time.Second
}

// ThumbnailConfig represents thumbnail resolution configuration.
type ThumbnailConfig struct {
	Fallback string         `yaml:"fallback" default:"logo192.png" validate:"required"`
	Resolver ResolverConfig `yaml:"resolver"`
}

// ResolverConfig represents the thumbnail resolver configuration.
type ResolverConfig struct {
	Type     string         `yaml:"type" default:"static" validate:"oneof=static file"`
	Settings map[string]any `yaml:"settings"`
}

// BindingsConfig represents how UI affordances are bound to domain operations.
type BindingsConfig struct {
	RemoveButton string `yaml:"remove_button" default:"wired" validate:"oneof=wired inert"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.overrideFromEnv()
	if err := defaults.Set(&cfg); err != nil {
		panic(errors.Wrap(err, "failed to set defaults"))
	}
	return &cfg
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("PHASEBOX_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PHASEBOX_CONTROL_TOKEN"); v != "" {
		c.Server.ControlToken = v
	}
	if v := os.Getenv("PHASEBOX_DEFAULT_PLAYLIST"); v != "" {
		c.Playlist.DefaultPath = v
	}
}

// RemoveButtonWired reports whether the row remove button removes the item.
func (c *Config) RemoveButtonWired() bool {
	return c.Bindings.RemoveButton == BindingWired
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
