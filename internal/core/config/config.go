// Package config handles configuration loading and validation for promptshelf.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/promptshelf/internal/core/tagcolor"
)

// PaletteCustom selects the colors listed under tags.colors.
const PaletteCustom = "custom"

// Store backends.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config holds the application configuration.
type Config struct {
	Tags     TagsConfig     `yaml:"tags"`
	Locale   LocaleConfig   `yaml:"locale"`
	Relay    RelayConfig    `yaml:"relay"`
	Database DatabaseConfig `yaml:"database"`
	Store    StoreConfig    `yaml:"store"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// TagsConfig selects the tag color palette.
type TagsConfig struct {
	Palette string        `yaml:"palette"` // built-in scheme name or "custom"
	Colors  []ColorConfig `yaml:"colors"`  // palette order, used with "custom"
}

// ColorConfig is one custom palette entry.
type ColorConfig struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

// LocaleConfig selects display language.
type LocaleConfig struct {
	Name string `yaml:"name"` // BCP 47 tag; empty uses LC_ALL / LANG
	File string `yaml:"file"` // optional catalog merged over the defaults
}

// RelayConfig tunes capture delivery.
type RelayConfig struct {
	Attempts   int           `yaml:"attempts"`
	Delay      time.Duration `yaml:"delay"`
	MaxPending int           `yaml:"max_pending"`
}

// DatabaseConfig holds SQLite pool settings.
type DatabaseConfig struct {
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
}

// StoreConfig selects where prompts live.
type StoreConfig struct {
	Backend   string `yaml:"backend"`
	RemoteURL string `yaml:"remote_url"`
	APIKeyEnv string `yaml:"api_key_env"` // name of the env var holding the API key
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Tags: TagsConfig{Palette: tagcolor.DefaultScheme},
		Relay: RelayConfig{
			Attempts:   3,
			Delay:      250 * time.Millisecond,
			MaxPending: 100,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5 * time.Second,
		},
		Store: StoreConfig{
			Backend:   BackendLocal,
			APIKeyEnv: "PROMPTSHELF_API_KEY",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Tags.Palette == "" {
		c.Tags.Palette = defaults.Tags.Palette
	}
	if c.Relay.Attempts == 0 {
		c.Relay.Attempts = defaults.Relay.Attempts
	}
	if c.Relay.Delay == 0 {
		c.Relay.Delay = defaults.Relay.Delay
	}
	if c.Relay.MaxPending == 0 {
		c.Relay.MaxPending = defaults.Relay.MaxPending
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Store.Backend == "" {
		c.Store.Backend = defaults.Store.Backend
	}
	if c.Store.APIKeyEnv == "" {
		c.Store.APIKeyEnv = defaults.Store.APIKeyEnv
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Tags.Palette == PaletteCustom {
		if len(c.Tags.Colors) == 0 {
			return fmt.Errorf("tags.palette %q requires tags.colors", PaletteCustom)
		}
	} else {
		if _, ok := tagcolor.GetScheme(c.Tags.Palette); !ok {
			return fmt.Errorf("tags.palette %q is not one of %s, %s",
				c.Tags.Palette, strings.Join(tagcolor.SchemeNames(), ", "), PaletteCustom)
		}
		if len(c.Tags.Colors) > 0 {
			return fmt.Errorf("tags.colors requires tags.palette %q", PaletteCustom)
		}
	}

	if c.Relay.Attempts < 1 {
		return fmt.Errorf("relay.attempts must be at least 1")
	}
	if c.Relay.Delay < 0 {
		return fmt.Errorf("relay.delay cannot be negative")
	}
	if c.Relay.MaxPending < 0 {
		return fmt.Errorf("relay.max_pending cannot be negative")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	switch c.Store.Backend {
	case BackendLocal:
	case BackendRemote:
		if c.Store.RemoteURL == "" {
			return fmt.Errorf("store.remote_url is required for the %q backend", BackendRemote)
		}
	default:
		return fmt.Errorf("store.backend %q must be %q or %q", c.Store.Backend, BackendLocal, BackendRemote)
	}

	return nil
}

// Scheme returns the configured tag color scheme.
func (c *Config) Scheme() (tagcolor.Scheme, error) {
	if c.Tags.Palette != PaletteCustom {
		s, ok := tagcolor.GetScheme(c.Tags.Palette)
		if !ok {
			return tagcolor.Scheme{}, fmt.Errorf("unknown palette %q", c.Tags.Palette)
		}
		return s, nil
	}

	names := make([]string, len(c.Tags.Colors))
	hex := make(map[string]string, len(c.Tags.Colors))
	for i, col := range c.Tags.Colors {
		name := strings.TrimSpace(col.Name)
		names[i] = name
		hex[name] = col.Hex
	}
	return tagcolor.CustomScheme(PaletteCustom, names, hex)
}

// APIKey reads the remote API key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Store.APIKeyEnv)
}

// LocalePreferences returns the locales to try in order: the configured
// name, then LC_ALL, LC_MESSAGES and LANG with encoding suffixes removed.
func (c *Config) LocalePreferences() []string {
	if c.Locale.Name != "" {
		return []string{c.Locale.Name}
	}

	var out []string
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		v, _, _ = strings.Cut(v, ".")
		out = append(out, strings.ReplaceAll(v, "_", "-"))
	}
	return out
}
