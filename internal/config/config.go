package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/agenda-vta/internal/routes"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "AGENDAVTA_"

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".agendavta.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (AGENDAVTA_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: AGENDAVTA_PORT -> port, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[LogLevel]slog.Level{
	LogDebug: slog.LevelDebug,
	LogInfo:  slog.LevelInfo,
	LogWarn:  slog.LevelWarn,
	LogError: slog.LevelError,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Mode != routes.ModeStatic && c.Mode != routes.ModeBackend {
		return fmt.Errorf("invalid mode %q: must be static or backend", c.Mode)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.Mode == routes.ModeStatic {
		if c.SiteDir == "" {
			return fmt.Errorf("site_dir is required in static mode")
		}
		if c.PagesGlob == "" {
			return fmt.Errorf("pages_glob is required in static mode")
		}
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if _, err := parseDuration("login_delay", c.LoginDelay, true); err != nil {
		return err
	}
	if _, err := parseDuration("poll_interval", c.PollInterval, false); err != nil {
		return err
	}

	if c.LogLevel != "" {
		if _, ok := validLogLevels[c.LogLevel]; !ok {
			return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
		}
	}

	return nil
}

// LoginDelayDuration returns the pause between a successful login and the
// redirect to the dashboard.
func (c *Config) LoginDelayDuration() time.Duration {
	d, err := parseDuration("login_delay", c.LoginDelay, true)
	if err != nil {
		return 400 * time.Millisecond
	}
	return d
}

// PollIntervalDuration returns the dashboard refresh period.
func (c *Config) PollIntervalDuration() time.Duration {
	d, err := parseDuration("poll_interval", c.PollInterval, false)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if lvl, ok := validLogLevels[c.LogLevel]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// DatabasePath returns the SQLite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "agendavta.db")
}

// ResolvedStatsURL returns StatsURL, or the local statistics endpoint when
// it is unset.
func (c *Config) ResolvedStatsURL() string {
	if c.StatsURL != "" {
		return c.StatsURL
	}
	return fmt.Sprintf("http://127.0.0.1:%d/api/dashboard/stats", c.Port)
}

func parseDuration(key, v string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
