// Package config provides configuration loading for dirwatcher.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor a flag sets a value.
const (
	DefaultExtension         = ".txt"
	DefaultInterval          = time.Second
	DefaultMissingDirBackoff = 2 * time.Second
	DefaultLogLevel          = "info"
)

// Config is the complete runtime configuration of a watcher. It is built
// once at startup and not modified afterwards.
type Config struct {
	// Directory is the directory to poll. Only its direct entries are watched.
	Directory string

	// Extension is the case-sensitive suffix a file name must end with to be tracked.
	Extension string

	// Interval is the pause between poll cycles.
	Interval time.Duration

	// MagicText is the substring searched for in tracked files.
	MagicText string

	// MissingDirBackoff is the extra pause after a cycle that found no directory.
	MissingDirBackoff time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// DBPath enables the SQLite findings journal when non-empty.
	DBPath string

	// Notify wakes the poller early on directory change events.
	Notify bool
}

// DefaultConfig returns a Config with the default option values. Directory
// and MagicText are left empty.
func DefaultConfig() *Config {
	return &Config{
		Extension:         DefaultExtension,
		Interval:          DefaultInterval,
		MissingDirBackoff: DefaultMissingDirBackoff,
		LogLevel:          DefaultLogLevel,
	}
}

// Dir returns the dirwatcher config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/dirwatcher if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "dirwatcher"), nil
}

// DefaultPath returns {Dir()}/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// fileConfig is the on-disk YAML shape. Durations are float seconds to match
// the --interval flag.
type fileConfig struct {
	Extension         *string  `yaml:"extension"`
	Interval          *float64 `yaml:"interval"`
	MissingDirBackoff *float64 `yaml:"missing_dir_backoff"`
	LogLevel          *string  `yaml:"log_level"`
	DBPath            *string  `yaml:"db_path"`
	Notify            *bool    `yaml:"notify"`
}

// LoadFile loads option defaults from the YAML file at path on top of
// DefaultConfig. A missing file is not an error; a malformed one is.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Extension != nil {
		cfg.Extension = *fc.Extension
	}
	if fc.Interval != nil {
		d, err := Seconds(*fc.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval in %s: %w", path, err)
		}
		cfg.Interval = d
	}
	if fc.MissingDirBackoff != nil {
		if *fc.MissingDirBackoff < 0 {
			return nil, fmt.Errorf("invalid missing_dir_backoff in %s: must not be negative", path)
		}
		cfg.MissingDirBackoff = time.Duration(*fc.MissingDirBackoff * float64(time.Second))
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*fc.LogLevel))
	}
	if fc.DBPath != nil {
		cfg.DBPath = *fc.DBPath
	}
	if fc.Notify != nil {
		cfg.Notify = *fc.Notify
	}

	return cfg, nil
}

// Seconds converts a positive, finite number of seconds into a Duration.
func Seconds(s float64) (time.Duration, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return 0, fmt.Errorf("interval must be a positive number of seconds, got %v", s)
	}
	d := time.Duration(s * float64(time.Second))
	if d <= 0 {
		return 0, fmt.Errorf("interval %v is too small", s)
	}
	return d, nil
}

// Validate checks the invariants the poller relies on.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return errors.New("directory must not be empty")
	}
	if c.MagicText == "" {
		return errors.New("magic text must not be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.MissingDirBackoff < 0 {
		return fmt.Errorf("missing directory backoff must not be negative, got %s", c.MissingDirBackoff)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
