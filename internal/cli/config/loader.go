package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "cli.yaml")
}

// Load loads CLI configuration from file. A missing file yields the
// defaults; fields absent from the file keep their default values.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks field values.
func Validate(cfg *CLIConfig) error {
	if cfg.Addr == "" {
		return errors.New("addr must not be empty")
	}
	switch cfg.Output {
	case "raw", "json", "yaml":
	default:
		return fmt.Errorf("output must be raw, json or yaml, got %q", cfg.Output)
	}
	if cfg.DialTimeout <= 0 || cfg.Timeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if cfg.HistorySize < 0 {
		return errors.New("history_size must not be negative")
	}
	return nil
}

var setters = map[string]func(*CLIConfig, string) error{
	"addr": func(c *CLIConfig, v string) error {
		c.Addr = v
		return nil
	},
	"output": func(c *CLIConfig, v string) error {
		c.Output = v
		return nil
	},
	"dial_timeout": func(c *CLIConfig, v string) error {
		d, err := time.ParseDuration(v)
		c.DialTimeout = d
		return err
	},
	"timeout": func(c *CLIConfig, v string) error {
		d, err := time.ParseDuration(v)
		c.Timeout = d
		return err
	},
	"history_file": func(c *CLIConfig, v string) error {
		c.HistoryFile = v
		return nil
	},
	"history_size": func(c *CLIConfig, v string) error {
		n, err := strconv.Atoi(v)
		c.HistorySize = n
		return err
	},
}

// Keys returns the settable configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to key and validates the result. cfg is unchanged on
// error.
func Set(cfg *CLIConfig, key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}
	next := *cfg
	if err := set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := Validate(&next); err != nil {
		return err
	}
	*cfg = next
	return nil
}
