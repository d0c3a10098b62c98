// Package config builds the single Config object every clambake command
// receives. Values resolve in three layers: compiled defaults, then the
// optional TOML file at $CLAMBAKE_HOME/config.toml, then CLAMBAKE_* environment
// variables. Nothing else in the program reads the environment directly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"clambake/pkg/protocol"
)

// envPrefix is the prefix for environment overrides (CLAMBAKE_DB_PATH, ...).
const envPrefix = "clambake"

// Config carries every tunable the CLI needs. Constructed once by Load and
// passed to the command constructors.
type Config struct {
	// Home is the state directory, default ~/.clambake ($CLAMBAKE_HOME).
	Home string `envconfig:"HOME"`

	// DBPath is the coordination SQLite database ($CLAMBAKE_DB_PATH).
	DBPath string `envconfig:"DB_PATH"`

	// InstanceFile persists the session identity ($CLAMBAKE_INSTANCE_FILE).
	InstanceFile string `envconfig:"INSTANCE_FILE"`

	// FlagFile is the persisted enable switch ($CLAMBAKE_FLAG_FILE).
	// Contents "1" means enabled; anything else means disabled.
	FlagFile string `envconfig:"FLAG_FILE"`

	// Enabled gates every command except init/enable/disable. True when
	// CLAMBAKE_ENABLED=1 or the flag file contains "1".
	Enabled bool `envconfig:"ENABLED"`

	// ActiveWindow is the heartbeat age below which an instance counts as
	// active ($CLAMBAKE_ACTIVE_WINDOW).
	ActiveWindow time.Duration `envconfig:"ACTIVE_WINDOW"`

	// StaleAfter is the heartbeat age beyond which cleanup removes the
	// instance row ($CLAMBAKE_STALE_AFTER).
	StaleAfter time.Duration `envconfig:"STALE_AFTER"`
}

// fileConfig is the TOML shape of config.toml. Durations are strings
// ("2m", "1h") parsed with time.ParseDuration.
type fileConfig struct {
	DBPath       string `toml:"db_path"`
	InstanceFile string `toml:"instance_file"`
	FlagFile     string `toml:"flag_file"`
	ActiveWindow string `toml:"active_window"`
	StaleAfter   string `toml:"stale_after"`
}

// Load resolves the full configuration. The TOML file is optional; a missing
// file is not an error, a malformed one is.
func Load() (*Config, error) {
	home := os.Getenv("CLAMBAKE_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		home = filepath.Join(userHome, protocol.ClambakeDir)
	}

	cfg := &Config{
		Home:         home,
		DBPath:       filepath.Join(home, "clambake.db"),
		InstanceFile: filepath.Join(home, "instance.json"),
		FlagFile:     filepath.Join(home, "enabled"),
		ActiveWindow: 2 * time.Minute,
		StaleAfter:   time.Hour,
	}

	if err := applyFile(cfg, filepath.Join(home, "config.toml")); err != nil {
		return nil, err
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("parse CLAMBAKE_* environment: %w", err)
	}

	// The env switch wins when set; otherwise the flag file decides.
	// The flag file survives shell restarts, which is the point of it.
	if !cfg.Enabled {
		cfg.Enabled = flagFileEnabled(cfg.FlagFile)
	}

	return cfg, nil
}

// applyFile overlays values from the TOML file at path, if it exists.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.InstanceFile != "" {
		cfg.InstanceFile = fc.InstanceFile
	}
	if fc.FlagFile != "" {
		cfg.FlagFile = fc.FlagFile
	}
	if fc.ActiveWindow != "" {
		d, err := time.ParseDuration(fc.ActiveWindow)
		if err != nil {
			return fmt.Errorf("parse active_window in %s: %w", path, err)
		}
		cfg.ActiveWindow = d
	}
	if fc.StaleAfter != "" {
		d, err := time.ParseDuration(fc.StaleAfter)
		if err != nil {
			return fmt.Errorf("parse stale_after in %s: %w", path, err)
		}
		cfg.StaleAfter = d
	}

	return nil
}

// flagFileEnabled reports whether the flag file exists and contains "1".
func flagFileEnabled(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "1"
}

// WriteFlag persists the enable switch to the flag file, creating the state
// directory if needed.
func (c *Config) WriteFlag(enabled bool) error {
	if err := os.MkdirAll(filepath.Dir(c.FlagFile), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	value := "0"
	if enabled {
		value = "1"
	}
	if err := os.WriteFile(c.FlagFile, []byte(value+"\n"), 0o644); err != nil {
		return fmt.Errorf("write flag file %s: %w", c.FlagFile, err)
	}
	return nil
}
