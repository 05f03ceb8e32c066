package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the config.toml configuration file
type Config struct {
	// Per-project settings
	Project ProjectConfig `toml:"project"`

	// Update behavior
	Update UpdateConfig `toml:"update"`

	// Components selected when init runs without a picker
	Defaults DefaultsConfig `toml:"defaults"`

	// Log settings
	Log LogConfig `toml:"log"`
}

// ProjectConfig holds per-project layout settings
type ProjectConfig struct {
	// Dir is the configuration directory name inside a project
	Dir string `toml:"dir"`
}

// UpdateConfig holds settings for the update command
type UpdateConfig struct {
	// Backup the previous files before writing
	Backup bool `toml:"backup"`

	// KeepBackups is how many backup sets to keep; 0 keeps all
	KeepBackups int `toml:"keep_backups"`

	// AdoptNewKeys copies top-level settings keys the user's file lacks
	AdoptNewKeys bool `toml:"adopt_new_keys"`
}

// DefaultsConfig lists default component names
type DefaultsConfig struct {
	Hooks        []string `toml:"hooks"`
	Permissions  []string `toml:"permissions"`
	Fragments    []string `toml:"fragments"`
	Instructions []string `toml:"instructions"`
}

// LogConfig holds logging settings
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{Dir: DefaultProjectDir},
		Update: UpdateConfig{
			Backup:      true,
			KeepBackups: 5,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// LoadConfig loads config.toml from the global directory. A missing file
// yields the defaults.
func LoadConfig(globalDir string) (*Config, error) {
	configPath := filepath.Join(globalDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %w", configPath, row, col, err)
		}
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Update.KeepBackups < 0 {
		return fmt.Errorf("update.keep_backups must not be negative")
	}
	if c.Project.Dir == "" || filepath.IsAbs(c.Project.Dir) || strings.Contains(c.Project.Dir, "..") {
		return fmt.Errorf("project.dir must be a relative directory name, got %q", c.Project.Dir)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// Marshal encodes the config as TOML
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Save writes config.toml to disk
func (c *Config) Save(globalDir string) error {
	configPath := filepath.Join(globalDir, "config.toml")

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// LogLevel returns the configured level, overridden by ATREIDES_LOG_LEVEL
func (c *Config) LogLevel() string {
	if lvl := os.Getenv("ATREIDES_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return c.Log.Level
}

// Global config instance (lazy loaded)
var globalConfig *Config

// GetConfig returns the global config, loading it if needed. Load errors
// fall back to the defaults.
func GetConfig() *Config {
	if globalConfig != nil {
		return globalConfig
	}

	paths, err := ResolvePaths()
	if err != nil {
		return DefaultConfig()
	}

	cfg, err := LoadConfig(paths.GlobalDir)
	if err != nil {
		return DefaultConfig()
	}

	globalConfig = cfg
	return globalConfig
}
