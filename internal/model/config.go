package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds the location of the local SQLite store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// File receives log output. The TUI owns the terminal, so logs never
	// go to stdout.
	File string `mapstructure:"file" yaml:"file"`
}

// DispatchConfig bounds calls across the command boundary.
type DispatchConfig struct {
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme              string `mapstructure:"theme" yaml:"theme"`
	RefreshIntervalSec int    `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Dispatch DispatchConfig `mapstructure:"dispatch" yaml:"dispatch"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
}

// DispatchTimeout returns the per-request timeout as a duration.
func (c *AppConfig) DispatchTimeout() time.Duration {
	return time.Duration(c.Dispatch.TimeoutSec) * time.Second
}

// RefreshInterval returns the background refresh interval as a duration.
func (c *AppConfig) RefreshInterval() time.Duration {
	return time.Duration(c.Display.RefreshIntervalSec) * time.Second
}

// ConfigDir returns ~/.config/airdrops, falling back to the working
// directory when the home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "airdrops")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/airdrops/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		Database: DatabaseConfig{Path: filepath.Join(dir, "airdrops.db")},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "airdrops.log"),
		},
		Dispatch: DispatchConfig{TimeoutSec: 10},
		Display: DisplayConfig{
			Theme:              "default",
			RefreshIntervalSec: 60,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Environment variables prefixed with AIRDROPS_ override file values
// (e.g. AIRDROPS_DATABASE_PATH).
func LoadConfig(path string) (*AppConfig, error) {
	defaults := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("airdrops")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database.path", defaults.Database.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("dispatch.timeout_sec", defaults.Dispatch.TimeoutSec)
	v.SetDefault("display.theme", defaults.Display.Theme)
	v.SetDefault("display.refresh_interval_sec", defaults.Display.RefreshIntervalSec)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Dispatch.TimeoutSec <= 0 {
		cfg.Dispatch.TimeoutSec = defaults.Dispatch.TimeoutSec
	}
	if cfg.Display.RefreshIntervalSec <= 0 {
		cfg.Display.RefreshIntervalSec = defaults.Display.RefreshIntervalSec
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("dispatch.timeout_sec", cfg.Dispatch.TimeoutSec)
	v.Set("display.theme", cfg.Display.Theme)
	v.Set("display.refresh_interval_sec", cfg.Display.RefreshIntervalSec)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
