// Package config loads richsync settings from defaults, an optional richsync.yaml, and RICHSYNC_* environment variables (highest precedence).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// EnvPrefix prefixes every environment override (ex: RICHSYNC_WIDTH).
const EnvPrefix = "RICHSYNC"

type Config struct {
	// Width limits rendered rows, in columns. 0 means no limit.
	Width int `mapstructure:"width"`

	// Color is one of ColorAuto, ColorAlways, ColorNever.
	Color string `mapstructure:"color"`

	// DiffTimeout bounds each line diff. 0 means no limit.
	DiffTimeout time.Duration `mapstructure:"diff_timeout"`

	// LogFile receives debug logs. Empty disables logging.
	LogFile string `mapstructure:"log_file"`
}

// DefaultDirs returns the directories searched for richsync.yaml when Load is given none: the working directory, then $HOME/.config/richsync.
func DefaultDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "richsync"))
	}
	return dirs
}

// Load reads the configuration, searching dirs (DefaultDirs if empty) for richsync.yaml. A missing file is not an error.
func Load(dirs ...string) (*Config, error) {
	if len(dirs) == 0 {
		dirs = DefaultDirs()
	}

	v := viper.New()
	v.SetConfigName("richsync")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("width", 0)
	v.SetDefault("color", ColorAuto)
	v.SetDefault("diff_timeout", time.Second)
	v.SetDefault("log_file", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("config: width must be >= 0, got %d", c.Width)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("config: color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	if c.DiffTimeout < 0 {
		return fmt.Errorf("config: diff_timeout must be >= 0, got %v", c.DiffTimeout)
	}
	return nil
}

// UseColor resolves Color given whether the output is a terminal.
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}
