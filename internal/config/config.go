// Package config provides configuration management for HostWatch.
// It uses Viper to load settings from files, environment variables, and CLI flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for HostWatch.
// Defaults reproduce the reference collector: 5 samples of 8.8.8.8, 10s apart, into log.db.
type Config struct {
	// ── Storage ──────────────────────────────────────────────────────────────
	DBPath string `mapstructure:"db_path"`

	// ── Collector ────────────────────────────────────────────────────────────
	PingHost string `mapstructure:"ping_host"`
	// PingTimeout bounds a single ping child process.
	PingTimeout int    `mapstructure:"ping_timeout_seconds"`
	DiskPath    string `mapstructure:"disk_path"`
	Interval    int    `mapstructure:"collect_interval_seconds"`
	Iterations  int    `mapstructure:"collect_iterations"`
	// RecentLimit is the size of the summary block and the viewer's "latest" table.
	RecentLimit int `mapstructure:"recent_limit"`

	// ── Viewer ───────────────────────────────────────────────────────────────
	ViewerHost string `mapstructure:"viewer_host"`
	ViewerPort int    `mapstructure:"viewer_port"`

	// ── Logging ──────────────────────────────────────────────────────────────
	LogLevel string `mapstructure:"log_level"` // debug | info | warn | error
	LogFile  string `mapstructure:"log_file"`  // optional JSON log file
}

// Load reads config from file (./config.yaml or ~/.hostwatch/config.yaml)
// and falls back to defaults. Environment variables with prefix HOSTWATCH_
// override file values. Extra search paths, when given, replace the defaults.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// --- Config file ---
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "$HOME/.hostwatch"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		// config file is optional; ignore "not found" errors
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// --- Environment Variables ---
	v.SetEnvPrefix("HOSTWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file, env or flag overrides exist.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshal of plain defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "log.db")

	v.SetDefault("ping_host", "8.8.8.8")
	v.SetDefault("ping_timeout_seconds", 10)
	v.SetDefault("disk_path", "/")
	v.SetDefault("collect_interval_seconds", 10)
	v.SetDefault("collect_iterations", 5)
	v.SetDefault("recent_limit", 5)

	v.SetDefault("viewer_host", "127.0.0.1")
	v.SetDefault("viewer_port", 8501)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// Validate reports the first setting that cannot drive a run.
func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return errors.New("db_path must not be empty")
	case c.PingHost == "":
		return errors.New("ping_host must not be empty")
	case c.DiskPath == "":
		return errors.New("disk_path must not be empty")
	case c.PingTimeout <= 0:
		return fmt.Errorf("ping_timeout_seconds must be positive, got %d", c.PingTimeout)
	case c.Interval < 0:
		return fmt.Errorf("collect_interval_seconds must not be negative, got %d", c.Interval)
	case c.Iterations <= 0:
		return fmt.Errorf("collect_iterations must be positive, got %d", c.Iterations)
	case c.RecentLimit <= 0:
		return fmt.Errorf("recent_limit must be positive, got %d", c.RecentLimit)
	case c.ViewerPort <= 0 || c.ViewerPort > 65535:
		return fmt.Errorf("viewer_port out of range: %d", c.ViewerPort)
	}
	return nil
}

// IntervalDuration is the sleep between collector ticks.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// PingTimeoutDuration bounds a single probe.
func (c *Config) PingTimeoutDuration() time.Duration {
	return time.Duration(c.PingTimeout) * time.Second
}

// ViewerAddr is the listen address of the viewer.
func (c *Config) ViewerAddr() string {
	return fmt.Sprintf("%s:%d", c.ViewerHost, c.ViewerPort)
}
