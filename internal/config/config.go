// Package config loads runtime configuration via viper: the Postgres DSN,
// the HTTP listen port, and overrides for the engine's pruning limits, so
// none of them are buried as unexported literals in cmd/server.
//
// Load establishes defaults, then layers an optional YAML file and
// "GRIDRAIL_"-prefixed environment variables over them, followed by a
// Validate pass.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/antigravity/gridrail/internal/engine"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Limits   LimitsConfig   `mapstructure:"limits"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port           int `mapstructure:"port"`
	RequestTimeout int `mapstructure:"request_timeout"` // seconds
}

// DatabaseConfig identifies the Postgres instance internal/store loads the
// grid from.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN formats the pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// LimitsConfig overrides engine.DefaultLimits() fields the operator may
// want to tune without a recompile. A zero field means "keep the default".
type LimitsConfig struct {
	MaxLegs       int `mapstructure:"max_legs"`
	MaxTotalTime  int `mapstructure:"max_total_time"`
	MaxTransfers  int `mapstructure:"max_transfers"`
	MaxIterations int `mapstructure:"max_iterations"`
}

// Apply overlays non-zero LimitsConfig fields onto base.
func (lc LimitsConfig) Apply(base engine.Limits) engine.Limits {
	if lc.MaxLegs != 0 {
		base.MaxLegs = lc.MaxLegs
	}
	if lc.MaxTotalTime != 0 {
		base.MaxTotalTime = lc.MaxTotalTime
	}
	if lc.MaxTransfers != 0 {
		base.MaxTransfers = lc.MaxTransfers
	}
	if lc.MaxIterations != 0 {
		base.MaxIterations = lc.MaxIterations
	}
	return base
}

// Load reads configuration from an optional config file and from
// GRIDRAIL_-prefixed environment variables, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", 60)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5433)
	v.SetDefault("database.user", "gridrail")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "gridrail")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("limits.max_legs", 0)
	v.SetDefault("limits.max_total_time", 0)
	v.SetDefault("limits.max_transfers", 0)
	v.SetDefault("limits.max_iterations", 0)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // missing config file is fine, defaults/env cover it

	v.SetEnvPrefix("GRIDRAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "server.request_timeout must be positive")
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
