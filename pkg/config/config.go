// Package config defines the planner host configuration and loads it from
// defaults, an optional YAML file, and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"gridflow/pkg/apperror"
)

// Config is the root configuration structure.
type Config struct {
	App     AppConfig     `koanf:"app"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Cache   CacheConfig   `koanf:"cache"`
	Tracing TracingConfig `koanf:"tracing"`
	Planner PlannerConfig `koanf:"planner"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `koanf:"level"`  // debug, info, warn, error
	Format     string `koanf:"format"` // json, text
	Output     string `koanf:"output"` // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"` // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// CacheConfig holds plan-result cache settings.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Backend  string        `koanf:"backend"` // memory, redis
	TTL      time.Duration `koanf:"ttl"`
	Redis    RedisConfig   `koanf:"redis"`
	MaxItems int           `koanf:"max_items"` // memory backend only
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool    `koanf:"enabled"`
	Endpoint   string  `koanf:"endpoint"`
	SampleRate float64 `koanf:"sample_rate"`
}

// PlannerConfig holds planner defaults.
type PlannerConfig struct {
	// Method is the default flow engine ("dinic" or "hlpp") used when a
	// request leaves Method empty.
	Method string `koanf:"method"`

	// Pruning is the reachability-pruning setting of the time expansion.
	// It is loaded but not read by the planner, which always prunes.
	Pruning bool `koanf:"pruning"`

	// MaxHorizon is a horizon limit (zero meaning none). Validate rejects
	// negative values; the planner does not read it and enforces no limit.
	MaxHorizon int `koanf:"max_horizon"`
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Planner.Method) {
	case "", "dinic", "hlpp":
	default:
		return apperror.NewWithField(apperror.CodeInvalidConfig,
			fmt.Sprintf("unknown planner method %q", c.Planner.Method), "planner.method")
	}
	if c.Planner.MaxHorizon < 0 {
		return apperror.NewWithField(apperror.CodeInvalidConfig,
			"planner.max_horizon must be non-negative", "planner.max_horizon")
	}
	switch strings.ToLower(c.Cache.Backend) {
	case "", "memory", "redis":
	default:
		return apperror.NewWithField(apperror.CodeInvalidConfig,
			fmt.Sprintf("unknown cache backend %q", c.Cache.Backend), "cache.backend")
	}
	if c.Cache.Enabled && strings.ToLower(c.Cache.Backend) == "redis" && c.Cache.Redis.Addr == "" {
		return apperror.NewWithField(apperror.CodeInvalidConfig,
			"redis cache enabled without an address", "cache.redis.addr")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return apperror.NewWithField(apperror.CodeInvalidConfig,
			"tracing.sample_rate must lie in [0, 1]", "tracing.sample_rate")
	}
	return nil
}
