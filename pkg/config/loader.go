package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "GRIDFLOW_"
	configEnvVar = "CONFIG_PATH"
)

// Loader assembles configuration from multiple sources.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader creates a configuration loader with default search paths.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/gridflow/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithConfigPaths overrides the config file search paths.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// Load assembles the configuration with ascending priority:
// defaults, then the first config file found, then environment variables.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// The file is optional; a missing one is not fatal.
	if err := l.loadConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDefaults seeds the baseline values.
func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		// App
		"app.name":        "gridflow",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.debug":       false,

		// Log
		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		// Metrics
		"metrics.enabled":   false,
		"metrics.port":      9090,
		"metrics.path":      "/metrics",
		"metrics.namespace": "gridflow",
		"metrics.subsystem": "planner",

		// Cache
		"cache.enabled":   false,
		"cache.backend":   "memory",
		"cache.ttl":       10 * time.Minute,
		"cache.max_items": 1024,
		"cache.redis.db":  0,

		// Tracing
		"tracing.enabled":     false,
		"tracing.endpoint":    "localhost:4317",
		"tracing.sample_rate": 1.0,

		// Planner
		"planner.method":      "dinic",
		"planner.pruning":     true,
		"planner.max_horizon": 0,
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

// loadConfigFile loads the first existing config file, honoring
// CONFIG_PATH when set.
func (l *Loader) loadConfigFile() error {
	paths := l.configPaths
	if override := os.Getenv(configEnvVar); override != "" {
		paths = append([]string{override}, paths...)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("no config file found in %v", paths)
}

// envKeyMappings resolves keys whose names themselves contain an
// underscore; everything else maps SECTION_KEY to section.key.
var envKeyMappings = map[string]string{
	"log.file.path":       "log.file_path",
	"log.max.size":        "log.max_size",
	"log.max.backups":     "log.max_backups",
	"log.max.age":         "log.max_age",
	"cache.max.items":     "cache.max_items",
	"tracing.sample.rate": "tracing.sample_rate",
	"planner.max.horizon": "planner.max_horizon",
}

// loadEnv maps GRIDFLOW_SECTION_KEY variables onto section.key entries.
func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", func(envKey string) string {
		key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))
		key = strings.ReplaceAll(key, "_", ".")
		if mapped, ok := envKeyMappings[key]; ok {
			return mapped
		}
		return key
	}), nil)
}
