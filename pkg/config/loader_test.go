package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridflow/pkg/apperror"
)

func TestLoadDefaults(t *testing.T) {
	l := NewLoader(WithConfigPaths("does-not-exist.yaml"))
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "gridflow", cfg.App.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "dinic", cfg.Planner.Method)
	assert.True(t, cfg.Planner.Pruning)
	assert.Zero(t, cfg.Planner.MaxHorizon)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: test-planner
log:
  level: debug
planner:
  method: hlpp
`), 0644))

	l := NewLoader(WithConfigPaths(path))
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "test-planner", cfg.App.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "hlpp", cfg.Planner.Method)
	// Untouched sections keep their defaults.
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner:\n  method: dinic\n"), 0644))

	t.Setenv("GRIDFLOW_PLANNER_METHOD", "hlpp")
	t.Setenv("GRIDFLOW_LOG_LEVEL", "warn")

	l := NewLoader(WithConfigPaths(path))
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "hlpp", cfg.Planner.Method)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad_method", func(c *Config) { c.Planner.Method = "simplex" }},
		{"negative_horizon", func(c *Config) { c.Planner.MaxHorizon = -1 }},
		{"bad_cache_backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis_without_addr", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.Backend = "redis"
			c.Cache.Redis.Addr = ""
		}},
		{"bad_sample_rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(WithConfigPaths("does-not-exist.yaml"))
			cfg, err := l.Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeInvalidConfig))
		})
	}
}

func TestCustomEnvPrefix(t *testing.T) {
	t.Setenv("PLANNERX_APP_NAME", "renamed")

	l := NewLoader(
		WithConfigPaths("does-not-exist.yaml"),
		WithEnvPrefix("PLANNERX_"),
	)
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "renamed", cfg.App.Name)
}
