package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		Init(level)
		require.NotNil(t, Log)
	}
}

func TestDefaultInitializesLazily(t *testing.T) {
	Log = nil
	l := Default()
	require.NotNil(t, l)
	assert.Same(t, l, Log)
}

func TestWithInvocation(t *testing.T) {
	Init("info")
	l := WithInvocation("inv-123")
	require.NotNil(t, l)
	// Package helpers run through the shared logger without panicking.
	Debug("debug line", "k", "v")
	Info("info line")
	Warn("warn line")
	Error("error line")
}

func TestInitWithFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "planner.log")

	InitWithConfig(Config{
		Level:    "info",
		Format:   "text",
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	})
	Info("written to file")

	_, err := os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}
