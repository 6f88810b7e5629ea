package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridflow/pkg/config"
)

func TestNewFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "error"
	cfg.Planner.Method = "hlpp"
	cfg.Cache.Enabled = true
	cfg.Cache.Backend = "memory"
	cfg.Cache.TTL = time.Minute
	cfg.Cache.MaxItems = 16

	p, err := NewFromConfig(cfg)
	require.NoError(t, err)
	require.NotNil(t, p.planCache)
	assert.Equal(t, "hlpp", p.defaultMethod)

	res, err := p.PlanFlow(context.Background(), corridorRequest())
	require.NoError(t, err)
	require.True(t, res.Feasible)

	// The configured cache serves the repeat request.
	again, err := p.PlanFlow(context.Background(), corridorRequest())
	require.NoError(t, err)
	assert.Equal(t, res, again)
}
