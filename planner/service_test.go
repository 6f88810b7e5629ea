package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridflow/pkg/apperror"
	"gridflow/pkg/cache"
)

func corridorRequest() Request {
	return Request{
		Grid:    [][]int{{0, 0, 0}},
		Starts:  []Coord{{0, 0}},
		Targets: []Coord{{2, 0}},
		Horizon: 2,
	}
}

func TestPlannerMatchesPackageFunctions(t *testing.T) {
	p := New()
	ctx := context.Background()

	got, err := p.PlanFlow(ctx, corridorRequest())
	require.NoError(t, err)
	want, err := PlanFlow(corridorRequest())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPlannerDefaultMethod(t *testing.T) {
	p := New(WithDefaultMethod("hlpp"))
	res, err := p.PlanFlow(context.Background(), corridorRequest())
	require.NoError(t, err)
	require.True(t, res.Feasible)
	assert.Equal(t, []Coord{{0, 0}, {1, 0}, {2, 0}}, res.Paths[0])

	// An explicit request method overrides the default.
	req := corridorRequest()
	req.Method = "dinic"
	res, err = p.PlanFlow(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Feasible)

	// A broken default still fails loudly.
	broken := New(WithDefaultMethod("simplex"))
	_, err = broken.PlanFlow(context.Background(), corridorRequest())
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidMethod))
}

func TestPlannerCacheRoundTrip(t *testing.T) {
	mem := cache.NewMemoryCache(&cache.Options{DefaultTTL: time.Minute})
	defer mem.Close()

	p := New(WithCache(cache.NewPlanCache(mem, time.Minute)))
	ctx := context.Background()

	first, err := p.PlanFlow(ctx, corridorRequest())
	require.NoError(t, err)
	second, err := p.PlanFlow(ctx, corridorRequest())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats, err := mem.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalKeys)
	assert.Equal(t, int64(1), stats.Hits)

	// A different variant with equivalent fields must not collide.
	syncRes, err := p.PlanFlowSync(ctx, SyncRequest{
		Grid:    [][]int{{0, 0, 0}},
		Starts:  []Coord{{0, 0}},
		Pickups: []Coord{{0, 0}},
		Drops:   []Coord{{2, 0}},
		Horizon: 2,
		Tau:     0,
	})
	require.NoError(t, err)
	assert.True(t, syncRes.Feasible)

	stats, err = mem.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalKeys)
}

func TestPlannerRotThroughService(t *testing.T) {
	p := New()
	res, err := p.PlanFlowRot(context.Background(), RotRequest{
		Grid:      [][]int{{0, 0, 0}},
		Starts:    []Coord{{0, 0}},
		StartDirs: []Direction{East},
		Targets:   []Coord{{2, 0}},
		Horizon:   2,
	})
	require.NoError(t, err)
	require.True(t, res.Feasible)
	assert.Equal(t, []Direction{East, East, East}, res.PathDirs[0])
}
