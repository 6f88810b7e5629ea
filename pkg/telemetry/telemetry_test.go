package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitDisabledReturnsNoop(t *testing.T) {
	p, err := Init(context.Background(), Config{
		Enabled:     false,
		ServiceName: "gridflow-test",
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.NotNil(t, p.Tracer())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSpanHelpersAreSafeWithoutInit(t *testing.T) {
	ctx := context.Background()

	ctx, span := StartSpan(ctx, "test.op")
	require.NotNil(t, span)

	AddEvent(ctx, "event", attribute.Int("n", 1))
	SetAttributes(ctx, attribute.String("k", "v"))
	SetError(ctx, errors.New("boom"))
	span.End()
}

func TestGetWithoutInit(t *testing.T) {
	globalProvider = nil
	p := Get()
	require.NotNil(t, p)
	assert.NotNil(t, p.Tracer())
}
