package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gridflow/internal/maxflow"
	"gridflow/pkg/cache"
	"gridflow/pkg/logger"
	"gridflow/pkg/metrics"
	"gridflow/pkg/telemetry"
)

// Variant labels used in metrics, traces, and cache keys.
const (
	variantFlow = "flow"
	variantSync = "sync"
	variantRot  = "rot"
)

// Planner is the instrumented entry point: it wraps the plain Plan*
// functions with structured logging, Prometheus metrics, tracing, an
// optional result cache, and a default engine choice. A zero-config
// Planner behaves exactly like the package-level functions.
//
// A Planner holds no per-invocation state and is safe for concurrent use.
type Planner struct {
	defaultMethod string
	metrics       *metrics.Metrics
	planCache     *cache.PlanCache
	log           *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithDefaultMethod sets the engine used when a request leaves Method
// empty. The name is validated lazily on the first request using it.
func WithDefaultMethod(method string) Option {
	return func(p *Planner) { p.defaultMethod = method }
}

// WithMetrics attaches a metrics container.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// WithCache attaches a plan-result cache.
func WithCache(c *cache.PlanCache) Option {
	return func(p *Planner) { p.planCache = c }
}

// WithLogger overrides the shared logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// New creates a Planner.
func New(opts ...Option) *Planner {
	p := &Planner{}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Default()
	}
	return p
}

// PlanFlow runs a standard instance with instrumentation.
func (p *Planner) PlanFlow(ctx context.Context, req Request) (*Result, error) {
	if req.Method == "" {
		req.Method = p.defaultMethod
	}
	return instrumented(ctx, p, variantFlow, req.Method, len(req.Starts), req,
		func() (*Result, planStats, error) { return planFlow(req) })
}

// PlanFlowSync runs a rendezvous instance with instrumentation.
func (p *Planner) PlanFlowSync(ctx context.Context, req SyncRequest) (*Result, error) {
	if req.Method == "" {
		req.Method = p.defaultMethod
	}
	return instrumented(ctx, p, variantSync, req.Method, len(req.Starts), req,
		func() (*Result, planStats, error) { return planFlowSync(req) })
}

// PlanFlowRot runs a rotation-aware instance with instrumentation.
func (p *Planner) PlanFlowRot(ctx context.Context, req RotRequest) (*Result, error) {
	if req.Method == "" {
		req.Method = p.defaultMethod
	}
	return instrumented(ctx, p, variantRot, req.Method, len(req.Starts), req,
		func() (*Result, planStats, error) { return planFlowRot(req) })
}

// instrumented wraps one core invocation with tracing, cache lookup,
// metrics, and logging. The cache is consulted only on identical requests;
// determinism of the core makes replayed results valid.
func instrumented(ctx context.Context, p *Planner, variant, method string, agents int, req any, run func() (*Result, planStats, error)) (*Result, error) {
	if method == "" {
		method = maxflow.MethodDinic
	}
	invocationID := uuid.NewString()
	ctx, span := telemetry.StartSpan(ctx, "Planner.Plan",
		trace.WithAttributes(
			attribute.String("variant", variant),
			attribute.String("method", method),
			attribute.String("invocation_id", invocationID),
			attribute.Int("agents", agents),
		),
	)
	defer span.End()

	log := p.log.With("invocation_id", invocationID, "variant", variant)

	if p.planCache != nil {
		var cached Result
		found, err := p.planCache.Get(ctx, variant, req, &cached)
		if err != nil {
			log.Warn("plan cache lookup failed", "error", err)
		}
		if found {
			if p.metrics != nil {
				p.metrics.CacheHitsTotal.WithLabelValues(variant).Inc()
			}
			telemetry.AddEvent(ctx, "cache_hit")
			return &cached, nil
		}
		if p.metrics != nil {
			p.metrics.CacheMissesTotal.WithLabelValues(variant).Inc()
		}
	}

	start := time.Now()
	res, stats, err := run()
	elapsed := time.Since(start)

	if err != nil {
		telemetry.SetError(ctx, err)
		log.Error("plan failed", "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("feasible", res.Feasible),
		attribute.Int("network_nodes", stats.Nodes),
		attribute.Int("network_edges", stats.Edges),
	)
	log.Debug("plan finished",
		"feasible", res.Feasible,
		"flow", stats.Flow,
		"network_nodes", stats.Nodes,
		"network_edges", stats.Edges,
		"elapsed", elapsed,
	)

	if p.metrics != nil {
		p.metrics.RecordPlanOperation(variant, method, res.Feasible, elapsed, stats.Flow)
		if stats.Nodes > 0 {
			p.metrics.RecordNetworkShape(variant, stats.Nodes, stats.Edges, agents)
		}
	}

	if p.planCache != nil {
		if err := p.planCache.Set(ctx, variant, req, res, 0); err != nil {
			log.Warn("plan cache store failed", "error", err)
		}
	}

	return res, nil
}
