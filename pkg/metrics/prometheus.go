// Package metrics exposes Prometheus instrumentation for the planner:
// per-variant operation counters, duration histograms, and flow-network
// size distributions, plus an HTTP exposition handler.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the collector container.
type Metrics struct {
	// Planning operations
	PlanOperationsTotal *prometheus.CounterVec
	PlanDuration        *prometheus.HistogramVec
	MaxFlowValue        *prometheus.GaugeVec

	// Network shape
	NetworkNodesTotal *prometheus.HistogramVec
	NetworkEdgesTotal *prometheus.HistogramVec
	AgentsTotal       *prometheus.HistogramVec

	// Cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Service info
	ServiceInfo *prometheus.GaugeVec
}

var (
	defaultMetrics *Metrics
	initOnce       sync.Once
)

// InitMetrics registers all collectors under the given namespace and
// subsystem and installs the result as the package default.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		PlanOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_operations_total",
				Help:      "Total number of planning invocations",
			},
			[]string{"variant", "method", "status"},
		),

		PlanDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_duration_seconds",
				Help:      "Duration of planning invocations",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"variant", "method"},
		),

		MaxFlowValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "max_flow_value",
				Help:      "Flow value of the most recent invocation",
			},
			[]string{"variant"},
		),

		NetworkNodesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "network_nodes_total",
				Help:      "Node count of constructed time-expanded networks",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
			},
			[]string{"variant"},
		),

		NetworkEdgesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "network_edges_total",
				Help:      "Directed edge count of constructed time-expanded networks",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 12),
			},
			[]string{"variant"},
		),

		AgentsTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "agents_total",
				Help:      "Agent count per invocation",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"variant"},
		),

		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_hits_total",
				Help:      "Plan cache hits",
			},
			[]string{"variant"},
		),

		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_misses_total",
				Help:      "Plan cache misses",
			},
			[]string{"variant"},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Static service metadata",
			},
			[]string{"version"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the default metrics container, registering it with the
// standard namespace on first use.
func Get() *Metrics {
	initOnce.Do(func() {
		if defaultMetrics == nil {
			InitMetrics("gridflow", "planner")
		}
	})
	return defaultMetrics
}

// RecordPlanOperation records one planning invocation.
func (m *Metrics) RecordPlanOperation(variant, method string, feasible bool, elapsed time.Duration, flow int) {
	status := "infeasible"
	if feasible {
		status = "feasible"
	}
	m.PlanOperationsTotal.WithLabelValues(variant, method, status).Inc()
	m.PlanDuration.WithLabelValues(variant, method).Observe(elapsed.Seconds())
	m.MaxFlowValue.WithLabelValues(variant).Set(float64(flow))
}

// RecordNetworkShape records the size of a constructed network.
func (m *Metrics) RecordNetworkShape(variant string, nodes, edges, agents int) {
	m.NetworkNodesTotal.WithLabelValues(variant).Observe(float64(nodes))
	m.NetworkEdgesTotal.WithLabelValues(variant).Observe(float64(edges))
	m.AgentsTotal.WithLabelValues(variant).Observe(float64(agents))
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
