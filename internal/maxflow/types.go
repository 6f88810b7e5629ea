// Package maxflow implements unit-capacity maximum-flow engines over a
// dense residual graph representation.
//
// The graph is an adjacency slice indexed by node id. Every AddEdge call
// appends a forward edge with the requested capacity and a paired reverse
// edge with capacity zero; each edge stores the index of its pair in the
// destination's adjacency so residual updates are O(1).
//
// # Residual invariant
//
// For a forward edge with original capacity c carrying f units of flow,
// the pair satisfies forwardCap = c - f and reverseCap = f. Reverse edges
// have OriginalCap = 0 and therefore never report used flow. Both engines
// leave the residual graph in a state from which UsedFlow is accurate on
// every forward edge.
//
// # Determinism
//
// Adjacency order is insertion order and both engines scan edges in that
// order, so identical construction sequences produce identical residual
// graphs and identical flow decompositions.
package maxflow

import (
	"fmt"
	"strings"

	"gridflow/pkg/apperror"
)

// Edge is a directed residual edge.
type Edge struct {
	// To is the destination node id.
	To int

	// Rev is the index of the paired reverse edge in To's adjacency.
	Rev int

	// Cap is the current residual capacity.
	Cap int

	// OriginalCap is the capacity the edge was created with.
	// Zero for reverse edges.
	OriginalCap int
}

// UsedFlow returns the number of units routed through a forward edge.
// Reverse edges always report zero.
func UsedFlow(e Edge) int {
	if e.OriginalCap <= 0 {
		return 0
	}
	if e.OriginalCap < e.Cap {
		return 0
	}
	return e.OriginalCap - e.Cap
}

// Engine is the interface shared by the interchangeable max-flow
// implementations. Callers populate the graph with AddEdge, run MaxFlow
// once, and may then inspect or mutate the residual graph via Graph.
type Engine interface {
	// AddEdge inserts a forward edge u→v with the given capacity and its
	// zero-capacity reverse pair.
	AddEdge(u, v, cap int)

	// MaxFlow computes the maximum s→t flow and returns its value.
	MaxFlow(s, t int) int

	// Graph exposes the residual adjacency for path extraction.
	Graph() [][]Edge
}

// Engine names accepted by New. Matching is case-insensitive and the
// empty string selects the default.
const (
	MethodDinic = "dinic"
	MethodHLPP  = "hlpp"
)

// Normalize maps an engine name to its canonical lowercase form. The empty
// string selects the default engine; unknown names are a domain error.
func Normalize(method string) (string, error) {
	switch strings.ToLower(method) {
	case "", MethodDinic:
		return MethodDinic, nil
	case MethodHLPP:
		return MethodHLPP, nil
	default:
		return "", apperror.NewWithField(
			apperror.CodeInvalidMethod,
			fmt.Sprintf("unknown flow engine %q (want %q or %q)", method, MethodDinic, MethodHLPP),
			"method",
		)
	}
}

// New constructs the named engine over n nodes. An empty name selects
// Dinic. Unknown names are a domain error.
func New(method string, n int) (Engine, error) {
	name, err := Normalize(method)
	if err != nil {
		return nil, err
	}
	if name == MethodHLPP {
		return NewHLPP(n), nil
	}
	return NewDinic(n), nil
}

// addEdge is the shared edge constructor: forward edge with capacity cap,
// reverse edge with capacity 0, pair-linked by adjacency index.
func addEdge(g [][]Edge, u, v, cap int) [][]Edge {
	g[u] = append(g[u], Edge{To: v, Rev: len(g[v]), Cap: cap, OriginalCap: cap})
	g[v] = append(g[v], Edge{To: u, Rev: len(g[u]) - 1, Cap: 0, OriginalCap: 0})
	return g
}
