package expand

import "gridflow/internal/maxflow"

// =============================================================================
// Path extraction
// =============================================================================
//
// After max-flow converges with one unit per agent, each agent's route is
// recovered by walking the residual graph from its start in-node, always
// taking the first adjacency edge with positive used flow. Crossing an
// in→out vertex arc pins the agent to that (cell, t), so collecting those
// crossings yields the schedule step by step.
//
// Every consumed edge has its forward capacity restored and its reverse
// capacity reduced, erasing that unit from the residual view. A later agent
// scanning the same adjacency therefore diverges onto its own unit even
// when several agents share a prefix. The time expansion is acyclic along
// used arcs, so the walk terminates at the sink; because total flow equals
// the number of agents, no walk can stall earlier.
// =============================================================================

// step consumes the first outgoing edge of cur carrying used flow and
// returns its destination, or -1 when none remains. crossed reports
// whether the consumed edge was cur→cur+1 (the vertex-capacity arc, when
// cur is an in-node).
func step(g [][]maxflow.Edge, cur int) (next int, crossed bool) {
	for i := range g[cur] {
		e := &g[cur][i]
		if maxflow.UsedFlow(*e) > 0 {
			e.Cap++
			g[e.To][e.Rev].Cap--
			return e.To, e.To == cur+1
		}
	}
	return -1, false
}

// ExtractPaths decodes one cell-id sequence per start from the solved
// residual graph. The sequence covers t = 0 up to the step at which the
// agent's unit leaves for the sink.
func ExtractPaths(eng maxflow.Engine, ix Indexer, startIDs []int, sink int) [][]int {
	g := eng.Graph()
	paths := make([][]int, 0, len(startIDs))

	for _, sid := range startIDs {
		cur := ix.InNode(sid, 0)
		var path []int
		for cur != sink {
			inNode := ix.IsInNode(cur)
			next, crossed := step(g, cur)
			if next < 0 {
				break
			}
			if inNode && crossed {
				cell, _ := ix.Decode(cur)
				path = append(path, cell)
			}
			cur = next
		}
		paths = append(paths, path)
	}
	return paths
}

// ExtractPathsRot decodes cell-id and direction sequences per start from a
// solved rotation-aware network.
func ExtractPathsRot(eng maxflow.Engine, ix RotIndexer, startIDs, startDirs []int, sink int) (cells, dirs [][]int) {
	g := eng.Graph()
	cells = make([][]int, 0, len(startIDs))
	dirs = make([][]int, 0, len(startIDs))

	for i, sid := range startIDs {
		cur := ix.InNode(sid, startDirs[i], 0)
		var pathCells, pathDirs []int
		for cur != sink {
			inNode := ix.IsInNode(cur)
			next, crossed := step(g, cur)
			if next < 0 {
				break
			}
			if inNode && crossed {
				cell, dir, _ := ix.Decode(cur)
				pathCells = append(pathCells, cell)
				pathDirs = append(pathDirs, dir)
			}
			cur = next
		}
		cells = append(cells, pathCells)
		dirs = append(dirs, pathDirs)
	}
	return cells, dirs
}
