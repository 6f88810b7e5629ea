package planner

import (
	"gridflow/internal/expand"
	"gridflow/internal/grid"
	"gridflow/internal/maxflow"
)

// planStats captures the shape of one solved invocation for
// instrumentation.
type planStats struct {
	Nodes int
	Edges int
	Flow  int
}

// networkStats counts nodes and directed edges (reverse pairs included) of
// a populated engine.
func networkStats(eng maxflow.Engine) (nodes, edges int) {
	g := eng.Graph()
	for _, adj := range g {
		edges += len(adj)
	}
	return len(g), edges
}

// PlanFlow solves a standard planning instance. See Request and Result for
// the contract; infeasibility is reported through Result.Feasible, while a
// returned error always means a domain mistake in the inputs.
func PlanFlow(req Request) (*Result, error) {
	res, _, err := planFlow(req)
	return res, err
}

func planFlow(req Request) (*Result, planStats, error) {
	method, err := maxflow.Normalize(req.Method)
	if err != nil {
		return nil, planStats{}, err
	}
	if len(req.Starts) == 0 {
		return &Result{Feasible: true, Paths: [][]Coord{}}, planStats{}, nil
	}
	if req.Horizon < 0 {
		return infeasible(), planStats{}, nil
	}

	g, err := grid.New(req.Grid)
	if err != nil {
		return nil, planStats{}, err
	}
	if g.NodeCount() == 0 {
		return infeasible(), planStats{}, nil
	}

	caps, ok := capsOrDefault(req.TargetCaps, len(req.Targets))
	if !ok {
		return infeasible(), planStats{}, nil
	}
	startIDs, ok := resolveCells(g, req.Starts)
	if !ok {
		return infeasible(), planStats{}, nil
	}
	targetIDs, ok := resolveCells(g, req.Targets)
	if !ok {
		return infeasible(), planStats{}, nil
	}

	mask := expand.NewActiveMask(g, startIDs, targetIDs, req.Horizon)
	if !mask.StartsActive(startIDs) {
		return infeasible(), planStats{}, nil
	}

	net, err := expand.Build(expand.Params{
		Grid:          g,
		StartIDs:      startIDs,
		TargetIDs:     targetIDs,
		TargetCaps:    caps,
		Horizon:       req.Horizon,
		Mask:          mask,
		Method:        method,
		ReservedCells: toExpandCells(req.ReservedCells),
		ReservedEdges: toExpandEdges(req.ReservedEdges),
	})
	if err != nil {
		return nil, planStats{}, err
	}

	flow := net.Engine.MaxFlow(net.Source, net.Sink)
	if flow != len(req.Starts) {
		return infeasible(), planStats{}, nil
	}

	nodes, edges := networkStats(net.Engine)
	ix := expand.Indexer{NumCells: g.NodeCount(), Horizon: req.Horizon}
	cellPaths := expand.ExtractPaths(net.Engine, ix, startIDs, net.Sink)
	return &Result{
		Feasible: true,
		Paths:    toCoordPaths(g, cellPaths, startIDs, req.Horizon),
	}, planStats{Nodes: nodes, Edges: edges, Flow: flow}, nil
}

// PlanFlowSync solves a rendezvous instance: all agents on pickups at Tau,
// all agents on drops at the horizon.
func PlanFlowSync(req SyncRequest) (*Result, error) {
	res, _, err := planFlowSync(req)
	return res, err
}

func planFlowSync(req SyncRequest) (*Result, planStats, error) {
	method, err := maxflow.Normalize(req.Method)
	if err != nil {
		return nil, planStats{}, err
	}
	if len(req.Starts) == 0 {
		return &Result{Feasible: true, Paths: [][]Coord{}}, planStats{}, nil
	}
	if req.Horizon < 0 || req.Tau < 0 || req.Tau > req.Horizon {
		return infeasible(), planStats{}, nil
	}
	if len(req.Pickups) == 0 {
		return infeasible(), planStats{}, nil
	}

	g, err := grid.New(req.Grid)
	if err != nil {
		return nil, planStats{}, err
	}
	if g.NodeCount() == 0 {
		return infeasible(), planStats{}, nil
	}

	caps, ok := capsOrDefault(req.DropCaps, len(req.Drops))
	if !ok {
		return infeasible(), planStats{}, nil
	}
	startIDs, ok := resolveCells(g, req.Starts)
	if !ok {
		return infeasible(), planStats{}, nil
	}
	pickupIDs, ok := resolveCells(g, req.Pickups)
	if !ok {
		return infeasible(), planStats{}, nil
	}
	dropIDs, ok := resolveCells(g, req.Drops)
	if !ok {
		return infeasible(), planStats{}, nil
	}

	pickupMask := make([]bool, g.NodeCount())
	for _, pid := range pickupIDs {
		pickupMask[pid] = true
	}

	mask := expand.NewSyncActiveMask(g, startIDs, dropIDs, pickupIDs, req.Horizon, req.Tau)
	if !mask.StartsActive(startIDs) {
		return infeasible(), planStats{}, nil
	}

	net, err := expand.BuildSync(expand.SyncParams{
		Grid:       g,
		StartIDs:   startIDs,
		PickupMask: pickupMask,
		DropIDs:    dropIDs,
		DropCaps:   caps,
		Horizon:    req.Horizon,
		Tau:        req.Tau,
		Mask:       mask,
		Method:     method,
	})
	if err != nil {
		return nil, planStats{}, err
	}

	flow := net.Engine.MaxFlow(net.Source, net.Sink)
	if flow != len(req.Starts) {
		return infeasible(), planStats{}, nil
	}

	nodes, edges := networkStats(net.Engine)
	ix := expand.Indexer{NumCells: g.NodeCount(), Horizon: req.Horizon}
	cellPaths := expand.ExtractPaths(net.Engine, ix, startIDs, net.Sink)
	return &Result{
		Feasible: true,
		Paths:    toCoordPaths(g, cellPaths, startIDs, req.Horizon),
	}, planStats{Nodes: nodes, Edges: edges, Flow: flow}, nil
}

// PlanFlowRot solves a rotation-aware instance. The result additionally
// carries the facing per agent and time step.
func PlanFlowRot(req RotRequest) (*Result, error) {
	res, _, err := planFlowRot(req)
	return res, err
}

func planFlowRot(req RotRequest) (*Result, planStats, error) {
	method, err := maxflow.Normalize(req.Method)
	if err != nil {
		return nil, planStats{}, err
	}
	if len(req.Starts) == 0 {
		return &Result{Feasible: true, Paths: [][]Coord{}, PathDirs: [][]Direction{}}, planStats{}, nil
	}
	if req.Horizon < 0 || len(req.StartDirs) != len(req.Starts) {
		return infeasible(), planStats{}, nil
	}
	startDirs := make([]int, len(req.StartDirs))
	for i, d := range req.StartDirs {
		if d < East || d > North {
			return infeasible(), planStats{}, nil
		}
		startDirs[i] = int(d)
	}

	g, err := grid.New(req.Grid)
	if err != nil {
		return nil, planStats{}, err
	}
	if g.NodeCount() == 0 {
		return infeasible(), planStats{}, nil
	}

	caps, ok := capsOrDefault(req.TargetCaps, len(req.Targets))
	if !ok {
		return infeasible(), planStats{}, nil
	}
	startIDs, ok := resolveCells(g, req.Starts)
	if !ok {
		return infeasible(), planStats{}, nil
	}
	targetIDs, ok := resolveCells(g, req.Targets)
	if !ok {
		return infeasible(), planStats{}, nil
	}

	// Position-based pruning stays valid here: rotations only raise the
	// true distance above the BFS bound.
	mask := expand.NewActiveMask(g, startIDs, targetIDs, req.Horizon)
	if !mask.StartsActive(startIDs) {
		return infeasible(), planStats{}, nil
	}

	net, err := expand.BuildRot(expand.RotParams{
		Grid:          g,
		StartIDs:      startIDs,
		StartDirs:     startDirs,
		TargetIDs:     targetIDs,
		TargetCaps:    caps,
		Horizon:       req.Horizon,
		Mask:          mask,
		Method:        method,
		ReservedCells: toExpandCells(req.ReservedCells),
		ReservedEdges: toExpandEdges(req.ReservedEdges),
	})
	if err != nil {
		return nil, planStats{}, err
	}

	flow := net.Engine.MaxFlow(net.Source, net.Sink)
	if flow != len(req.Starts) {
		return infeasible(), planStats{}, nil
	}

	nodes, edges := networkStats(net.Engine)
	ix := expand.RotIndexer{NumCells: g.NodeCount(), Horizon: req.Horizon}
	cellPaths, dirPaths := expand.ExtractPathsRot(net.Engine, ix, startIDs, startDirs, net.Sink)

	res := &Result{
		Feasible: true,
		Paths:    toCoordPaths(g, cellPaths, startIDs, req.Horizon),
		PathDirs: make([][]Direction, len(dirPaths)),
	}
	for i, dirs := range dirPaths {
		padded := make([]Direction, 0, req.Horizon+1)
		for _, d := range dirs {
			padded = append(padded, Direction(d))
		}
		if len(padded) == 0 {
			padded = append(padded, req.StartDirs[i])
		}
		for len(padded) < req.Horizon+1 {
			padded = append(padded, padded[len(padded)-1])
		}
		res.PathDirs[i] = padded
	}

	// The rotation network bounds occupancy per (cell, facing) and its
	// directional gadgets do not share capacity, so a max-flow decomposition
	// can co-locate differently-facing agents or route a head-on exchange.
	// Such a schedule is never returned: the decoded result must pass the
	// full invariant check or the instance is reported infeasible.
	if ValidateSchedule(rotAsStandard(req), res) != nil || ValidateRotation(req, res) != nil {
		return infeasible(), planStats{}, nil
	}
	return res, planStats{Nodes: nodes, Edges: edges, Flow: flow}, nil
}

// rotAsStandard projects a rotation request onto the positional request
// shape shared with ValidateSchedule.
func rotAsStandard(req RotRequest) Request {
	return Request{
		Grid:          req.Grid,
		Starts:        req.Starts,
		Targets:       req.Targets,
		TargetCaps:    req.TargetCaps,
		Horizon:       req.Horizon,
		ReservedCells: req.ReservedCells,
		ReservedEdges: req.ReservedEdges,
	}
}

// capsOrDefault substitutes all-ones for an empty capacity list and
// rejects a length mismatch.
func capsOrDefault(caps []int, targets int) ([]int, bool) {
	if len(caps) == 0 {
		out := make([]int, targets)
		for i := range out {
			out[i] = 1
		}
		return out, true
	}
	if len(caps) != targets {
		return nil, false
	}
	return caps, true
}

// resolveCells maps coordinates to dense cell ids, failing on any
// out-of-bounds or blocked entry.
func resolveCells(g *grid.Graph, coords []Coord) ([]int, bool) {
	ids := make([]int, 0, len(coords))
	for _, c := range coords {
		id := g.ID(c.X, c.Y)
		if id == grid.None {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// toCoordPaths converts extracted cell-id sequences to coordinates and
// pads every path to horizon+1 entries: an agent whose unit exits to the
// sink early parks on its final cell.
func toCoordPaths(g *grid.Graph, cellPaths [][]int, startIDs []int, horizon int) [][]Coord {
	paths := make([][]Coord, len(cellPaths))
	for i, cells := range cellPaths {
		path := make([]Coord, 0, horizon+1)
		for _, cell := range cells {
			x, y := g.XY(cell)
			path = append(path, Coord{X: x, Y: y})
		}
		if len(path) == 0 {
			x, y := g.XY(startIDs[i])
			path = append(path, Coord{X: x, Y: y})
		}
		for len(path) < horizon+1 {
			path = append(path, path[len(path)-1])
		}
		paths[i] = path
	}
	return paths
}

func toExpandCells(in []CellReservation) []expand.CellReservation {
	if len(in) == 0 {
		return nil
	}
	out := make([]expand.CellReservation, len(in))
	for i, r := range in {
		out[i] = expand.CellReservation{X: r.X, Y: r.Y, T: r.T}
	}
	return out
}

func toExpandEdges(in []EdgeReservation) []expand.EdgeReservation {
	if len(in) == 0 {
		return nil
	}
	out := make([]expand.EdgeReservation, len(in))
	for i, r := range in {
		out[i] = expand.EdgeReservation{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2, T: r.T}
	}
	return out
}
