package expand

import (
	"gridflow/internal/grid"
	"gridflow/internal/maxflow"
)

// CellReservation removes the vertex capacity of a cell at one time step.
// Out-of-range times and off-grid or blocked coordinates are ignored.
type CellReservation struct {
	X, Y, T int
}

// EdgeReservation removes the traversal capacity of an undirected grid
// edge during one time slot. The endpoint pair is unordered; t must lie in
// [0, T-1] to have any effect.
type EdgeReservation struct {
	X1, Y1, X2, Y2, T int
}

// Network is a populated time-expanded flow network ready to solve.
type Network struct {
	Engine maxflow.Engine
	Source int
	Sink   int
}

// Params describes the standard (non-rotation) expansion.
type Params struct {
	Grid          *grid.Graph
	StartIDs      []int
	TargetIDs     []int
	TargetCaps    []int
	Horizon       int
	Mask          *ActiveMask
	Method        string
	ReservedCells []CellReservation
	ReservedEdges []EdgeReservation
}

// SyncParams describes the synchronized-rendezvous expansion. Drop sinks
// exist only at t = T (through per-drop collectors carrying the drop
// capacities) and every non-pickup cell loses its vertex capacity at tau.
type SyncParams struct {
	Grid       *grid.Graph
	StartIDs   []int
	PickupMask []bool
	DropIDs    []int
	DropCaps   []int
	Horizon    int
	Tau        int
	Mask       *ActiveMask
	Method     string
}

// RotParams describes the rotation-aware expansion.
type RotParams struct {
	Grid          *grid.Graph
	StartIDs      []int
	StartDirs     []int
	TargetIDs     []int
	TargetCaps    []int
	Horizon       int
	Mask          *ActiveMask
	Method        string
	ReservedCells []CellReservation
	ReservedEdges []EdgeReservation
}

// blockedSet resolves cell reservations to a (t·numCells + cell) set,
// silently dropping entries outside the grid or the horizon.
func blockedSet(g *grid.Graph, horizon int, reserved []CellReservation) map[int]bool {
	if len(reserved) == 0 {
		return nil
	}
	blocked := make(map[int]bool, len(reserved))
	for _, r := range reserved {
		if r.T < 0 || r.T > horizon {
			continue
		}
		cid := g.ID(r.X, r.Y)
		if cid == grid.None {
			continue
		}
		blocked[r.T*g.NodeCount()+cid] = true
	}
	return blocked
}

// reservedGadgetSet resolves edge reservations to a (t·numEdges + edge
// index) set against the deterministic undirected edge enumeration.
func reservedGadgetSet(g *grid.Graph, edges [][2]int, horizon int, reserved []EdgeReservation) map[int]bool {
	if len(reserved) == 0 {
		return nil
	}
	edgeIndex := make(map[[2]int]int, len(edges))
	for i, e := range edges {
		edgeIndex[e] = i
	}
	set := make(map[int]bool, len(reserved))
	for _, r := range reserved {
		if r.T < 0 || r.T >= horizon {
			continue
		}
		id1 := g.ID(r.X1, r.Y1)
		id2 := g.ID(r.X2, r.Y2)
		if id1 == grid.None || id2 == grid.None {
			continue
		}
		a, b := id1, id2
		if a > b {
			a, b = b, a
		}
		eidx, ok := edgeIndex[[2]int{a, b}]
		if !ok {
			continue
		}
		set[r.T*len(edges)+eidx] = true
	}
	return set
}

// Build constructs the standard time-expanded network: vertex-capacity
// pairs and wait arcs for every active (cell, t), a swap-prevention gadget
// for every undirected edge and slot with at least one active traversal
// direction, source arcs into the starts at t = 0, and per-target sink
// arcs at every time step.
func Build(p Params) (*Network, error) {
	g := p.Grid
	numCells := g.NodeCount()
	ix := Indexer{NumCells: numCells, Horizon: p.Horizon}
	edges := g.UndirectedEdges()
	numEdges := len(edges)

	edgeOffset := ix.TimeNodeCount()
	sink := edgeOffset + 2*numEdges*p.Horizon
	source := sink + 1

	eng, err := maxflow.New(p.Method, source+1)
	if err != nil {
		return nil, err
	}

	blocked := blockedSet(g, p.Horizon, p.ReservedCells)
	reservedGadgets := reservedGadgetSet(g, edges, p.Horizon, p.ReservedEdges)

	for t := 0; t <= p.Horizon; t++ {
		for cell := 0; cell < numCells; cell++ {
			if !p.Mask.Active(cell, t) {
				continue
			}
			if !blocked[t*numCells+cell] {
				eng.AddEdge(ix.InNode(cell, t), ix.OutNode(cell, t), 1)
			}
			if t < p.Horizon && p.Mask.Active(cell, t+1) {
				eng.AddEdge(ix.OutNode(cell, t), ix.InNode(cell, t+1), 1)
			}
		}
	}

	for t := 0; t < p.Horizon; t++ {
		for eidx, e := range edges {
			a, b := e[0], e[1]
			forward := p.Mask.Active(a, t) && p.Mask.Active(b, t+1)
			backward := p.Mask.Active(b, t) && p.Mask.Active(a, t+1)
			if !forward && !backward {
				continue
			}
			edgeIn := edgeOffset + (t*numEdges+eidx)*2
			edgeOut := edgeIn + 1
			if p.Mask.Active(a, t) {
				eng.AddEdge(ix.OutNode(a, t), edgeIn, 1)
			}
			if p.Mask.Active(b, t) {
				eng.AddEdge(ix.OutNode(b, t), edgeIn, 1)
			}
			edgeCap := 1
			if reservedGadgets[t*numEdges+eidx] {
				edgeCap = 0
			}
			eng.AddEdge(edgeIn, edgeOut, edgeCap)
			if p.Mask.Active(b, t+1) {
				eng.AddEdge(edgeOut, ix.InNode(b, t+1), 1)
			}
			if p.Mask.Active(a, t+1) {
				eng.AddEdge(edgeOut, ix.InNode(a, t+1), 1)
			}
		}
	}

	for _, sid := range p.StartIDs {
		eng.AddEdge(source, ix.InNode(sid, 0), 1)
	}

	for j, tid := range p.TargetIDs {
		cap := p.TargetCaps[j]
		if cap <= 0 {
			continue
		}
		for t := 0; t <= p.Horizon; t++ {
			if p.Mask.Active(tid, t) {
				eng.AddEdge(ix.OutNode(tid, t), sink, cap)
			}
		}
	}

	return &Network{Engine: eng, Source: source, Sink: sink}, nil
}

// BuildSync constructs the rendezvous network. The vertex capacity at
// t = tau exists only on pickup cells; drops are reachable solely via
// O(drop, T) → collector → sink, with the collector arc carrying the drop
// capacity.
func BuildSync(p SyncParams) (*Network, error) {
	g := p.Grid
	numCells := g.NodeCount()
	ix := Indexer{NumCells: numCells, Horizon: p.Horizon}
	edges := g.UndirectedEdges()
	numEdges := len(edges)

	edgeOffset := ix.TimeNodeCount()
	collectorOffset := edgeOffset + 2*numEdges*p.Horizon
	sink := collectorOffset + len(p.DropIDs)
	source := sink + 1

	eng, err := maxflow.New(p.Method, source+1)
	if err != nil {
		return nil, err
	}

	for t := 0; t <= p.Horizon; t++ {
		for cell := 0; cell < numCells; cell++ {
			if !p.Mask.Active(cell, t) {
				continue
			}
			if t != p.Tau || p.PickupMask[cell] {
				eng.AddEdge(ix.InNode(cell, t), ix.OutNode(cell, t), 1)
			}
			if t < p.Horizon && p.Mask.Active(cell, t+1) {
				eng.AddEdge(ix.OutNode(cell, t), ix.InNode(cell, t+1), 1)
			}
		}
	}

	for t := 0; t < p.Horizon; t++ {
		for eidx, e := range edges {
			a, b := e[0], e[1]
			forward := p.Mask.Active(a, t) && p.Mask.Active(b, t+1)
			backward := p.Mask.Active(b, t) && p.Mask.Active(a, t+1)
			if !forward && !backward {
				continue
			}
			edgeIn := edgeOffset + (t*numEdges+eidx)*2
			edgeOut := edgeIn + 1
			if p.Mask.Active(a, t) {
				eng.AddEdge(ix.OutNode(a, t), edgeIn, 1)
			}
			if p.Mask.Active(b, t) {
				eng.AddEdge(ix.OutNode(b, t), edgeIn, 1)
			}
			eng.AddEdge(edgeIn, edgeOut, 1)
			if p.Mask.Active(b, t+1) {
				eng.AddEdge(edgeOut, ix.InNode(b, t+1), 1)
			}
			if p.Mask.Active(a, t+1) {
				eng.AddEdge(edgeOut, ix.InNode(a, t+1), 1)
			}
		}
	}

	for _, sid := range p.StartIDs {
		eng.AddEdge(source, ix.InNode(sid, 0), 1)
	}

	for j, did := range p.DropIDs {
		cap := p.DropCaps[j]
		if cap <= 0 {
			continue
		}
		collector := collectorOffset + j
		eng.AddEdge(collector, sink, cap)
		if p.Mask.Active(did, p.Horizon) {
			eng.AddEdge(ix.OutNode(did, p.Horizon), collector, 1)
		}
	}

	return &Network{Engine: eng, Source: source, Sink: sink}, nil
}

// BuildRot constructs the rotation-aware network. Every vertex pair
// carries a facing direction; an agent may wait (keeping its direction),
// rotate 90° to either perpendicular direction, or move forward into the
// faced neighbor, arriving with the same facing.
//
// Unlike the positional expansion, the edge gadget here is built per
// traversal direction: a unit entering from cell a can only exit at cell
// b, still facing a→b. A shared two-node gadget would let a unit re-exit
// on its own side with the opposite facing, a 180° reversal in one step.
// The price is that the two directional gadgets no longer share capacity,
// so head-on swaps are not excluded by the network itself; the planner
// rejects any decoded schedule that contains one.
func BuildRot(p RotParams) (*Network, error) {
	g := p.Grid
	numCells := g.NodeCount()
	ix := RotIndexer{NumCells: numCells, Horizon: p.Horizon}
	edges := g.UndirectedEdges()
	numEdges := len(edges)

	// Four gadget nodes per undirected edge and slot: an in/out pair for
	// each traversal direction.
	edgeOffset := ix.TimeNodeCount()
	sink := edgeOffset + 4*numEdges*p.Horizon
	source := sink + 1

	eng, err := maxflow.New(p.Method, source+1)
	if err != nil {
		return nil, err
	}

	blocked := blockedSet(g, p.Horizon, p.ReservedCells)
	reservedGadgets := reservedGadgetSet(g, edges, p.Horizon, p.ReservedEdges)

	for t := 0; t <= p.Horizon; t++ {
		for cell := 0; cell < numCells; cell++ {
			if !p.Mask.Active(cell, t) {
				continue
			}
			cellBlocked := blocked[t*numCells+cell]
			nextActive := t < p.Horizon && p.Mask.Active(cell, t+1)
			for d := 0; d < NumDirections; d++ {
				if !cellBlocked {
					eng.AddEdge(ix.InNode(cell, d, t), ix.OutNode(cell, d, t), 1)
				}
				if !nextActive {
					continue
				}
				// Wait first so extraction prefers it over a rotation.
				eng.AddEdge(ix.OutNode(cell, d, t), ix.InNode(cell, d, t+1), 1)
				for _, pd := range perpendicular(d) {
					eng.AddEdge(ix.OutNode(cell, d, t), ix.InNode(cell, pd, t+1), 1)
				}
			}
		}
	}

	for t := 0; t < p.Horizon; t++ {
		for eidx, e := range edges {
			a, b := e[0], e[1]
			forward := p.Mask.Active(a, t) && p.Mask.Active(b, t+1)
			backward := p.Mask.Active(b, t) && p.Mask.Active(a, t+1)
			if !forward && !backward {
				continue
			}
			ax, ay := g.XY(a)
			bx, by := g.XY(b)
			dAB := grid.Direction(ax, ay, bx, by)
			dBA := dAB ^ 1
			edgeCap := 1
			if reservedGadgets[t*numEdges+eidx] {
				edgeCap = 0
			}
			base := edgeOffset + (t*numEdges+eidx)*4
			if forward {
				eng.AddEdge(ix.OutNode(a, dAB, t), base, 1)
				eng.AddEdge(base, base+1, edgeCap)
				eng.AddEdge(base+1, ix.InNode(b, dAB, t+1), 1)
			}
			if backward {
				eng.AddEdge(ix.OutNode(b, dBA, t), base+2, 1)
				eng.AddEdge(base+2, base+3, edgeCap)
				eng.AddEdge(base+3, ix.InNode(a, dBA, t+1), 1)
			}
		}
	}

	for i, sid := range p.StartIDs {
		eng.AddEdge(source, ix.InNode(sid, p.StartDirs[i], 0), 1)
	}

	for j, tid := range p.TargetIDs {
		cap := p.TargetCaps[j]
		if cap <= 0 {
			continue
		}
		for t := 0; t <= p.Horizon; t++ {
			if !p.Mask.Active(tid, t) {
				continue
			}
			for d := 0; d < NumDirections; d++ {
				eng.AddEdge(ix.OutNode(tid, d, t), sink, cap)
			}
		}
	}

	return &Network{Engine: eng, Source: source, Sink: sink}, nil
}
