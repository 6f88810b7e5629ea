// Package expand builds time-expanded unit-capacity flow networks for
// multi-agent grid routing and decodes per-agent paths back out of the
// solved residual graph.
//
// # Node layout
//
// Node ids are assigned in fixed ranges so the layout is computable without
// lookup tables: the per-(cell, t) in/out vertex pairs come first, then the
// per-(undirected edge, t) gadget pairs, then (sync variant only) one
// collector per drop, then the sink, then the source. The rotation variant
// multiplies the vertex range by the four facing directions and uses two
// gadget pairs per (undirected edge, t), one per traversal direction.
//
// # Swap-prevention gadget
//
// In the standard and sync expansions, both traversal directions of an
// undirected grid edge during one time slot are routed through a single
// capacity-1 arc between the gadget's in and out nodes. A swap would need
// two units through that arc, so it cannot occur, while a single agent
// passes in either direction unhindered. The rotation expansion gives each
// traversal direction its own capacity-1 arc, so there the two directions
// do not share capacity.
package expand

// NumDirections is the number of facing directions in the rotation variant.
const NumDirections = 4

// Indexer computes node ids for the non-rotation time expansion.
type Indexer struct {
	NumCells int
	Horizon  int
}

// InNode returns the id of the in-node of (cell, t).
func (ix Indexer) InNode(cell, t int) int {
	return (t*ix.NumCells + cell) << 1
}

// OutNode returns the id of the out-node of (cell, t).
func (ix Indexer) OutNode(cell, t int) int {
	return ix.InNode(cell, t) + 1
}

// TimeNodeCount returns the size of the vertex-pair id range.
func (ix Indexer) TimeNodeCount() int {
	return (ix.Horizon + 1) * ix.NumCells * 2
}

// IsTimeNode reports whether node lies in the vertex-pair range.
func (ix Indexer) IsTimeNode(node int) bool {
	return node >= 0 && node < ix.TimeNodeCount()
}

// IsInNode reports whether node is the in-node of some (cell, t).
func (ix Indexer) IsInNode(node int) bool {
	return ix.IsTimeNode(node) && node%2 == 0
}

// Decode maps a vertex-pair node back to its (cell, t).
func (ix Indexer) Decode(node int) (cell, t int) {
	timeCell := node >> 1
	return timeCell % ix.NumCells, timeCell / ix.NumCells
}

// RotIndexer computes node ids for the rotation-aware time expansion,
// where every vertex pair additionally carries a facing direction.
type RotIndexer struct {
	NumCells int
	Horizon  int
}

// InNode returns the id of the in-node of (cell, dir, t).
func (ix RotIndexer) InNode(cell, dir, t int) int {
	return ((t*ix.NumCells+cell)*NumDirections + dir) << 1
}

// OutNode returns the id of the out-node of (cell, dir, t).
func (ix RotIndexer) OutNode(cell, dir, t int) int {
	return ix.InNode(cell, dir, t) + 1
}

// TimeNodeCount returns the size of the vertex-pair id range.
func (ix RotIndexer) TimeNodeCount() int {
	return (ix.Horizon + 1) * ix.NumCells * NumDirections * 2
}

// IsTimeNode reports whether node lies in the vertex-pair range.
func (ix RotIndexer) IsTimeNode(node int) bool {
	return node >= 0 && node < ix.TimeNodeCount()
}

// IsInNode reports whether node is the in-node of some (cell, dir, t).
func (ix RotIndexer) IsInNode(node int) bool {
	return ix.IsTimeNode(node) && node%2 == 0
}

// Decode maps a vertex-pair node back to its (cell, dir, t).
func (ix RotIndexer) Decode(node int) (cell, dir, t int) {
	dirCell := node >> 1
	dir = dirCell % NumDirections
	timeCell := dirCell / NumDirections
	return timeCell % ix.NumCells, dir, timeCell / ix.NumCells
}

// perpendicular returns the two direction codes orthogonal to d, in
// ascending order. E/W rotate to S/N and vice versa.
func perpendicular(d int) [2]int {
	if d <= 1 {
		return [2]int{2, 3}
	}
	return [2]int{0, 1}
}
