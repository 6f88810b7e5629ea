// Package grid maps a rectangular occupancy grid onto dense integer node ids.
//
// Passable cells (value 0) are numbered in row-major order; blocked cells
// (any nonzero value) receive no id. All planner components address cells
// through these dense ids, which keeps the time-expanded network compact.
package grid

import (
	"fmt"

	"gridflow/pkg/apperror"
)

// None is the sentinel id returned for out-of-bounds or blocked coordinates.
const None = -1

// Neighbor probe order. The index into these tables doubles as the
// direction code used by the rotation-aware planner (E=0, W=1, S=2, N=3).
var (
	dx = [4]int{1, -1, 0, 0}
	dy = [4]int{0, 0, 1, -1}
)

// Graph is an immutable view of a rectangular grid with dense ids
// assigned to its passable cells.
type Graph struct {
	width  int
	height int
	cells  [][]int
	idMap  [][]int
	coords [][2]int
}

// New builds a Graph from a matrix of cell values (0 = passable).
// It returns a domain error when rows have unequal widths.
func New(cells [][]int) (*Graph, error) {
	g := &Graph{
		height: len(cells),
		cells:  cells,
	}
	if g.height > 0 {
		g.width = len(cells[0])
	}

	g.idMap = make([][]int, g.height)
	nextID := 0
	for y := 0; y < g.height; y++ {
		if len(cells[y]) != g.width {
			return nil, apperror.NewWithField(
				apperror.CodeRaggedGrid,
				fmt.Sprintf("grid row %d has width %d, want %d", y, len(cells[y]), g.width),
				"grid",
			)
		}
		g.idMap[y] = make([]int, g.width)
		for x := 0; x < g.width; x++ {
			if cells[y][x] == 0 {
				g.idMap[y][x] = nextID
				g.coords = append(g.coords, [2]int{x, y})
				nextID++
			} else {
				g.idMap[y][x] = None
			}
		}
	}
	return g, nil
}

// Width returns the grid width in cells.
func (g *Graph) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Graph) Height() int { return g.height }

// NodeCount returns the number of passable cells.
func (g *Graph) NodeCount() int { return len(g.coords) }

// InBounds reports whether (x, y) lies inside the grid rectangle.
func (g *Graph) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Passable reports whether (x, y) is inside the grid and not blocked.
func (g *Graph) Passable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y][x] == 0
}

// ID returns the dense id of the passable cell at (x, y), or None when the
// coordinate is out of bounds or blocked.
func (g *Graph) ID(x, y int) int {
	if !g.InBounds(x, y) {
		return None
	}
	return g.idMap[y][x]
}

// XY is the inverse of ID. Unknown ids map to (-1, -1).
func (g *Graph) XY(id int) (int, int) {
	if id < 0 || id >= len(g.coords) {
		return -1, -1
	}
	c := g.coords[id]
	return c[0], c[1]
}

// Neighbors returns the ids of the up-to-four passable axis neighbors of
// the given cell, in E, W, S, N probe order.
func (g *Graph) Neighbors(id int) []int {
	if id < 0 || id >= len(g.coords) {
		return nil
	}
	x, y := g.coords[id][0], g.coords[id][1]
	result := make([]int, 0, 4)
	for k := 0; k < 4; k++ {
		nx, ny := x+dx[k], y+dy[k]
		if g.Passable(nx, ny) {
			result = append(result, g.idMap[ny][nx])
		}
	}
	return result
}

// NeighborInDirection returns the id of the passable neighbor in direction
// code d (E=0, W=1, S=2, N=3), or None.
func (g *Graph) NeighborInDirection(id, d int) int {
	if id < 0 || id >= len(g.coords) || d < 0 || d > 3 {
		return None
	}
	x, y := g.coords[id][0], g.coords[id][1]
	nx, ny := x+dx[d], y+dy[d]
	if !g.Passable(nx, ny) {
		return None
	}
	return g.idMap[ny][nx]
}

// Direction returns the direction code of the step from cell a to an
// axis-adjacent cell b, or -1 when the cells are not 4-adjacent.
func Direction(ax, ay, bx, by int) int {
	for k := 0; k < 4; k++ {
		if ax+dx[k] == bx && ay+dy[k] == by {
			return k
		}
	}
	return -1
}

// UndirectedEdges enumerates the undirected adjacency pairs {a, b} with
// a < b, in ascending order of a. The slice order is deterministic and is
// relied upon by the time expansion for reproducible edge-gadget layout.
func (g *Graph) UndirectedEdges() [][2]int {
	edges := make([][2]int, 0, g.NodeCount()*2)
	for cell := 0; cell < g.NodeCount(); cell++ {
		for _, nb := range g.Neighbors(cell) {
			if cell < nb {
				edges = append(edges, [2]int{cell, nb})
			}
		}
	}
	return edges
}
