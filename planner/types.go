// Package planner exposes the time-expanded multi-commodity path planner.
//
// Three entry points cover the supported problem shapes: PlanFlow routes
// every agent from its start to some target within a fixed horizon,
// PlanFlowSync additionally forces all agents through designated pickup
// cells at one rendezvous time, and PlanFlowRot plans for agents that carry
// a facing direction and may only wait, rotate 90°, or move forward.
//
// Feasibility questions are answered through the Result value; an error is
// returned only for domain mistakes (unknown engine name, ragged grid).
// Given identical inputs every entry point produces identical outputs.
package planner

import "fmt"

// Direction is a facing code for the rotation-aware variant. The codes
// match the grid's neighbor probe order.
type Direction int

const (
	East  Direction = 0
	West  Direction = 1
	South Direction = 2
	North Direction = 3
)

// String returns the compass name of the direction.
func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case West:
		return "west"
	case South:
		return "south"
	case North:
		return "north"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Coord is a grid coordinate. X runs along a row, Y selects the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CellReservation blocks one cell at one time step for all agents.
type CellReservation struct {
	X int `json:"x"`
	Y int `json:"y"`
	T int `json:"t"`
}

// EdgeReservation blocks both traversal directions of one undirected grid
// edge during one time slot. The endpoint pair is unordered.
type EdgeReservation struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
	T  int `json:"t"`
}

// Request describes a standard planning instance.
type Request struct {
	// Grid is a rectangular matrix; 0 = passable, nonzero = blocked.
	Grid [][]int

	// Starts holds one entry per agent.
	Starts []Coord

	// Targets are the cells agents may finish on.
	Targets []Coord

	// TargetCaps holds one positive capacity per target. Empty means one
	// agent per target.
	TargetCaps []int

	// Horizon is the schedule length T; paths span t = 0 … T.
	Horizon int

	// ReservedCells and ReservedEdges carve fixed obstacles out of the
	// time expansion, typically derived from previously planned rounds.
	ReservedCells []CellReservation
	ReservedEdges []EdgeReservation

	// Method selects the flow engine: "dinic" (default) or "hlpp",
	// case-insensitive.
	Method string
}

// SyncRequest describes a synchronized-rendezvous instance: every agent
// must occupy some pickup cell at time Tau and some drop cell at time
// Horizon.
type SyncRequest struct {
	Grid     [][]int
	Starts   []Coord
	Pickups  []Coord
	Drops    []Coord
	DropCaps []int
	Horizon  int
	Tau      int
	Method   string
}

// RotRequest describes a rotation-aware instance. StartDirs holds the
// initial facing per agent, aligned with Starts.
type RotRequest struct {
	Grid          [][]int
	Starts        []Coord
	StartDirs     []Direction
	Targets       []Coord
	TargetCaps    []int
	Horizon       int
	ReservedCells []CellReservation
	ReservedEdges []EdgeReservation
	Method        string
}

// Result is the outcome of one planning invocation.
//
// When Feasible is true, Paths holds one path of length Horizon+1 per
// agent, Paths[i][0] equals the agent's start, and Paths[i][Horizon] lies
// on a target (drop). Agents whose flow reaches a target before the
// horizon park there for the remaining steps. PathDirs is populated by the
// rotation variant only, aligned index-for-index with Paths.
//
// When Feasible is false both slices are empty. Infeasibility is a data
// answer, not an error.
type Result struct {
	Feasible bool          `json:"feasible"`
	Paths    [][]Coord     `json:"paths"`
	PathDirs [][]Direction `json:"path_dirs,omitempty"`
}

// infeasible is the canonical negative result.
func infeasible() *Result {
	return &Result{Feasible: false, Paths: [][]Coord{}}
}
