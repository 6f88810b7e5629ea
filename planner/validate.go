package planner

import (
	"fmt"

	"gridflow/pkg/apperror"
)

// ValidateSchedule checks a feasible result against the schedule
// invariants: path lengths and endpoints, per-target capacities, step
// adjacency, vertex conflicts, swap conflicts, and reservation violations.
// A nil return means the schedule is collision-free and well-formed.
//
// The planner itself guarantees these properties; the checker exists for
// hosts that post-process or merge schedules, and it backs the test suite.
func ValidateSchedule(req Request, res *Result) error {
	if res == nil {
		return apperror.New(apperror.CodeNilInput, "result is nil")
	}
	if !res.Feasible {
		return nil
	}
	if len(res.Paths) != len(req.Starts) {
		return apperror.New(apperror.CodeFlowViolation,
			fmt.Sprintf("got %d paths for %d agents", len(res.Paths), len(req.Starts)))
	}

	targetIndex := make(map[Coord]int, len(req.Targets))
	for j, tc := range req.Targets {
		targetIndex[tc] = j
	}
	caps, ok := capsOrDefault(req.TargetCaps, len(req.Targets))
	if !ok {
		return apperror.NewWithField(apperror.CodeInvalidCapacity,
			"target capacity list length mismatch", "target_caps")
	}
	occupancy := make([]int, len(req.Targets))

	for i, path := range res.Paths {
		if len(path) != req.Horizon+1 {
			return apperror.New(apperror.CodeFlowViolation,
				fmt.Sprintf("agent %d: path length %d, want %d", i, len(path), req.Horizon+1))
		}
		if path[0] != req.Starts[i] {
			return apperror.New(apperror.CodeFlowViolation,
				fmt.Sprintf("agent %d: path starts at %v, want %v", i, path[0], req.Starts[i]))
		}
		last := path[len(path)-1]
		j, isTarget := targetIndex[last]
		if !isTarget {
			return apperror.New(apperror.CodeFlowViolation,
				fmt.Sprintf("agent %d: final cell %v is not a target", i, last))
		}
		occupancy[j]++
		if occupancy[j] > caps[j] {
			return apperror.New(apperror.CodeInvalidCapacity,
				fmt.Sprintf("target %v exceeds capacity %d", last, caps[j]))
		}
		for t := 0; t < len(path)-1; t++ {
			if !stepValid(path[t], path[t+1]) {
				return apperror.New(apperror.CodeFlowViolation,
					fmt.Sprintf("agent %d: illegal step %v→%v at t=%d", i, path[t], path[t+1], t))
			}
		}
	}

	if err := checkConflicts(res.Paths); err != nil {
		return err
	}
	if err := checkReservations(res.Paths, req.ReservedCells, req.ReservedEdges); err != nil {
		return err
	}
	return nil
}

// stepValid accepts a wait or a 4-adjacent move.
func stepValid(a, b Coord) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy <= 1
}

// checkConflicts detects shared cells and edge swaps between any two paths.
func checkConflicts(paths [][]Coord) error {
	if len(paths) == 0 {
		return nil
	}
	horizon := len(paths[0]) - 1
	for t := 0; t <= horizon; t++ {
		seen := make(map[Coord]int, len(paths))
		for i, path := range paths {
			if other, dup := seen[path[t]]; dup {
				return apperror.New(apperror.CodeFlowViolation,
					fmt.Sprintf("agents %d and %d share cell %v at t=%d", other, i, path[t], t))
			}
			seen[path[t]] = i
		}
	}
	for t := 0; t < horizon; t++ {
		moves := make(map[[2]Coord]int, len(paths))
		for i, path := range paths {
			if path[t] == path[t+1] {
				continue
			}
			if other, swap := moves[[2]Coord{path[t+1], path[t]}]; swap {
				return apperror.New(apperror.CodeFlowViolation,
					fmt.Sprintf("agents %d and %d swap across %v-%v at t=%d", other, i, path[t], path[t+1], t))
			}
			moves[[2]Coord{path[t], path[t+1]}] = i
		}
	}
	return nil
}

// checkReservations rejects any path touching a reserved cell at its time
// or traversing a reserved edge during its slot.
func checkReservations(paths [][]Coord, cells []CellReservation, edges []EdgeReservation) error {
	for _, r := range cells {
		for i, path := range paths {
			if r.T >= 0 && r.T < len(path) && path[r.T] == (Coord{X: r.X, Y: r.Y}) {
				return apperror.New(apperror.CodeFlowViolation,
					fmt.Sprintf("agent %d occupies reserved cell (%d,%d) at t=%d", i, r.X, r.Y, r.T))
			}
		}
	}
	for _, r := range edges {
		u := Coord{X: r.X1, Y: r.Y1}
		v := Coord{X: r.X2, Y: r.Y2}
		for i, path := range paths {
			if r.T < 0 || r.T+1 >= len(path) {
				continue
			}
			a, b := path[r.T], path[r.T+1]
			if (a == u && b == v) || (a == v && b == u) {
				return apperror.New(apperror.CodeFlowViolation,
					fmt.Sprintf("agent %d traverses reserved edge (%d,%d)-(%d,%d) at t=%d",
						i, r.X1, r.Y1, r.X2, r.Y2, r.T))
			}
		}
	}
	return nil
}

// ValidateRotation checks the rotation-specific invariants on top of
// ValidateSchedule: facing continuity from the start directions and the
// wait / rotate-90° / move-forward transition rule.
func ValidateRotation(req RotRequest, res *Result) error {
	if res == nil {
		return apperror.New(apperror.CodeNilInput, "result is nil")
	}
	if !res.Feasible {
		return nil
	}
	if len(res.PathDirs) != len(res.Paths) {
		return apperror.New(apperror.CodeFlowViolation,
			fmt.Sprintf("got %d direction tracks for %d paths", len(res.PathDirs), len(res.Paths)))
	}
	for i, dirs := range res.PathDirs {
		path := res.Paths[i]
		if len(dirs) != len(path) {
			return apperror.New(apperror.CodeFlowViolation,
				fmt.Sprintf("agent %d: %d directions for %d steps", i, len(dirs), len(path)))
		}
		if dirs[0] != req.StartDirs[i] {
			return apperror.New(apperror.CodeFlowViolation,
				fmt.Sprintf("agent %d: starts facing %v, want %v", i, dirs[0], req.StartDirs[i]))
		}
		for t := 0; t < len(path)-1; t++ {
			if !rotStepValid(path[t], dirs[t], path[t+1], dirs[t+1]) {
				return apperror.New(apperror.CodeFlowViolation,
					fmt.Sprintf("agent %d: illegal transition %v/%v → %v/%v at t=%d",
						i, path[t], dirs[t], path[t+1], dirs[t+1], t))
			}
		}
	}
	return nil
}

// rotStepValid accepts wait (same cell, same facing), rotate (same cell,
// perpendicular facing), or a forward move along the current facing.
func rotStepValid(a Coord, da Direction, b Coord, db Direction) bool {
	if a == b {
		if da == db {
			return true
		}
		// 90° rotation flips between the E/W and S/N axes.
		return (da <= West) != (db <= West)
	}
	if da != db {
		return false
	}
	step := [4]Coord{
		East:  {X: 1, Y: 0},
		West:  {X: -1, Y: 0},
		South: {X: 0, Y: 1},
		North: {X: 0, Y: -1},
	}[da]
	return b.X-a.X == step.X && b.Y-a.Y == step.Y
}
