package planner

// ReservedCellsFromPaths converts previously planned paths into cell
// reservations, blocking every visited (cell, t) for subsequent rounds.
func ReservedCellsFromPaths(paths [][]Coord) []CellReservation {
	var reserved []CellReservation
	for _, path := range paths {
		for t, c := range path {
			reserved = append(reserved, CellReservation{X: c.X, Y: c.Y, T: t})
		}
	}
	return reserved
}

// ReservedEdgesFromPaths converts previously planned paths into edge
// reservations, blocking every traversed undirected edge during its slot.
// Waits produce no edge reservation.
func ReservedEdgesFromPaths(paths [][]Coord) []EdgeReservation {
	var reserved []EdgeReservation
	for _, path := range paths {
		for t := 0; t < len(path)-1; t++ {
			a, b := path[t], path[t+1]
			if a == b {
				continue
			}
			reserved = append(reserved, EdgeReservation{
				X1: a.X, Y1: a.Y,
				X2: b.X, Y2: b.Y,
				T:  t,
			})
		}
	}
	return reserved
}
