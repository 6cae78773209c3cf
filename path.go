package gridastar

import "fmt"

// reconstructPath follows predecessor links back from goal and returns the
// route in start-to-goal order, marking every cell on it InPath.
// A chain that does not end at start is an ErrInternalConsistency.
func reconstructPath(grid *Grid, start, goal Coord) ([]Coord, error) {
	limit := len(grid.cells)
	path := []Coord{goal}
	current := goal
	for {
		cell := &grid.cells[grid.index(current)]
		previous, exists := cell.Predecessor()
		if !exists {
			break
		}
		if !grid.InBounds(previous) {
			return nil, fmt.Errorf("%w: %v has predecessor %v outside the grid",
				ErrInternalConsistency, current, previous)
		}
		if len(path) == limit {
			return nil, fmt.Errorf("%w: predecessor chain from %v is longer than the grid",
				ErrInternalConsistency, goal)
		}
		path = append(path, previous)
		current = previous
	}
	if current != start {
		return nil, fmt.Errorf("%w: predecessor chain from %v ends at %v, not at start %v",
			ErrInternalConsistency, goal, current, start)
	}

	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	for _, c := range path {
		grid.cells[grid.index(c)].InPath = true
	}
	return path, nil
}
