package gridastar

// MoveCost is the cost of stepping between two 4-adjacent cells.
func MoveCost(from, to Coord) float64 { return 1 }

// Manhattan returns the Manhattan distance between a and b. On a unit-cost
// 4-connected grid it never overestimates and is consistent, so a closed cell
// never needs reopening.
func Manhattan(a, b Coord) float64 {
	return float64(abs(a.Row-b.Row) + abs(a.Col-b.Col))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
