package gridastar

import (
	"fmt"
	"math"
)

// engine is the A* state machine for one run. Search and Stepper both drive it
// through step, one popped cell at a time.
type engine struct {
	grid        *Grid
	start, goal int
	open        *frontier
	observer    Observer

	emitted  int
	expanded int
	done     bool
	result   Result
}

// newEngine resets the grid's search state and seeds the frontier with start.
// The request must already be validated.
func newEngine(grid *Grid, start, goal Coord, observer Observer) *engine {
	if observer == nil {
		observer = nopObserver{}
	}
	grid.Reset(true)
	e := &engine{
		grid:     grid,
		start:    grid.index(start),
		goal:     grid.index(goal),
		open:     newFrontier(len(grid.cells)),
		observer: observer,
	}
	startCell := &grid.cells[e.start]
	startCell.G = 0
	startCell.H = Manhattan(start, goal)
	startCell.F = startCell.H
	e.open.upsert(e.start, startCell.F)
	return e
}

func (e *engine) emit(kind EventKind, cellIndex int) {
	e.observer.Observe(Event{Kind: kind, Coord: e.grid.coord(cellIndex), Seq: e.emitted})
	e.emitted++
}

func (e *engine) finish(result Result) {
	e.done = true
	e.result = result
}

// step pops one cell and either finishes the run or expands the cell.
// It returns the popped cell index, or -1 when the frontier was empty.
func (e *engine) step() (int, error) {
	if e.open.Len() == 0 {
		e.finish(Result{Outcome: NoPath, Expanded: e.expanded})
		return -1, nil
	}

	current := e.open.pop()
	cell := &e.grid.cells[current]

	if current == e.goal {
		path, err := reconstructPath(e.grid, e.grid.coord(e.start), cell.Coord)
		if err != nil {
			e.done = true
			return current, err
		}
		for _, c := range path {
			if i := e.grid.index(c); i != e.start && i != e.goal {
				e.emit(PathMember, i)
			}
		}
		e.finish(Result{Outcome: PathFound, Path: path, Cost: cell.G, Expanded: e.expanded})
		return current, nil
	}

	cell.Visited = true
	e.expanded++
	if current != e.start {
		e.emit(Visited, current)
	}

	goal := e.grid.coord(e.goal)
	for _, n := range e.grid.Neighbors(cell.Coord) {
		next := e.grid.index(n)
		neighbor := &e.grid.cells[next]
		if neighbor.Obstacle {
			continue
		}
		tentativeG := cell.G + MoveCost(cell.Coord, n)
		if neighbor.Visited {
			if tentativeG < neighbor.G {
				e.done = true
				return current, fmt.Errorf("%w: closed cell %v relaxed from %v (g %.1f < %.1f)",
					ErrInternalConsistency, n, cell.Coord, tentativeG, neighbor.G)
			}
			continue
		}

		unseen := math.IsInf(neighbor.G, 1)
		if !unseen && tentativeG >= neighbor.G {
			continue
		}
		if unseen {
			neighbor.H = Manhattan(n, goal)
		}
		neighbor.prev, neighbor.hasPrev = cell.Coord, true
		neighbor.G = tentativeG
		neighbor.F = neighbor.G + neighbor.H

		inOpen := e.open.contains(next)
		e.open.upsert(next, neighbor.F)
		if !inOpen && next != e.start && next != e.goal {
			e.emit(FrontierAdded, next)
		}
	}
	return current, nil
}
