package gridastar

import (
	"fmt"
	"math"
)

// Coord identifies a cell by row and column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// directions lists the axis-aligned moves in neighbor order: up, down, left, right.
var directions = [4]Coord{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Cell is a snapshot of one grid cell.
// G, H and F are only meaningful for the most recent search run.
type Cell struct {
	Coord    Coord
	Obstacle bool
	Visited  bool
	InPath   bool
	G        float64
	H        float64
	F        float64

	prev    Coord
	hasPrev bool
}

// Predecessor returns the cell this one was reached from on the best known route.
func (c Cell) Predecessor() (Coord, bool) { return c.prev, c.hasPrev }

func (c *Cell) clearSearch() {
	c.Visited = false
	c.InPath = false
	c.G = math.Inf(1)
	c.H = 0
	c.F = math.Inf(1)
	c.prev = Coord{}
	c.hasPrev = false
}

// CellState is the search state of a cell as implied by its fields.
type CellState int

const (
	Unseen CellState = iota
	Frontier
	Closed
	Blocked
)

func (s CellState) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case Frontier:
		return "frontier"
	case Closed:
		return "closed"
	case Blocked:
		return "blocked"
	default:
		return fmt.Sprintf("n/a:%d", int(s))
	}
}

// Grid is a fixed-size rectangular arena of cells, indexed row-major.
type Grid struct {
	rows, cols int
	cells      []Cell

	start, end       Coord
	hasStart, hasEnd bool
}

// NewGrid creates a rows x cols grid with no obstacles and no endpoints.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if rows > math.MaxInt/cols {
		return nil, fmt.Errorf("%w: %dx%d cells overflow", ErrInvalidDimensions, rows, cols)
	}
	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := &g.cells[r*cols+c]
			cell.Coord = Coord{Row: r, Col: c}
			cell.clearSearch()
		}
	}
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

func (g *Grid) index(c Coord) int { return c.Row*g.cols + c.Col }

func (g *Grid) coord(i int) Coord { return g.cells[i].Coord }

// Cell returns a copy of the cell at c.
func (g *Grid) Cell(c Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return g.cells[g.index(c)], true
}

// SetObstacle marks or clears an obstacle. Endpoints may be covered; a search
// started in that state is rejected as invalid.
func (g *Grid) SetObstacle(c Coord, obstacle bool) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	g.cells[g.index(c)].Obstacle = obstacle
	return nil
}

// IsObstacle reports whether c is blocked. Out of bounds counts as blocked.
func (g *Grid) IsObstacle(c Coord) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.cells[g.index(c)].Obstacle
}

// SetStart assigns the start endpoint.
func (g *Grid) SetStart(c Coord) error {
	if err := g.checkEndpoint(c, g.end, g.hasEnd, "end"); err != nil {
		return err
	}
	g.start, g.hasStart = c, true
	return nil
}

// SetEnd assigns the end endpoint.
func (g *Grid) SetEnd(c Coord) error {
	if err := g.checkEndpoint(c, g.start, g.hasStart, "start"); err != nil {
		return err
	}
	g.end, g.hasEnd = c, true
	return nil
}

func (g *Grid) checkEndpoint(c, other Coord, hasOther bool, otherName string) error {
	switch {
	case !g.InBounds(c):
		return fmt.Errorf("%w: %v is out of bounds", ErrEndpointRejected, c)
	case g.cells[g.index(c)].Obstacle:
		return fmt.Errorf("%w: %v is an obstacle", ErrEndpointRejected, c)
	case hasOther && other == c:
		return fmt.Errorf("%w: %v is already the %s", ErrEndpointRejected, c, otherName)
	}
	return nil
}

func (g *Grid) ClearStart() { g.start, g.hasStart = Coord{}, false }
func (g *Grid) ClearEnd()   { g.end, g.hasEnd = Coord{}, false }

func (g *Grid) Start() (Coord, bool) { return g.start, g.hasStart }
func (g *Grid) End() (Coord, bool)   { return g.end, g.hasEnd }

// Neighbors returns the in-bounds axis-aligned neighbors of c in the order
// up, down, left, right. Obstacles are included.
func (g *Grid) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, len(directions))
	for _, d := range directions {
		n := Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Reset restores the search-scoped fields of every cell to their defaults.
// With preserveObstacles false the obstacle flags are cleared as well.
// Endpoints are kept either way.
func (g *Grid) Reset(preserveObstacles bool) {
	for i := range g.cells {
		g.cells[i].clearSearch()
		if !preserveObstacles {
			g.cells[i].Obstacle = false
		}
	}
}

// State derives the search state of c from its fields.
func (g *Grid) State(c Coord) CellState {
	cell, ok := g.Cell(c)
	switch {
	case !ok || cell.Obstacle:
		return Blocked
	case cell.Visited:
		return Closed
	case !math.IsInf(cell.G, 1):
		return Frontier
	default:
		return Unseen
	}
}
