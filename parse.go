package gridastar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Map symbols understood by Parse and produced by String.
const (
	SymbolFree     = '.'
	SymbolObstacle = '#'
	SymbolStart    = 'S'
	SymbolEnd      = 'E'
	SymbolPath     = '*'
	SymbolFrontier = 'o'
	SymbolClosed   = 'x'
)

// MaxRowWidth is the widest row Parse accepts.
const MaxRowWidth = 1 << 20

// Parse reads a text map, one line per row. '#' is an obstacle, 'S' and 'E'
// are the endpoints, '.' is free. Blank lines are skipped and every row must
// have the same width.
func Parse(reader io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxRowWidth+2)
	scanner.Split(bufio.ScanLines)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		if len(lines) > 0 && len(line) != len(lines[0]) {
			return nil, fmt.Errorf("%w: row %d has width %d, expected %d",
				ErrMalformedMap, len(lines), len(line), len(lines[0]))
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: row %d is wider than %d cells", ErrMalformedMap, len(lines), MaxRowWidth)
		}
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty map", ErrMalformedMap)
	}

	g, err := NewGrid(len(lines), len(lines[0]))
	if err != nil {
		return nil, err
	}
	var start, end []Coord
	for r, line := range lines {
		for c, char := range []byte(line) {
			at := Coord{Row: r, Col: c}
			switch char {
			case SymbolFree:
			case SymbolObstacle:
				g.cells[g.index(at)].Obstacle = true
			case SymbolStart:
				start = append(start, at)
			case SymbolEnd:
				end = append(end, at)
			default:
				return nil, fmt.Errorf("%w: unexpected %q at %v", ErrMalformedMap, char, at)
			}
		}
	}
	if len(start) > 1 || len(end) > 1 {
		return nil, fmt.Errorf("%w: more than one start or end", ErrMalformedMap)
	}
	if len(start) == 1 {
		g.start, g.hasStart = start[0], true
	}
	if len(end) == 1 {
		g.end, g.hasEnd = end[0], true
	}
	return g, nil
}

// String renders the grid with its endpoints and the state of the last search.
func (g *Grid) String() string {
	var output strings.Builder
	output.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			output.WriteByte(g.symbol(Coord{Row: r, Col: c}))
		}
		output.WriteByte('\n')
	}
	return output.String()
}

func (g *Grid) symbol(at Coord) byte {
	if g.hasStart && at == g.start {
		return SymbolStart
	}
	if g.hasEnd && at == g.end {
		return SymbolEnd
	}
	if g.cells[g.index(at)].InPath {
		return SymbolPath
	}
	switch g.State(at) {
	case Blocked:
		return SymbolObstacle
	case Closed:
		return SymbolClosed
	case Frontier:
		return SymbolFrontier
	default:
		return SymbolFree
	}
}
