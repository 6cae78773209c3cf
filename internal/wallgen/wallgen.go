// Package wallgen scatters obstacles over a grid for demos and the visualizer.
package wallgen

import (
	"math/rand"

	"github.com/pdrpinto/gridastar"
)

// DefaultDensity is the share of cells Uniform blocks by default.
const DefaultDensity = 0.25

// Uniform blocks each cell independently with probability density.
// Cells listed in keep are never blocked.
func Uniform(rows, cols int, density float64, rng *rand.Rand, keep ...gridastar.Coord) []gridastar.Coord {
	skip := keepSet(keep)
	var walls []gridastar.Coord
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := gridastar.Coord{Row: r, Col: c}
			if rng.Float64() < density && !skip[p] {
				walls = append(walls, p)
			}
		}
	}
	return walls
}

// Clustered grows wall clusters by random walks: each of clusters walks
// start at a random cell and take steps moves, blocking the cell under them
// with probability density.
func Clustered(rows, cols, clusters, steps int, density float64, rng *rand.Rand, keep ...gridastar.Coord) []gridastar.Coord {
	skip := keepSet(keep)
	seen := map[gridastar.Coord]bool{}
	var walls []gridastar.Coord
	moves := [4]gridastar.Coord{{Row: 1}, {Row: -1}, {Col: 1}, {Col: -1}}
	for c := 0; c < clusters; c++ {
		p := gridastar.Coord{Row: rng.Intn(rows), Col: rng.Intn(cols)}
		for s := 0; s < steps; s++ {
			if rng.Float64() < density && !skip[p] && !seen[p] {
				seen[p] = true
				walls = append(walls, p)
			}
			d := moves[rng.Intn(len(moves))]
			np := gridastar.Coord{Row: p.Row + d.Row, Col: p.Col + d.Col}
			if np.Row >= 0 && np.Row < rows && np.Col >= 0 && np.Col < cols {
				p = np
			}
		}
	}
	return walls
}

// Apply blocks every coordinate in walls on g.
func Apply(g *gridastar.Grid, walls []gridastar.Coord) error {
	for _, w := range walls {
		if err := g.SetObstacle(w, true); err != nil {
			return err
		}
	}
	return nil
}

// RandomEndpoints picks two distinct cells for start and end.
func RandomEndpoints(rows, cols int, rng *rand.Rand) (gridastar.Coord, gridastar.Coord) {
	for {
		start := gridastar.Coord{Row: rng.Intn(rows), Col: rng.Intn(cols)}
		end := gridastar.Coord{Row: rng.Intn(rows), Col: rng.Intn(cols)}
		if start != end || rows*cols == 1 {
			return start, end
		}
	}
}

func keepSet(keep []gridastar.Coord) map[gridastar.Coord]bool {
	skip := make(map[gridastar.Coord]bool, len(keep))
	for _, k := range keep {
		skip[k] = true
	}
	return skip
}
