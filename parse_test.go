package gridastar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("reads obstacles and endpoints", func(t *testing.T) {
		g, err := Parse(strings.NewReader("S.#\n\n.#E\n"))
		require.NoError(t, err)
		assert.Equal(t, 2, g.Rows())
		assert.Equal(t, 3, g.Cols())
		assert.True(t, g.IsObstacle(Coord{0, 2}))
		assert.True(t, g.IsObstacle(Coord{1, 1}))
		assert.False(t, g.IsObstacle(Coord{1, 0}))

		start, ok := g.Start()
		assert.True(t, ok)
		assert.Equal(t, Coord{0, 0}, start)
		end, ok := g.End()
		assert.True(t, ok)
		assert.Equal(t, Coord{1, 2}, end)
	})

	t.Run("endpoints are optional", func(t *testing.T) {
		g, err := Parse(strings.NewReader("..\n..\n"))
		require.NoError(t, err)
		_, ok := g.Start()
		assert.False(t, ok)
	})

	for name, text := range map[string]string{
		"empty":          "\n\n",
		"ragged rows":    "...\n..\n",
		"unknown symbol": "S?E\n",
		"two starts":     "S.S\n..E\n",
		"two ends":       "S.E\nE..\n",
		"row too wide":   "S" + strings.Repeat(".", MaxRowWidth+8) + "E\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(text))
			assert.ErrorIs(t, err, ErrMalformedMap)
		})
	}

	t.Run("rows wider than the default scan buffer", func(t *testing.T) {
		row := "S" + strings.Repeat(".", 100_000) + "E\n"
		g, err := Parse(strings.NewReader(row))
		require.NoError(t, err)
		assert.Equal(t, 100_002, g.Cols())
	})
}

func TestGridString(t *testing.T) {
	t.Run("round trips a fresh map", func(t *testing.T) {
		text := "S.#\n.#.\n..E\n"
		g := mustParse(t, text)
		assert.Equal(t, text, g.String())
	})

	t.Run("shows search state", func(t *testing.T) {
		g := mustParse(t, "S..E\n")
		_, err := SearchGrid(testContext(t), g)
		require.NoError(t, err)
		assert.Equal(t, "S**E\n", g.String())
	})

	t.Run("shows frontier and closed cells after a failed search", func(t *testing.T) {
		g := mustParse(t,
			"S.#E\n")
		_, err := SearchGrid(testContext(t), g)
		require.NoError(t, err)
		assert.Equal(t, "Sx#E\n", g.String())
	})

	t.Run("shows frontier cells mid-run", func(t *testing.T) {
		g := mustParse(t, "...\n.S.\n..E\n")
		s, err := NewStepper(g, Coord{1, 1}, Coord{2, 2})
		require.NoError(t, err)
		_, err = s.Step()
		require.NoError(t, err)
		assert.Equal(t, ".o.\noSo\n.oE\n", g.String())
	})
}
