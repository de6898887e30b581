package rules

import (
	"math/rand"
	"testing"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/stretchr/testify/require"
)

func TestReachableCount(t *testing.T) {
	tests := []struct {
		Name     string
		Grid     board.Grid
		Origin   board.Point
		Blocked  []board.Point
		Expected int
	}{
		{
			Name:     "open grid",
			Grid:     board.Grid{Width: 3, Height: 3},
			Origin:   board.Point{X: 1, Y: 1},
			Expected: 8,
		},
		{
			Name:     "boxed in",
			Grid:     board.Grid{Width: 3, Height: 3},
			Origin:   board.Point{X: 0, Y: 0},
			Blocked:  pts(1, 0, 0, 1),
			Expected: 0,
		},
		{
			Name:     "wall splits the grid",
			Grid:     board.Grid{Width: 4, Height: 4},
			Origin:   board.Point{X: 0, Y: 0},
			Blocked:  pts(1, 0, 1, 1, 1, 2, 1, 3),
			Expected: 3,
		},
		{
			Name:     "blocked origin is not counted",
			Grid:     board.Grid{Width: 2, Height: 1},
			Origin:   board.Point{X: 0, Y: 0},
			Blocked:  pts(0, 0),
			Expected: 1,
		},
		{
			Name:     "single cell grid",
			Grid:     board.Grid{Width: 1, Height: 1},
			Origin:   board.Point{X: 0, Y: 0},
			Expected: 0,
		},
	}

	for _, test := range tests {
		got := ReachableCount(test.Grid, test.Origin, board.Occupancy(test.Blocked))
		require.Equal(t, test.Expected, got, test.Name)
	}
}

func TestReachableCount_MatchesComponentSize(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	grid := board.Grid{Width: 4, Height: 4}

	for i := 0; i < 500; i++ {
		origin := board.Point{X: rng.Intn(grid.Width), Y: rng.Intn(grid.Height)}
		blocked := randomBlocked(rng, grid, origin)

		got := ReachableCount(grid, origin, blocked)
		require.True(t, got <= grid.Cells()-len(blocked)-1, "bound broken for %v %v", origin, blocked)
		require.Equal(t, componentSize(grid, origin, blocked), got, "origin %v blocked %v", origin, blocked)
	}
}
