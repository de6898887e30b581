package rules

import (
	"math/rand"
	"testing"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/stretchr/testify/require"
)

func TestPostMoveBody(t *testing.T) {
	snake := &board.Snake{Body: pts(1, 1, 1, 2, 1, 3)}
	require.Equal(t, pts(1, 0, 1, 1, 1, 2), PostMoveBody(snake, board.Point{X: 1, Y: 0}))
	require.Equal(t, pts(1, 1, 1, 2, 1, 3), snake.Body, "snake must not be modified")

	single := &board.Snake{Body: pts(0, 0)}
	require.Equal(t, pts(1, 0), PostMoveBody(single, board.Point{X: 1, Y: 0}))
}

func TestIsSafe(t *testing.T) {
	grid := board.Grid{Width: 4, Height: 4}
	// Column x=1 is the body with the tail bent into the left pocket. The
	// pocket only holds 3 cells for a snake of length 5.
	snake := &board.Snake{Body: pts(1, 0, 1, 1, 1, 2, 1, 3, 0, 3)}

	require.False(t, IsSafe(grid, snake, board.Point{X: 0, Y: 0}))
	require.True(t, IsSafe(grid, snake, board.Point{X: 2, Y: 0}))
	require.True(t, CanEscape(grid, snake, board.Point{X: 2, Y: 0}, 2))
	require.False(t, CanEscape(grid, snake, board.Point{X: 2, Y: 0}, 3))
}

func TestIsSafe_RandomSnakes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	grid := board.Grid{Width: 4, Height: 4}

	for i := 0; i < 500; i++ {
		snake := randomSnake(rng, grid, 1+rng.Intn(12))
		for _, next := range grid.MoveCandidates(snake.Head()) {
			if snake.Contains(next) {
				continue
			}
			post := PostMoveBody(snake, next)
			space := ReachableCount(grid, next, board.Occupancy(post))
			require.Equal(t, space >= snake.Len(), IsSafe(grid, snake, next), "snake %v next %v", snake.Body, next)
			require.Equal(t, IsSafe(grid, snake, next), CanEscape(grid, snake, next, 0))
			if IsSafe(grid, snake, next) {
				require.True(t, space >= snake.Len())
			}
		}
	}
}
