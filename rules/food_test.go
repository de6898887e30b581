package rules

import (
	"math/rand"
	"testing"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestPlaceFood_NeverOnSnake(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	grid := board.Grid{Width: 4, Height: 4}

	for i := 0; i < 200; i++ {
		snake := randomSnake(rng, grid, 1+rng.Intn(15))
		food, err := PlaceFood(grid, snake, rng)
		require.NoError(t, err)
		require.True(t, grid.InBounds(food))
		require.False(t, snake.Contains(food), "food %v on snake %v", food, snake.Body)
	}
}

func TestPlaceFood_BoardFull(t *testing.T) {
	grid := board.Grid{Width: 2, Height: 2}
	snake := &board.Snake{Body: pts(0, 0, 1, 0, 1, 1, 0, 1)}

	_, err := PlaceFood(grid, snake, rand.New(rand.NewSource(1)))
	require.Equal(t, ErrBoardFull, err)
	require.Equal(t, ErrBoardFull, errors.Cause(errors.Wrap(err, "placing food")))
}

func TestPlaceFood_LastFreeCell(t *testing.T) {
	grid := board.Grid{Width: 2, Height: 2}
	snake := &board.Snake{Body: pts(0, 0, 1, 0, 1, 1)}

	food, err := PlaceFood(grid, snake, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, board.Point{X: 0, Y: 1}, food)
}

func TestPlaceFood_Deterministic(t *testing.T) {
	grid := board.Grid{Width: 14, Height: 12}
	snake := board.NewSnake(board.Point{}, 2)

	a, err := PlaceFood(grid, snake, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	b, err := PlaceFood(grid, snake, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	require.Equal(t, a, b)
}
