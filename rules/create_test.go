package rules

import (
	"testing"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCreateInitialGame(t *testing.T) {
	game, frames, err := CreateInitialGame(&CreateRequest{Seed: 7})
	require.NoError(t, err)
	require.NotEmpty(t, game.ID)
	require.Equal(t, 14, game.Width)
	require.Equal(t, 12, game.Height)
	require.Equal(t, DefaultCellSize, game.CellSize)
	require.Equal(t, string(GameStatusStopped), game.Status)
	require.Equal(t, int32(DefaultTickDelay), game.TickDelay)
	require.Equal(t, int64(7), game.Seed)

	require.Len(t, frames, 1)
	f := frames[0]
	require.Equal(t, int32(0), f.Turn)
	require.Equal(t, []board.Point{{}, {}}, f.Snake.Body)
	require.NotNil(t, f.Food)
	require.NotEqual(t, board.Point{}, *f.Food)

	// Same seed, same first food.
	_, again, err := CreateInitialGame(&CreateRequest{Seed: 7})
	require.NoError(t, err)
	require.Equal(t, *f.Food, *again[0].Food)
}

func TestCreateInitialGame_CustomBoard(t *testing.T) {
	game, frames, err := CreateInitialGame(&CreateRequest{
		Width:     200,
		Height:    100,
		CellSize:  20,
		BodyParts: 3,
		TickDelay: 5,
	})
	require.NoError(t, err)
	require.Equal(t, board.Grid{Width: 10, Height: 5}, game.Grid())
	require.Equal(t, 3, frames[0].Snake.Len())
	require.NotZero(t, game.Seed)
}

func TestCreateInitialGame_TooSmall(t *testing.T) {
	_, _, err := CreateInitialGame(&CreateRequest{Width: 10, Height: 600, CellSize: 50})
	require.Error(t, err)
	require.Equal(t, ErrNoCells, errors.Cause(err))
}

func TestCreateInitialGame_TooLarge(t *testing.T) {
	_, _, err := CreateInitialGame(&CreateRequest{Width: 1 << 30, Height: 1 << 30, CellSize: 1})
	require.Error(t, err)
	require.Equal(t, ErrTooLarge, errors.Cause(err))

	// 2x2 cells cannot hold five body parts.
	_, _, err = CreateInitialGame(&CreateRequest{Width: 100, Height: 100, CellSize: 50, BodyParts: 5})
	require.Error(t, err)
	require.Equal(t, ErrTooLarge, errors.Cause(err))
}
