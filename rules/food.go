package rules

import (
	"math/rand"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/pkg/errors"
)

// ErrBoardFull is returned when there is no free cell left to put food on.
var ErrBoardFull = errors.New("rules: board is full")

// PlaceFood picks a cell not covered by the snake, uniformly at random.
func PlaceFood(grid board.Grid, snake *board.Snake, rng *rand.Rand) (board.Point, error) {
	open := getUnoccupiedPoints(grid, snake)
	if len(open) == 0 {
		return board.Point{}, ErrBoardFull
	}
	return open[rng.Intn(len(open))], nil
}

func getUnoccupiedPoints(grid board.Grid, snake *board.Snake) []board.Point {
	occupied := board.Occupancy(snake.Body)
	candidates := make([]board.Point, 0, grid.Cells()-len(occupied))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			p := board.Point{X: x, Y: y}
			if !occupied[p] {
				candidates = append(candidates, p)
			}
		}
	}
	return candidates
}

// tickRand is the random source used for the food placed on turn. It only
// depends on the game seed and the turn so a tick can be replayed on its own.
func tickRand(game *board.Game, turn int32) *rand.Rand {
	return rand.New(rand.NewSource(game.Seed + int64(turn)))
}
