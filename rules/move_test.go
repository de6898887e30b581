package rules

import (
	"math/rand"
	"testing"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestChooseMove_OpeningHeadsForFood(t *testing.T) {
	grid := board.GridFromPixels(700, 600, 50)
	snake := board.NewSnake(board.Point{}, 2)
	food := board.Point{X: 2, Y: 2}

	d := DefaultPolicy.Decide(grid, snake, food)
	require.Equal(t, ModeNormal, d.Mode)
	require.Equal(t, RuleFood, d.Rule)
	require.Equal(t, 167, d.FreeSpaces)
	require.Equal(t, board.Point{X: 1, Y: 0}, d.Move)
	require.Equal(t, board.Right, d.Direction)
	require.True(t, snake.Head().Adjacent(d.Move))
	require.True(t, IsSafe(grid, snake, d.Move))

	require.Equal(t, d.Move, ChooseMove(grid, snake, food))
}

func TestDecide_FallsBackToLargestSpaceWhenFoodIsUnreachable(t *testing.T) {
	grid := board.Grid{Width: 5, Height: 5}
	// The body walls off the food in the top left corner. The tail is part of
	// the body, so there is no path to it either.
	snake := &board.Snake{Body: pts(2, 1, 2, 0, 1, 0, 1, 1, 0, 1)}

	d := DefaultPolicy.Decide(grid, snake, board.Point{X: 0, Y: 0})
	require.Equal(t, ModeNormal, d.Mode)
	require.Equal(t, RuleLargestSpace, d.Rule)
	// Down and right both leave 20 cells, down comes first.
	require.Equal(t, board.Point{X: 2, Y: 2}, d.Move)
}

func TestDecide_TailRuleNeverFires(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	grid := board.Grid{Width: 6, Height: 6}

	for i := 0; i < 500; i++ {
		snake := randomSnake(rng, grid, 1+rng.Intn(20))
		food, err := PlaceFood(grid, snake, rng)
		if err != nil {
			continue
		}
		d := DefaultPolicy.Decide(grid, snake, food)
		require.NotEqual(t, RuleTail, d.Rule, spew.Sdump(snake.Body, food, d))
	}
}

func TestDecide_EndgameFullBlock(t *testing.T) {
	grid := board.Grid{Width: 4, Height: 4}
	// A 3x3 block of body in the top left corner, 7 free cells around it.
	snake := &board.Snake{Body: pts(2, 2, 2, 1, 2, 0, 1, 0, 1, 1, 1, 2, 0, 2, 0, 1, 0, 0)}

	d := DefaultPolicy.Decide(grid, snake, board.Point{X: 3, Y: 3})
	require.Equal(t, ModeEndgame, d.Mode)
	require.Equal(t, 7, d.FreeSpaces)
	require.Equal(t, 1, d.VerticalAccepted)
	// Down and right both leave 6 cells, the vertical move wins the tie.
	require.Equal(t, RuleLargestSpace, d.Rule)
	require.Equal(t, board.Point{X: 2, Y: 3}, d.Move)
	require.True(t, d.Direction.IsVertical())
}

func TestDecide_EndgameVerticalMove(t *testing.T) {
	grid := board.Grid{Width: 2, Height: 5}
	snake := &board.Snake{Body: pts(0, 2, 1, 2)}

	d := DefaultPolicy.Decide(grid, snake, board.Point{X: 1, Y: 4})
	require.Equal(t, ModeEndgame, d.Mode)
	require.Equal(t, 8, d.FreeSpaces)
	require.Equal(t, RuleVertical, d.Rule)
	require.Equal(t, board.Point{X: 0, Y: 1}, d.Move)
	require.Equal(t, 1, d.VerticalAccepted)

	// Without vertical picks the largest space fallback still prefers up.
	d = Policy{EndgameThreshold: 10, VerticalLimit: 0}.Decide(grid, snake, board.Point{X: 1, Y: 4})
	require.Equal(t, RuleLargestSpace, d.Rule)
	require.Equal(t, board.Point{X: 0, Y: 1}, d.Move)
	require.Equal(t, 0, d.VerticalAccepted)
}

func TestLimitedVerticalMove_AcceptanceCap(t *testing.T) {
	grid := board.Grid{Width: 2, Height: 6}
	// Up leads to a 3 cell pocket, down to 5 cells.
	snake := &board.Snake{Body: pts(0, 2, 1, 2, 1, 1)}

	tests := []struct {
		Limit    int
		Move     board.Point
		Accepted int
		Found    bool
		Rule     string
	}{
		{Limit: 0, Accepted: 0, Found: false, Rule: RuleLargestSpace},
		{Limit: 1, Move: board.Point{X: 0, Y: 1}, Accepted: 1, Found: true, Rule: RuleLargestSpace},
		{Limit: 2, Move: board.Point{X: 0, Y: 3}, Accepted: 2, Found: true, Rule: RuleVertical},
		{Limit: 3, Move: board.Point{X: 0, Y: 3}, Accepted: 2, Found: true, Rule: RuleLargestSpace},
	}
	for _, test := range tests {
		p := Policy{EndgameThreshold: 10, VerticalLimit: test.Limit}
		move, accepted, found := p.limitedVerticalMove(grid, snake)
		require.Equal(t, test.Found, found, "limit %d", test.Limit)
		require.Equal(t, test.Accepted, accepted, "limit %d", test.Limit)
		if found {
			require.Equal(t, test.Move, move, "limit %d", test.Limit)
		}

		// The pocket above never has the slack; below only holds 2 extra
		// cells, enough for a limit of 2.
		d := p.Decide(grid, snake, board.Point{X: 1, Y: 5})
		require.Equal(t, ModeEndgame, d.Mode)
		require.Equal(t, test.Rule, d.Rule, "limit %d", test.Limit)
		require.Equal(t, board.Point{X: 0, Y: 3}, d.Move)
	}
}

func TestDecide_BoxedInReturnsHead(t *testing.T) {
	grid := board.Grid{Width: 3, Height: 2}
	snake := &board.Snake{Body: pts(0, 0, 1, 0, 1, 1, 0, 1)}

	d := DefaultPolicy.Decide(grid, snake, board.Point{X: 2, Y: 0})
	require.Equal(t, RuleStuck, d.Rule)
	require.Equal(t, snake.Head(), d.Move)
	require.Empty(t, d.Direction)
}

func TestDecide_EmptyBodyPanics(t *testing.T) {
	grid := board.Grid{Width: 3, Height: 3}
	require.Panics(t, func() {
		DefaultPolicy.Decide(grid, &board.Snake{}, board.Point{})
	})
	require.Panics(t, func() {
		ChooseMove(grid, nil, board.Point{})
	})
}

func TestDecide_RandomBoards(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	grid := board.Grid{Width: 4, Height: 4}

	for i := 0; i < 1000; i++ {
		snake := randomSnake(rng, grid, 1+rng.Intn(15))
		food, err := PlaceFood(grid, snake, rng)
		if err != nil {
			continue
		}
		p := Policy{EndgameThreshold: 10, VerticalLimit: rng.Intn(4)}
		d := p.Decide(grid, snake, food)

		msg := spew.Sdump(snake.Body, food, d)
		require.True(t, grid.InBounds(d.Move), msg)
		require.True(t, d.VerticalAccepted <= p.VerticalLimit, msg)
		if d.Rule == RuleStuck {
			require.Equal(t, snake.Head(), d.Move, msg)
			for _, n := range grid.MoveCandidates(snake.Head()) {
				require.True(t, snake.Contains(n), msg)
			}
			continue
		}
		require.True(t, snake.Head().Adjacent(d.Move), msg)
		require.False(t, snake.Contains(d.Move), msg)
		if d.Rule == RuleFood {
			require.True(t, IsSafe(grid, snake, d.Move), msg)
		}
		if d.Mode == ModeEndgame && d.Rule != RuleVertical {
			// A horizontal fallback is only taken when no vertical move
			// qualified for the endgame.
			for _, dir := range board.VerticalOrder {
				next := snake.Head().Add(dir)
				if !grid.InBounds(next) || snake.Contains(next) || p.VerticalLimit == 0 {
					continue
				}
				best, _, found := p.limitedVerticalMove(grid, snake)
				require.True(t, found, msg)
				require.False(t, CanEscape(grid, snake, best, p.VerticalLimit), msg)
			}
		}
	}
}
