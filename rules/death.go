package rules

import "github.com/battlesnakeio/autopilot/board"

// checkForDeath looks at the snake after its move and reports whether it hit
// a wall or its own body.
func checkForDeath(grid board.Grid, frame *board.GameFrame) *board.Death {
	s := frame.Snake
	if deathByOutOfBounds(grid, s.Head()) {
		return &board.Death{Turn: frame.Turn, Cause: DeathCauseWallCollision}
	}
	if s.SelfCollision() {
		return &board.Death{Turn: frame.Turn, Cause: DeathCauseSnakeSelfCollision}
	}
	return nil
}

func deathByOutOfBounds(grid board.Grid, head board.Point) bool {
	return !grid.InBounds(head)
}
