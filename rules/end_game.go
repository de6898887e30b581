package rules

import "github.com/battlesnakeio/autopilot/board"

// CheckForGameOver checks if the episode has ended, either by a collision or
// because the snake filled the board.
func CheckForGameOver(frame *board.GameFrame) bool {
	return frame.Over()
}
