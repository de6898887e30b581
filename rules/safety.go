package rules

import "github.com/battlesnakeio/autopilot/board"

// PostMoveBody is the body the snake would have after moving its head to
// next without eating: next in front, tail dropped.
func PostMoveBody(snake *board.Snake, next board.Point) []board.Point {
	body := make([]board.Point, 0, snake.Len())
	body = append(body, next)
	body = append(body, snake.Body[:snake.Len()-1]...)
	return body
}

// postMoveSpace is the room left to the snake after moving to next.
func postMoveSpace(grid board.Grid, snake *board.Snake, next board.Point) int {
	return freeSpace(grid, PostMoveBody(snake, next))
}

// IsSafe reports whether moving to next leaves at least as many reachable
// cells as the snake is long.
func IsSafe(grid board.Grid, snake *board.Snake, next board.Point) bool {
	return postMoveSpace(grid, snake, next) >= snake.Len()
}

// CanEscape is IsSafe with margin extra cells of slack required.
func CanEscape(grid board.Grid, snake *board.Snake, next board.Point, margin int) bool {
	return postMoveSpace(grid, snake, next) >= snake.Len()+margin
}
