package rules

import "github.com/battlesnakeio/autopilot/board"

// Decision modes.
const (
	ModeNormal  = "normal"
	ModeEndgame = "endgame"
)

// Rules that can produce a move, in the order they are tried.
const (
	RuleFood         = "food"
	RuleTail         = "tail"
	RuleVertical     = "vertical"
	RuleLargestSpace = "largest-space"
	RuleStuck        = "stuck"
)

// Policy tunes the move selector.
type Policy struct {
	// EndgameThreshold is the free space below which the snake stops looking
	// for food and tries to stay coiled.
	EndgameThreshold int
	// VerticalLimit caps how many vertical candidates can become the running
	// best in one endgame scan. It is also the extra slack a vertical move
	// needs to be trusted.
	VerticalLimit int
}

// DefaultPolicy is the policy used by ChooseMove.
var DefaultPolicy = Policy{
	EndgameThreshold: 10,
	VerticalLimit:    3,
}

// Decision is a chosen move along with why it was chosen.
type Decision struct {
	board.Decision
	Move board.Point
}

// ChooseMove picks the next head position for snake using DefaultPolicy. It
// always returns a cell; when no move is left it returns the current head,
// which the collision check then reports as a self collision.
func ChooseMove(grid board.Grid, snake *board.Snake, food board.Point) board.Point {
	return DefaultPolicy.Decide(grid, snake, food).Move
}

// Decide picks the next head position for snake. The snake must have a body.
func (p Policy) Decide(grid board.Grid, snake *board.Snake, food board.Point) Decision {
	if snake == nil || snake.Len() == 0 {
		panic("rules: cannot decide a move for a snake without a body")
	}

	d := Decision{}
	d.FreeSpaces = freeSpace(grid, snake.Body)

	if d.FreeSpaces < p.EndgameThreshold {
		d.Mode = ModeEndgame
		next, accepted, ok := p.limitedVerticalMove(grid, snake)
		d.VerticalAccepted = accepted
		if ok && CanEscape(grid, snake, next, p.VerticalLimit) {
			return d.with(snake, next, RuleVertical)
		}
		return d.largestSafeMove(grid, snake)
	}

	d.Mode = ModeNormal
	head := snake.Head()
	blocked := board.Occupancy(snake.Body)
	if path, ok := ShortestPath(grid, head, food, blocked); ok && len(path) > 1 && IsSafe(grid, snake, path[1]) {
		return d.with(snake, path[1], RuleFood)
	}
	if path, ok := ShortestPath(grid, head, snake.Tail(), blocked); ok && len(path) > 1 && IsSafe(grid, snake, path[1]) {
		return d.with(snake, path[1], RuleTail)
	}
	return d.largestSafeMove(grid, snake)
}

// limitedVerticalMove scans the vertical candidates and keeps the one leaving
// the most room. Only VerticalLimit candidates may ever be accepted as the
// running best; the counter is not reset during the scan.
func (p Policy) limitedVerticalMove(grid board.Grid, snake *board.Snake) (board.Point, int, bool) {
	var (
		head     = snake.Head()
		best     board.Point
		found    bool
		maxSpace = -1
		accepted = 0
	)
	for _, dir := range board.VerticalOrder {
		next := head.Add(dir)
		if !grid.InBounds(next) || snake.Contains(next) {
			continue
		}
		space := postMoveSpace(grid, snake, next)
		if space > maxSpace && accepted < p.VerticalLimit {
			maxSpace = space
			best = next
			found = true
			accepted++
		}
	}
	return best, accepted, found
}

// largestSafeMove picks the free neighbour leaving the most reachable cells,
// ties going to the earliest in board.CandidateOrder. With no free neighbour
// the current head is returned.
func (d Decision) largestSafeMove(grid board.Grid, snake *board.Snake) Decision {
	head := snake.Head()
	maxSpace := -1
	var best board.Point
	found := false
	for _, next := range grid.MoveCandidates(head) {
		if snake.Contains(next) {
			continue
		}
		if space := postMoveSpace(grid, snake, next); space > maxSpace {
			maxSpace = space
			best = next
			found = true
		}
	}
	if !found {
		return d.with(snake, head, RuleStuck)
	}
	return d.with(snake, best, RuleLargestSpace)
}

func (d Decision) with(snake *board.Snake, next board.Point, rule string) Decision {
	d.Move = next
	d.Rule = rule
	d.Direction = ""
	if dir, ok := snake.Head().DirectionTo(next); ok {
		d.Direction = dir
	}
	return d
}
