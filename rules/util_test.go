package rules

import (
	"math/rand"

	"github.com/battlesnakeio/autopilot/board"
)

func pts(coords ...int) []board.Point {
	out := make([]board.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, board.Point{X: coords[i], Y: coords[i+1]})
	}
	return out
}

// componentSize is a recursive flood fill used as an oracle.
func componentSize(grid board.Grid, origin board.Point, blocked map[board.Point]bool) int {
	seen := map[board.Point]bool{origin: true}
	var visit func(p board.Point)
	visit = func(p board.Point) {
		for _, d := range []board.Direction{board.Down, board.Up, board.Right, board.Left} {
			n := p.Add(d)
			if !grid.InBounds(n) || blocked[n] || seen[n] {
				continue
			}
			seen[n] = true
			visit(n)
		}
	}
	visit(origin)
	return len(seen) - 1
}

// distances relaxes every cell until no distance improves.
func distances(grid board.Grid, start board.Point, blocked map[board.Point]bool) map[board.Point]int {
	dist := map[board.Point]int{start: 0}
	for changed := true; changed; {
		changed = false
		for y := 0; y < grid.Height; y++ {
			for x := 0; x < grid.Width; x++ {
				p := board.Point{X: x, Y: y}
				if blocked[p] || p == start {
					continue
				}
				for _, n := range grid.Neighbors(p) {
					dn, ok := dist[n]
					if !ok {
						continue
					}
					if dp, ok := dist[p]; !ok || dn+1 < dp {
						dist[p] = dn + 1
						changed = true
					}
				}
			}
		}
	}
	return dist
}

// randomSnake grows a self avoiding walk of at most length cells.
func randomSnake(rng *rand.Rand, grid board.Grid, length int) *board.Snake {
	start := board.Point{X: rng.Intn(grid.Width), Y: rng.Intn(grid.Height)}
	body := []board.Point{start}
	used := map[board.Point]bool{start: true}
	for len(body) < length {
		tail := body[len(body)-1]
		var open []board.Point
		for _, n := range grid.Neighbors(tail) {
			if !used[n] {
				open = append(open, n)
			}
		}
		if len(open) == 0 {
			break
		}
		next := open[rng.Intn(len(open))]
		used[next] = true
		body = append(body, next)
	}
	return &board.Snake{Body: body}
}

func randomBlocked(rng *rand.Rand, grid board.Grid, keep ...board.Point) map[board.Point]bool {
	blocked := map[board.Point]bool{}
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if rng.Intn(3) == 0 {
				blocked[board.Point{X: x, Y: y}] = true
			}
		}
	}
	for _, p := range keep {
		delete(blocked, p)
	}
	return blocked
}
