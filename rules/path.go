package rules

import "github.com/battlesnakeio/autopilot/board"

// ShortestPath runs a breadth first search from start to goal avoiding the
// blocked cells. The returned path starts with start and ends with goal, so
// path[1] is the next step to take. A blocked goal is unreachable like any
// other blocked cell. Equal length paths are resolved by board.SearchOrder,
// the first one discovered wins.
func ShortestPath(grid board.Grid, start, goal board.Point, blocked map[board.Point]bool) ([]board.Point, bool) {
	cameFrom := map[board.Point]board.Point{}
	seen := map[board.Point]bool{start: true}

	queue := []board.Point{start}
	found := start == goal
	for len(queue) > 0 && !found {
		current := queue[0]
		queue = queue[1:]

		for _, n := range grid.Neighbors(current) {
			if seen[n] {
				continue
			}
			if blocked[n] {
				continue
			}
			seen[n] = true
			cameFrom[n] = current
			if n == goal {
				found = true
				break
			}
			queue = append(queue, n)
		}
	}
	if !found {
		return nil, false
	}

	path := []board.Point{goal}
	for current := goal; current != start; {
		current = cameFrom[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}
