package rules

import "github.com/battlesnakeio/autopilot/board"

// ReachableCount flood fills the grid from origin and returns how many cells
// can be reached without crossing a blocked cell. The origin itself is never
// counted, even when it is not blocked.
func ReachableCount(grid board.Grid, origin board.Point, blocked map[board.Point]bool) int {
	visited := make(map[board.Point]bool, grid.Cells())
	for p := range blocked {
		visited[p] = true
	}
	visited[origin] = true

	count := 0
	queue := []board.Point{origin}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range grid.Neighbors(current) {
			if visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
			count++
		}
	}
	return count
}

// freeSpace counts the cells reachable from the head of body, with the whole
// body acting as walls.
func freeSpace(grid board.Grid, body []board.Point) int {
	return ReachableCount(grid, body[0], board.Occupancy(body))
}
