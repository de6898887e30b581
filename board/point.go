package board

import "fmt"

// Point is a cell on the board, in cell units. (0,0) is the top left corner,
// x grows to the right and y grows downwards.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Adjacent reports whether p and other differ by exactly one unit on exactly
// one axis.
func (p Point) Adjacent(other Point) bool {
	dx, dy := abs(p.X-other.X), abs(p.Y-other.Y)
	return dx+dy == 1
}

// DirectionTo returns the direction of a single step from p to other.
func (p Point) DirectionTo(other Point) (Direction, bool) {
	if !p.Adjacent(other) {
		return "", false
	}
	for _, d := range CandidateOrder {
		if p.Add(d) == other {
			return d, true
		}
	}
	return "", false
}

// Pixels returns the top left pixel of the cell for a renderer drawing cells
// of size cellSize.
func (p Point) Pixels(cellSize int) (int, int) {
	return p.X * cellSize, p.Y * cellSize
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Occupancy returns the set of cells covered by body.
func Occupancy(body []Point) map[Point]bool {
	set := make(map[Point]bool, len(body))
	for _, p := range body {
		set[p] = true
	}
	return set
}
