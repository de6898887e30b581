package board

// Grid is the fixed size of the board in cells.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GridFromPixels builds a grid from a pixel sized canvas split in square cells
// of cellSize pixels.
func GridFromPixels(width, height, cellSize int) Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return Grid{Width: width / cellSize, Height: height / cellSize}
}

// Cells is the number of cells on the grid.
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// InBounds checks if the point lies on the grid.
func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Neighbors returns the in-bounds neighbours of p in SearchOrder.
func (g Grid) Neighbors(p Point) []Point {
	return g.step(p, SearchOrder)
}

// MoveCandidates returns the in-bounds neighbours of p in CandidateOrder.
func (g Grid) MoveCandidates(p Point) []Point {
	return g.step(p, CandidateOrder)
}

func (g Grid) step(p Point, order []Direction) []Point {
	out := make([]Point, 0, len(order))
	for _, d := range order {
		n := p.Add(d)
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}
