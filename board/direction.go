package board

// Direction is one of the four cardinal moves.
type Direction string

// Cardinal directions.
const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

var (
	// SearchOrder is the neighbour expansion order used by path finding and
	// flood fill. Equal length paths are resolved by this order.
	SearchOrder = []Direction{Left, Right, Up, Down}

	// CandidateOrder is the order head moves are scanned in when picking a
	// move. Vertical moves come first and win ties.
	CandidateOrder = []Direction{Up, Down, Left, Right}

	// VerticalOrder is the subset of CandidateOrder considered in the endgame.
	VerticalOrder = []Direction{Up, Down}
)

// Delta returns the unit offset of the direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// IsVertical reports whether d is up or down.
func (d Direction) IsVertical() bool {
	return d == Up || d == Down
}
