package board

// Snake is the ordered body of the snake, head first.
type Snake struct {
	Body []Point `json:"body"`
}

// NewSnake creates a snake with length segments stacked on start.
func NewSnake(start Point, length int) *Snake {
	if length < 1 {
		length = 1
	}
	body := make([]Point, length)
	for i := range body {
		body[i] = start
	}
	return &Snake{Body: body}
}

// Head returns the first point in the body.
func (s *Snake) Head() Point {
	return s.Body[0]
}

// Tail returns the last point in the body.
func (s *Snake) Tail() Point {
	return s.Body[len(s.Body)-1]
}

// Len is the number of segments, stacked segments included.
func (s *Snake) Len() int {
	return len(s.Body)
}

// Contains reports whether p is covered by any segment.
func (s *Snake) Contains(p Point) bool {
	for _, b := range s.Body {
		if b == p {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the snake.
func (s *Snake) Clone() *Snake {
	body := make([]Point, len(s.Body))
	copy(body, s.Body)
	return &Snake{Body: body}
}

// Heading is the direction the snake last moved in. A snake whose head and
// neck share a cell, such as a freshly spawned one, is heading down.
func (s *Snake) Heading() Direction {
	if len(s.Body) < 2 {
		return Down
	}
	if d, ok := s.Body[1].DirectionTo(s.Body[0]); ok {
		return d
	}
	return Down
}

// Advance puts next in front of the body. Move does not remove the tail, that
// is done once it is known whether the snake ate.
func (s *Snake) Advance(next Point) {
	s.Body = append([]Point{next}, s.Body...)
}

// Move advances the snake 1 space in the given direction.
func (s *Snake) Move(d Direction) {
	s.Advance(s.Head().Add(d))
}

// DropTail removes the last segment.
func (s *Snake) DropTail() {
	if len(s.Body) > 1 {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

// SelfCollision reports whether the head is repeated further down the body.
func (s *Snake) SelfCollision() bool {
	head := s.Head()
	for _, b := range s.Body[1:] {
		if b == head {
			return true
		}
	}
	return false
}
