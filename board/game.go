package board

// Game describes an episode: its board and how fast it ticks.
type Game struct {
	ID       string `json:"id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	CellSize int    `json:"cellSize"`
	Status   string `json:"status"`
	// TickDelay is the pause between two ticks in milliseconds.
	TickDelay int32 `json:"tickDelay"`
	Seed      int64 `json:"seed"`
}

// Grid returns the board dimensions.
func (g *Game) Grid() Grid {
	return Grid{Width: g.Width, Height: g.Height}
}

// Clone returns a copy of the game.
func (g *Game) Clone() *Game {
	c := *g
	return &c
}

// Death records how and when the episode ended.
type Death struct {
	Cause string `json:"cause"`
	Turn  int32  `json:"turn"`
}

// Decision is the reasoning behind the move of a frame.
type Decision struct {
	Mode             string    `json:"mode"`
	Rule             string    `json:"rule"`
	Direction        Direction `json:"direction,omitempty"`
	FreeSpaces       int       `json:"freeSpaces"`
	VerticalAccepted int       `json:"verticalAccepted,omitempty"`
}

// GameFrame is the state of the board after a turn.
type GameFrame struct {
	Turn     int32     `json:"turn"`
	Snake    *Snake    `json:"snake"`
	Food     *Point    `json:"food,omitempty"`
	Score    int32     `json:"score"`
	Death    *Death    `json:"death,omitempty"`
	Won      bool      `json:"won,omitempty"`
	Decision *Decision `json:"decision,omitempty"`
}

// Over reports whether the episode ended on this frame.
func (f *GameFrame) Over() bool {
	return f.Death != nil || f.Won
}

// Clone returns a deep copy of the frame.
func (f *GameFrame) Clone() *GameFrame {
	c := *f
	if f.Snake != nil {
		c.Snake = f.Snake.Clone()
	}
	if f.Food != nil {
		food := *f.Food
		c.Food = &food
	}
	if f.Death != nil {
		d := *f.Death
		c.Death = &d
	}
	if f.Decision != nil {
		d := *f.Decision
		c.Decision = &d
	}
	return &c
}
