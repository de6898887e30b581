package rules

import (
	"time"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/config"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// Defaults used when a create request leaves a field empty.
const (
	DefaultWidth     = 700
	DefaultHeight    = 600
	DefaultCellSize  = 50
	DefaultBodyParts = 2
	DefaultTickDelay = 35
)

var (
	// ErrNoCells is returned when the requested board is smaller than one cell.
	ErrNoCells = errors.New("rules: board holds no cells")
	// ErrTooLarge is returned when a board holds more than config.MaxCells
	// cells or a snake does not fit on its board.
	ErrTooLarge = errors.New("rules: board exceeds the cell limit")
)

func checkCells(width, height int) error {
	if width > config.MaxCells || height > config.MaxCells || width*height > config.MaxCells {
		return errors.Wrapf(ErrTooLarge, "%dx%d cells, at most %d allowed", width, height, config.MaxCells)
	}
	return nil
}

// CreateRequest describes a new game. Width and Height are in pixels and are
// divided in square cells of CellSize pixels. A negative TickDelay runs the
// game without pausing between ticks.
type CreateRequest struct {
	Width     int   `json:"width"`
	Height    int   `json:"height"`
	CellSize  int   `json:"cellSize"`
	BodyParts int   `json:"bodyParts"`
	TickDelay int32 `json:"tickDelay"`
	Seed      int64 `json:"seed"`
}

func (req *CreateRequest) withDefaults() CreateRequest {
	r := *req
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}
	if r.Height <= 0 {
		r.Height = DefaultHeight
	}
	if r.CellSize <= 0 {
		r.CellSize = DefaultCellSize
	}
	if r.BodyParts <= 0 {
		r.BodyParts = DefaultBodyParts
	}
	switch {
	case r.TickDelay == 0:
		r.TickDelay = DefaultTickDelay
	case r.TickDelay < 0:
		r.TickDelay = 0
	}
	if r.Seed == 0 {
		r.Seed = time.Now().UnixNano()
	}
	return r
}

// CreateInitialGame creates a new game based on the create request passed in.
// The snake spawns with all its segments stacked in the top left corner.
func CreateInitialGame(req *CreateRequest) (*board.Game, []*board.GameFrame, error) {
	r := req.withDefaults()

	game := &board.Game{
		ID:        uuid.NewV4().String(),
		Width:     r.Width / r.CellSize,
		Height:    r.Height / r.CellSize,
		CellSize:  r.CellSize,
		Status:    string(GameStatusStopped),
		TickDelay: r.TickDelay,
		Seed:      r.Seed,
	}
	if game.Width < 1 || game.Height < 1 {
		return nil, nil, errors.Wrapf(ErrNoCells, "%dx%d pixels with %d pixel cells", r.Width, r.Height, r.CellSize)
	}
	if err := checkCells(game.Width, game.Height); err != nil {
		return nil, nil, err
	}
	if r.BodyParts > game.Grid().Cells() {
		return nil, nil, errors.Wrapf(ErrTooLarge, "snake of %d parts on %d cells", r.BodyParts, game.Grid().Cells())
	}

	snake := board.NewSnake(board.Point{}, r.BodyParts)
	food, err := PlaceFood(game.Grid(), snake, tickRand(game, 0))
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to place initial food")
	}

	frames := []*board.GameFrame{
		{
			Turn:  0,
			Snake: snake,
			Food:  &food,
		},
	}
	return game, frames, nil
}
