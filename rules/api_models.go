package rules

import (
	"github.com/battlesnakeio/autopilot/board"
	"github.com/pkg/errors"
)

// MoveRequest is the body of a stateless move query: the board, the snake
// (head first) and the food, all in cell units.
type MoveRequest struct {
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Body   []board.Point `json:"body"`
	Food   board.Point   `json:"food"`
}

// MoveResponse is the answer to a MoveRequest.
type MoveResponse struct {
	Move             board.Point     `json:"move"`
	Direction        board.Direction `json:"direction,omitempty"`
	Mode             string          `json:"mode"`
	Rule             string          `json:"rule"`
	FreeSpaces       int             `json:"freeSpaces"`
	VerticalAccepted int             `json:"verticalAccepted"`
}

// Validate checks the request against the invariants the move selector relies
// on.
func (req *MoveRequest) Validate() error {
	if req.Width < 1 || req.Height < 1 {
		return errors.Errorf("invalid board size %dx%d", req.Width, req.Height)
	}
	if err := checkCells(req.Width, req.Height); err != nil {
		return err
	}
	if len(req.Body) == 0 {
		return errors.New("snake has no body")
	}
	grid := req.Grid()
	if len(req.Body) > grid.Cells() {
		return errors.Wrapf(ErrTooLarge, "snake of %d segments on %d cells", len(req.Body), grid.Cells())
	}
	for _, p := range req.Body {
		if !grid.InBounds(p) {
			return errors.Errorf("snake segment %v is off the board", p)
		}
	}
	if !grid.InBounds(req.Food) {
		return errors.Errorf("food %v is off the board", req.Food)
	}
	return nil
}

// Grid returns the board of the request.
func (req *MoveRequest) Grid() board.Grid {
	return board.Grid{Width: req.Width, Height: req.Height}
}

// Answer runs the policy against the request.
func (req *MoveRequest) Answer(policy Policy) MoveResponse {
	d := policy.Decide(req.Grid(), &board.Snake{Body: req.Body}, req.Food)
	return MoveResponse{
		Move:             d.Move,
		Direction:        d.Direction,
		Mode:             d.Mode,
		Rule:             d.Rule,
		FreeSpaces:       d.FreeSpaces,
		VerticalAccepted: d.VerticalAccepted,
	}
}
