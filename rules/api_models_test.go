package rules

import (
	"testing"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMoveRequest_Validate(t *testing.T) {
	tests := []struct {
		Name string
		Req  MoveRequest
		OK   bool
	}{
		{Name: "valid", Req: MoveRequest{Width: 4, Height: 4, Body: pts(0, 0), Food: board.Point{X: 1, Y: 1}}, OK: true},
		{Name: "no body", Req: MoveRequest{Width: 4, Height: 4}},
		{Name: "no board", Req: MoveRequest{Body: pts(0, 0)}},
		{Name: "body off board", Req: MoveRequest{Width: 4, Height: 4, Body: pts(4, 0)}},
		{Name: "food off board", Req: MoveRequest{Width: 4, Height: 4, Body: pts(0, 0), Food: board.Point{X: -1}}},
	}
	for _, test := range tests {
		err := test.Req.Validate()
		if test.OK {
			require.NoError(t, err, test.Name)
		} else {
			require.Error(t, err, test.Name)
		}
	}
}

func TestMoveRequest_ValidateTooLarge(t *testing.T) {
	tests := []struct {
		Name string
		Req  MoveRequest
	}{
		{Name: "huge board", Req: MoveRequest{Width: 1 << 40, Height: 1 << 40, Body: pts(0, 0)}},
		{Name: "wide board", Req: MoveRequest{Width: 20000, Height: 1, Body: pts(0, 0)}},
		{Name: "over the cell limit", Req: MoveRequest{Width: 1500, Height: 1500, Body: pts(0, 0)}},
		{Name: "body longer than the board", Req: MoveRequest{Width: 2, Height: 1, Body: pts(0, 0, 1, 0, 1, 0)}},
	}
	for _, test := range tests {
		err := test.Req.Validate()
		require.Error(t, err, test.Name)
		require.Equal(t, ErrTooLarge, errors.Cause(err), test.Name)
	}

	req := MoveRequest{Width: 100, Height: 100, Body: pts(0, 0), Food: board.Point{X: 99, Y: 99}}
	require.NoError(t, req.Validate())
}

func TestMoveRequest_Answer(t *testing.T) {
	req := MoveRequest{Width: 14, Height: 12, Body: pts(0, 0, 0, 0), Food: board.Point{X: 2, Y: 2}}
	resp := req.Answer(DefaultPolicy)
	require.Equal(t, board.Point{X: 1, Y: 0}, resp.Move)
	require.Equal(t, board.Right, resp.Direction)
	require.Equal(t, ModeNormal, resp.Mode)
	require.Equal(t, RuleFood, resp.Rule)
}
