package worker

import (
	"context"
	"testing"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/stretchr/testify/require"
)

func TestSession_Episodes(t *testing.T) {
	var frames int
	s := &Session{
		Request:  rules.CreateRequest{Width: 300, Height: 300, CellSize: 50, TickDelay: -1, Seed: 5},
		Policy:   rules.DefaultPolicy,
		Episodes: 3,
		MaxTurns: 200,
		OnFrame:  func(*board.Game, *board.GameFrame) { frames++ },
	}

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Episodes, 3)

	var turns int
	ids := map[string]bool{}
	for _, e := range summary.Episodes {
		require.True(t, e.Won || e.Cause != "", "episode %+v has no ending", e)
		require.True(t, e.Score <= summary.Best)
		ids[e.GameID] = true
		turns += int(e.Turns) + 1
	}
	require.Len(t, ids, 3)
	require.Equal(t, turns, frames)
	require.Equal(t, summary.Episodes[2].Score, summary.Last)
}

func TestSession_Steer(t *testing.T) {
	steer := make(chan board.Direction, 10)
	for i := 0; i < 10; i++ {
		// Up reverses the starting heading and is refused, so the snake
		// keeps going down into the wall.
		steer <- board.Up
	}

	var modes []string
	s := &Session{
		Request:  rules.CreateRequest{Width: 300, Height: 300, CellSize: 50, TickDelay: -1, Seed: 5},
		Policy:   rules.DefaultPolicy,
		Episodes: 1,
		Steer:    steer,
		OnFrame: func(_ *board.Game, f *board.GameFrame) {
			if f.Decision != nil {
				modes = append(modes, f.Decision.Mode)
			}
		},
	}

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Episodes, 1)
	e := summary.Episodes[0]
	require.Equal(t, rules.DeathCauseWallCollision, e.Cause)
	require.Equal(t, int32(6), e.Turns)
	for _, m := range modes {
		require.Equal(t, rules.ModeManual, m)
	}
}

func TestSession_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Session{
		Request: rules.CreateRequest{Width: 300, Height: 300, CellSize: 50, TickDelay: -1},
		Policy:  rules.DefaultPolicy,
	}
	summary, err := s.Run(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Episodes, 0)
}
