package controller

import (
	"context"
	"testing"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func sampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	m := &dto.Metric{}
	require.NoError(t, h.Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestInstrumentStore(t *testing.T) {
	ctx := context.Background()
	s := InstrumentStore(InMemStore())

	acquired := counterValue(t, lockOutcomes.WithLabelValues(lockAcquired))
	held := counterValue(t, lockOutcomes.WithLabelValues(lockHeld))
	stopped := counterValue(t, statusChanges.WithLabelValues(string(rules.GameStatusStopped)))
	running := counterValue(t, statusChanges.WithLabelValues(string(rules.GameStatusRunning)))
	lengths := sampleCount(t, frameSnakeLength)

	game := &board.Game{ID: "metrics", Width: 4, Height: 4, Status: string(rules.GameStatusStopped)}
	first := &board.GameFrame{Turn: 0, Snake: board.NewSnake(board.Point{}, 3)}
	require.NoError(t, s.CreateGame(ctx, game, []*board.GameFrame{first}))
	require.NoError(t, s.SetGameStatus(ctx, game.ID, rules.GameStatusRunning))
	require.Equal(t, ErrNotFound, s.SetGameStatus(ctx, "missing", rules.GameStatusRunning))

	_, err := s.Lock(ctx, game.ID, "")
	require.NoError(t, err)
	_, err = s.Lock(ctx, game.ID, "someone-else")
	require.Equal(t, ErrIsLocked, err)

	require.NoError(t, s.PushGameFrame(ctx, game.ID, &board.GameFrame{Turn: 1, Snake: board.NewSnake(board.Point{}, 3)}))
	require.Error(t, s.PushGameFrame(ctx, game.ID, &board.GameFrame{Turn: 5, Snake: board.NewSnake(board.Point{}, 3)}))

	require.Equal(t, acquired+1, counterValue(t, lockOutcomes.WithLabelValues(lockAcquired)))
	require.Equal(t, held+1, counterValue(t, lockOutcomes.WithLabelValues(lockHeld)))
	require.Equal(t, stopped+1, counterValue(t, statusChanges.WithLabelValues(string(rules.GameStatusStopped))))
	require.Equal(t, running+1, counterValue(t, statusChanges.WithLabelValues(string(rules.GameStatusRunning))))
	require.Equal(t, lengths+1, sampleCount(t, frameSnakeLength))
}

func TestLockOutcome(t *testing.T) {
	require.Equal(t, lockAcquired, lockOutcome(nil))
	require.Equal(t, lockHeld, lockOutcome(ErrIsLocked))
	require.Equal(t, lockFailed, lockOutcome(ErrNotFound))
}
