package controller

import (
	"context"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentStore wraps all store methods to instrument the underlying calls.
// Besides call latency it tracks lock contention, game status transitions and
// the snake length of every stored frame.
func InstrumentStore(s Store) Store { return &metrics{s} }

// Lock outcomes.
const (
	lockAcquired = "acquired"
	lockHeld     = "held"
	lockFailed   = "error"
)

var (
	storeCalls = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "autopilot",
			Subsystem: "store",
			Name:      "calls",
			Help:      "Calls processed by the store.",
		},
		[]string{"method"},
	)
	lockOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autopilot",
			Subsystem: "store",
			Name:      "lock_outcomes_total",
			Help:      "Game lock attempts by outcome, held means another worker owns the game.",
		},
		[]string{"outcome"},
	)
	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autopilot",
			Subsystem: "store",
			Name:      "game_status_changes_total",
			Help:      "Games moved to each status.",
		},
		[]string{"status"},
	)
	frameSnakeLength = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "autopilot",
			Subsystem: "store",
			Name:      "frame_snake_length",
			Help:      "Snake length of the frames pushed to the store.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 10),
		},
	)
)

func instrument(method string) func() {
	t := prometheus.NewTimer(storeCalls.WithLabelValues(method))
	return t.ObserveDuration
}

func lockOutcome(err error) string {
	switch err {
	case nil:
		return lockAcquired
	case ErrIsLocked:
		return lockHeld
	}
	return lockFailed
}

func init() {
	prometheus.MustRegister(storeCalls, lockOutcomes, statusChanges, frameSnakeLength)
}

type metrics struct{ s Store }

func (m *metrics) Lock(ctx context.Context, key, token string) (string, error) {
	defer instrument("Lock")()
	token, err := m.s.Lock(ctx, key, token)
	lockOutcomes.WithLabelValues(lockOutcome(err)).Inc()
	return token, err
}

func (m *metrics) Unlock(ctx context.Context, key, token string) error {
	defer instrument("Unlock")()
	return m.s.Unlock(ctx, key, token)
}

func (m *metrics) PopGameID(c context.Context) (string, error) {
	defer instrument("PopGameID")()
	return m.s.PopGameID(c)
}

func (m *metrics) SetGameStatus(c context.Context, id string, status rules.GameStatus) error {
	defer instrument("SetGameStatus")()
	err := m.s.SetGameStatus(c, id, status)
	if err == nil {
		statusChanges.WithLabelValues(string(status)).Inc()
	}
	return err
}

func (m *metrics) CreateGame(c context.Context, g *board.Game, frames []*board.GameFrame) error {
	defer instrument("CreateGame")()
	err := m.s.CreateGame(c, g, frames)
	if err == nil {
		statusChanges.WithLabelValues(g.Status).Inc()
	}
	return err
}

func (m *metrics) PushGameFrame(c context.Context, id string, f *board.GameFrame) error {
	defer instrument("PushGameFrame")()
	err := m.s.PushGameFrame(c, id, f)
	if err == nil && f != nil && f.Snake != nil {
		frameSnakeLength.Observe(float64(f.Snake.Len()))
	}
	return err
}

func (m *metrics) ListGameFrames(c context.Context, id string, limit, offset int) ([]*board.GameFrame, error) {
	defer instrument("ListGameFrames")()
	return m.s.ListGameFrames(c, id, limit, offset)
}

func (m *metrics) GetGame(c context.Context, id string) (*board.Game, error) {
	defer instrument("GetGame")()
	return m.s.GetGame(c, id)
}
