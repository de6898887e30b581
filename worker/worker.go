// Package worker provides the actual running of games. It pops running games
// from the controller, holds their lock and ticks them to completion.
package worker

import (
	"context"
	"time"

	"github.com/battlesnakeio/autopilot/controller"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RunGameFunc runs a single locked game. The context carries the lock token.
type RunGameFunc func(ctx context.Context, client controller.Client, id string) error

// Worker is the worker interface. It wraps a RunGame function which is
// where all of the game logic should live.
type Worker struct {
	ControllerClient  controller.Client
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	RunGame           RunGameFunc
	// Limiter throttles calls to Pop, nil means no limit.
	Limiter *rate.Limiter
}

// Run will run the worker in a loop until the context is done.
func (w *Worker) Run(ctx context.Context, workerID int) {
	for {
		if w.Limiter != nil {
			if err := w.Limiter.Wait(ctx); err != nil {
				return
			}
		}
		if err := w.run(ctx, workerID); err != nil {
			if err != controller.ErrNotFound {
				log.WithError(err).WithField("worker", workerID).Error("run failed")
			}

			select {
			case <-time.After(w.PollInterval):
			case <-ctx.Done():
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (w *Worker) run(ctx context.Context, workerID int) error {
	// Pop an item of work.
	id, err := w.ControllerClient.Pop(ctx)
	if err != nil {
		return err
	}

	// Attempt to get the lock initially.
	token, err := w.ControllerClient.Lock(ctx, id)
	if err != nil {
		return err
	}

	logger := log.WithField("worker", workerID).WithField("game", id)
	logger.WithField("token", token).Debug("acquired lock")

	// Get a context with the lock token.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx = controller.ContextWithLockToken(ctx, token)

	defer func() {
		logger.Debug("unlocking")
		if err := w.ControllerClient.Unlock(ctx, id); err != nil {
			logger.WithError(err).Warn("unlock failed")
		}
	}()

	// Hold the lock, heartbeating every HeartbeatInterval.
	if w.HeartbeatInterval > 0 {
		go func() {
			t := time.NewTicker(w.HeartbeatInterval)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					if _, err := w.ControllerClient.Lock(ctx, id); err != nil {
						logger.WithError(err).Warn("lock expired during heartbeat")
						cancel()
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Perform the actual work, this should respect context and Done() rules.
	// RunGame should be able to write to storage using the context and have
	// a valid lock for the key.
	return w.RunGame(ctx, w.ControllerClient, id)
}
