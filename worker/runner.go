package worker

import (
	"context"
	"time"

	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	log "github.com/sirupsen/logrus"
)

// Runner returns a RunGameFunc that plays a game to completion with policy.
// A maxTurns above zero ends the game as complete once that turn is stored.
func Runner(policy rules.Policy, maxTurns int32) RunGameFunc {
	return func(ctx context.Context, client controller.Client, id string) error {
		resp, err := client.Status(ctx, id)
		if err != nil {
			return err
		}
		game := resp.Game
		lastFrame := resp.LastFrame
		logger := log.WithField("game", id)

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if lastFrame != nil && (lastFrame.Over() || (maxTurns > 0 && lastFrame.Turn >= maxTurns)) {
				logger.WithField("turn", lastFrame.Turn).
					WithField("score", lastFrame.Score).
					Info("ending game")
				return client.EndGame(ctx, id, rules.GameStatusComplete)
			}

			start := time.Now()
			nextFrame, err := rules.GameTick(game, lastFrame, policy)
			if err != nil {
				// This is a GameTick error, we can assume that this is a fatal
				// error and no more game processing can take place at this point.
				logger.WithError(err).Error("ending game due to fatal error")
				if endErr := client.EndGame(ctx, id, rules.GameStatusError); endErr != nil {
					logger.WithError(endErr).Error("failed to end game after fatal error")
				}
				return err
			}

			logger.WithField("turn", nextFrame.Turn).Debug("adding game frame")
			if err := client.AddGameFrame(ctx, id, nextFrame); err != nil {
				// This is likely a lock error, not to worry here, we can exit.
				return err
			}
			lastFrame = nextFrame

			delay := time.Duration(game.TickDelay)*time.Millisecond - time.Since(start)
			if delay > 0 && !lastFrame.Over() {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}
