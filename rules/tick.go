package rules

import (
	"github.com/battlesnakeio/autopilot/board"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidFrame is returned when a tick is asked to continue from a
	// frame that has no snake or no food.
	ErrInvalidFrame = errors.New("rules: invalid state, previous frame is incomplete")
	// ErrGameOver is returned when a tick is asked to continue a finished game.
	ErrGameOver = errors.New("rules: game is already over")
)

// ModeManual marks moves that were steered by a player instead of the policy.
const ModeManual = "manual"

// GameTick runs the game one tick: the policy picks a move which is then
// applied to a copy of lastFrame.
func GameTick(game *board.Game, lastFrame *board.GameFrame, policy Policy) (*board.GameFrame, error) {
	if err := validateFrame(lastFrame); err != nil {
		return nil, err
	}
	decision := policy.Decide(game.Grid(), lastFrame.Snake, *lastFrame.Food)
	return ApplyDecision(game, lastFrame, decision)
}

// ManualDecision steers the snake one step in dir. Reversing onto the neck is
// refused and the snake keeps its heading instead.
func ManualDecision(snake *board.Snake, dir board.Direction) Decision {
	heading := snake.Heading()
	if !dir.Valid() || dir == heading.Opposite() {
		dir = heading
	}
	d := Decision{Move: snake.Head().Add(dir)}
	d.Mode = ModeManual
	d.Rule = ModeManual
	d.Direction = dir
	return d
}

// ApplyDecision moves the snake of lastFrame to the decided cell and returns
// the resulting frame: the snake grows if it ate, new food is placed, and the
// collision check runs. lastFrame is not modified.
func ApplyDecision(game *board.Game, lastFrame *board.GameFrame, decision Decision) (*board.GameFrame, error) {
	if err := validateFrame(lastFrame); err != nil {
		return nil, err
	}

	next := lastFrame.Clone()
	next.Turn = lastFrame.Turn + 1
	record := decision.Decision
	next.Decision = &record

	logger := log.WithFields(log.Fields{
		"GameID": game.ID,
		"Turn":   next.Turn,
	})
	logger.WithFields(log.Fields{
		"Mode":       decision.Mode,
		"Rule":       decision.Rule,
		"Move":       decision.Move,
		"FreeSpaces": decision.FreeSpaces,
	}).Debug("move")

	next.Snake.Advance(decision.Move)

	if decision.Move == *next.Food {
		next.Score++
		foodEaten.Inc()
		logger.WithField("Food", decision.Move).Debug("snake ate")

		food, err := PlaceFood(game.Grid(), next.Snake, tickRand(game, next.Turn))
		switch {
		case err == ErrBoardFull:
			logger.Info("board is full")
			next.Food = nil
			next.Won = true
		case err != nil:
			return nil, err
		default:
			next.Food = &food
		}
	} else {
		next.Snake.DropTail()
	}

	if death := checkForDeath(game.Grid(), next); death != nil {
		logger.WithField("Cause", death.Cause).Info("snake died")
		next.Death = death
		next.Won = false
	}

	decisions.WithLabelValues(decision.Mode, decision.Rule).Inc()
	if next.Over() {
		cause := "won"
		if next.Death != nil {
			cause = next.Death.Cause
		}
		episodes.WithLabelValues(cause).Inc()
		episodeScore.Observe(float64(next.Score))
	}
	return next, nil
}

func validateFrame(frame *board.GameFrame) error {
	if frame == nil || frame.Snake == nil || frame.Snake.Len() == 0 {
		return ErrInvalidFrame
	}
	if frame.Over() {
		return ErrGameOver
	}
	if frame.Food == nil {
		return ErrInvalidFrame
	}
	return nil
}
