package worker

import (
	"context"
	"time"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/rules"
	log "github.com/sirupsen/logrus"
)

// CauseTurnLimit is recorded for episodes cut short by MaxTurns.
const CauseTurnLimit = "turn-limit"

// Session plays episodes back to back without a store, starting a new game
// after every death.
type Session struct {
	Request rules.CreateRequest
	Policy  rules.Policy
	// Episodes is the number of games to play, zero plays until the context
	// is done.
	Episodes int
	MaxTurns int32
	// Steer is polled once per tick, a direction on it overrides the policy
	// for that tick.
	Steer <-chan board.Direction
	// OnFrame is called with every frame, the initial frame included.
	OnFrame func(*board.Game, *board.GameFrame)
}

// EpisodeResult is the outcome of one game.
type EpisodeResult struct {
	GameID string
	Score  int32
	Turns  int32
	Won    bool
	Cause  string
}

// Summary collects the results of a session.
type Summary struct {
	Episodes []EpisodeResult
	Best     int32
	Last     int32
}

func (s *Summary) add(r EpisodeResult) {
	s.Episodes = append(s.Episodes, r)
	s.Last = r.Score
	if r.Score > s.Best {
		s.Best = r.Score
	}
}

// Run plays the session. It returns the summary of the finished episodes when
// the context is cancelled.
func (s *Session) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	for i := 0; s.Episodes == 0 || i < s.Episodes; i++ {
		req := s.Request
		if req.Seed != 0 {
			req.Seed += int64(i) * 7919
		}
		result, err := s.episode(ctx, req)
		if err == context.Canceled || err == context.DeadlineExceeded {
			return summary, nil
		}
		if err != nil {
			return summary, err
		}
		summary.add(*result)
		log.WithFields(log.Fields{
			"episode": i + 1,
			"score":   result.Score,
			"turns":   result.Turns,
			"cause":   result.Cause,
			"best":    summary.Best,
		}).Info("episode finished")
	}
	return summary, nil
}

func (s *Session) emit(game *board.Game, frame *board.GameFrame) {
	if s.OnFrame != nil {
		s.OnFrame(game, frame)
	}
}

func (s *Session) steer() (board.Direction, bool) {
	if s.Steer == nil {
		return "", false
	}
	select {
	case dir := <-s.Steer:
		return dir, true
	default:
		return "", false
	}
}

func (s *Session) episode(ctx context.Context, req rules.CreateRequest) (*EpisodeResult, error) {
	game, frames, err := rules.CreateInitialGame(&req)
	if err != nil {
		return nil, err
	}
	game.Status = string(rules.GameStatusRunning)
	frame := frames[0]
	s.emit(game, frame)

	for !frame.Over() {
		if s.MaxTurns > 0 && frame.Turn >= s.MaxTurns {
			return &EpisodeResult{GameID: game.ID, Score: frame.Score, Turns: frame.Turn, Cause: CauseTurnLimit}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := time.Now()
		var next *board.GameFrame
		if dir, ok := s.steer(); ok {
			next, err = rules.ApplyDecision(game, frame, rules.ManualDecision(frame.Snake, dir))
		} else {
			next, err = rules.GameTick(game, frame, s.Policy)
		}
		if err != nil {
			return nil, err
		}
		frame = next
		s.emit(game, frame)

		delay := time.Duration(game.TickDelay)*time.Millisecond - time.Since(start)
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	result := &EpisodeResult{GameID: game.ID, Score: frame.Score, Turns: frame.Turn, Won: frame.Won}
	if frame.Death != nil {
		result.Cause = frame.Death.Cause
	}
	return result, nil
}
