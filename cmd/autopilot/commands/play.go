package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/config"
	"github.com/battlesnakeio/autopilot/export"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/battlesnakeio/autopilot/worker"
	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	playRequest = rules.CreateRequest{
		Width:    config.GameWidth,
		Height:   config.GameHeight,
		CellSize: config.CellSize,
	}
	playPolicy = rules.Policy{
		EndgameThreshold: config.EndgameThreshold,
		VerticalLimit:    config.VerticalLimit,
	}
	playEpisodes  = 1
	playMaxTurns  int32
	playRender    = false
	playExport    string
	playTickDelay = int32(config.TickDelay / time.Millisecond)
)

func init() {
	playCmd.Flags().IntVar(&playRequest.Width, "width", playRequest.Width, "board width in pixels")
	playCmd.Flags().IntVar(&playRequest.Height, "height", playRequest.Height, "board height in pixels")
	playCmd.Flags().IntVar(&playRequest.CellSize, "cell-size", playRequest.CellSize, "cell size in pixels")
	playCmd.Flags().Int64Var(&playRequest.Seed, "seed", 0, "food placement seed, 0 picks one")
	playCmd.Flags().Int32Var(&playTickDelay, "tick-delay", playTickDelay, "milliseconds between ticks when rendering, negative for none")
	playCmd.Flags().IntVar(&playPolicy.EndgameThreshold, "endgame-threshold", playPolicy.EndgameThreshold, "free cells below which the endgame policy is used")
	playCmd.Flags().IntVar(&playPolicy.VerticalLimit, "vertical-limit", playPolicy.VerticalLimit, "vertical moves the endgame policy accepts per tick")
	playCmd.Flags().IntVarP(&playEpisodes, "episodes", "n", playEpisodes, "episodes to play, 0 plays until interrupted")
	playCmd.Flags().Int32Var(&playMaxTurns, "max-turns", 0, "end an episode after this many turns, 0 for no limit")
	playCmd.Flags().BoolVarP(&playRender, "render", "r", playRender, "draw the board in the terminal, arrow keys steer")
	playCmd.Flags().StringVarP(&playExport, "export", "o", "", "write every decision to this parquet file")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "plays snake locally with the autopilot",
	Run: func(c *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		cancelOnInterrupt(ctx, cancel)

		req := playRequest
		req.TickDelay = -1
		if playRender || c.Flags().Changed("tick-delay") {
			req.TickDelay = playTickDelay
		}

		recorder := &decisionRecorder{maxTurns: playMaxTurns}
		session := &worker.Session{
			Request:  req,
			Policy:   playPolicy,
			Episodes: playEpisodes,
			MaxTurns: playMaxTurns,
		}
		if playExport != "" {
			session.OnFrame = recorder.record
		}

		if playRender {
			stop, err := attachTerminal(session, cancel)
			if err != nil {
				log.WithError(err).Fatal("unable to start terminal")
			}
			defer stop()
		}

		summary, err := session.Run(ctx)
		if err != nil {
			log.WithError(err).Error("session failed")
		}
		if playRender {
			// Leave the terminal before logging the summary.
			termbox.Close()
		}

		log.WithFields(log.Fields{
			"episodes": len(summary.Episodes),
			"best":     summary.Best,
			"last":     summary.Last,
		}).Info("session finished")

		if playExport != "" {
			recorded := recorder.rows()
			if err := export.WriteParquet(playExport, recorded); err != nil {
				log.WithError(err).Fatal("unable to export decisions")
			}
			log.WithField("rows", len(recorded)).
				WithField("path", playExport).
				Info("exported decisions")
		}
	},
}

// decisionRecorder collects export rows episode by episode. An episode is
// flushed when it ends, when the next one starts or when rows is called, so
// an interrupted episode keeps the decisions it made.
type decisionRecorder struct {
	maxTurns int32

	game      *board.Game
	frames    []*board.GameFrame
	collected []export.DecisionRow
}

func (r *decisionRecorder) record(game *board.Game, frame *board.GameFrame) {
	if frame.Turn == 0 {
		r.flush()
	}
	r.game = game
	r.frames = append(r.frames, frame)
	if frame.Over() || (r.maxTurns > 0 && frame.Turn >= r.maxTurns) {
		r.flush()
	}
}

func (r *decisionRecorder) flush() {
	if len(r.frames) > 0 {
		r.collected= append(r.collected, export.FromFrames(r.game, r.frames)...)
	}
	r.frames = nil
}

func (r *decisionRecorder) rows() []export.DecisionRow {
	r.flush()
	return r.collected
}

var steerKeys = map[termbox.Key]board.Direction{
	termbox.KeyArrowUp:    board.Up,
	termbox.KeyArrowDown:  board.Down,
	termbox.KeyArrowLeft:  board.Left,
	termbox.KeyArrowRight: board.Right,
}

// attachTerminal renders every frame of the session and forwards arrow keys
// as steering. Esc cancels the session.
func attachTerminal(session *worker.Session, cancel func()) (func(), error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}

	steer := make(chan board.Direction, 1)
	session.Steer = steer
	done := make(chan struct{})
	go func() {
		events := setupEventQueue()
		for {
			select {
			case ev := <-events:
				if ev.Type != termbox.EventKey {
					continue
				}
				if ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
					cancel()
					return
				}
				if dir, ok := steerKeys[ev.Key]; ok {
					select {
					case steer <- dir:
					default:
					}
				}
			case <-done:
				return
			}
		}
	}()

	var episode int
	var best, last int32
	next := session.OnFrame
	session.OnFrame = func(game *board.Game, frame *board.GameFrame) {
		if next != nil {
			next(game, frame)
		}
		if frame.Turn == 0 {
			episode++
		}
		if frame.Over() {
			last = frame.Score
			if last > best {
				best = last
			}
		}
		footer := fmt.Sprintf("episode %d  best %d  last %d  arrows: steer  esc: quit", episode, best, last)
		if err := render(game, frame, footer); err != nil {
			log.WithError(err).Error("render failed")
		}
	}

	return func() { close(done) }, nil
}
