package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/controller/filestore"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	replayDir   string
	replaySpeed = 200 * time.Millisecond
)

func init() {
	replayCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to replay")
	replayCmd.Flags().StringVarP(&replayDir, "dir", "d", "", "replay from a file store directory instead of the api")
	replayCmd.Flags().DurationVar(&replaySpeed, "speed", replaySpeed, "time between frames")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replays an existing game in the terminal",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		var (
			game   *board.Game
			frames *frameHolder
			err    error
		)
		if replayDir != "" {
			game, frames, err = loadGameFromDir()
		} else {
			game, frames, err = loadGame()
		}
		if err != nil {
			log.WithError(err).WithField("game", gameID).Fatal("unable to load game")
		}
		replayGame(game, frames)
	},
}

func moveFrameForwards(frameIndex int, frames *frameHolder) (int, *board.GameFrame, bool) {
	frameIndex++
	if frameIndex >= frames.count() {
		return frameIndex, nil, true
	}
	return frameIndex, frames.get(frameIndex), false
}

func moveFrameBackwards(frameIndex int, frames *frameHolder) (int, *board.GameFrame) {
	frameIndex--
	if frameIndex <= 0 {
		frameIndex = 0
	}
	return frameIndex, frames.get(frameIndex)
}

func loadGameFromDir() (*board.Game, *frameHolder, error) {
	game, list, err := filestore.ReadGame(replayDir, gameID)
	if err != nil {
		return nil, nil, err
	}
	frames := &frameHolder{}
	for _, f := range list {
		frames.append(f)
	}
	return game, frames, nil
}

func loadGame() (*board.Game, *frameHolder, error) {
	s, err := getStatus(gameID)
	if err != nil {
		return nil, nil, err
	}

	frames := &frameHolder{}

	u := url.URL{Scheme: "ws", Host: strings.Replace(apiAddr, "http://", "", 1), Path: fmt.Sprintf("/socket/%s", gameID)}
	log.WithField("url", u.String()).Debug("connecting")

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, nil, err
	}

	go func() {
		defer func() {
			if err := c.Close(); err != nil {
				log.WithError(err).Warn("failure to close websocket connection")
			}
		}()

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.WithError(err).Warn("read")
				}
				return
			}

			switch mt {
			case websocket.TextMessage:
				frame := &board.GameFrame{}
				if err := json.Unmarshal(message, frame); err != nil {
					log.WithError(err).Warn("unmarshal frame")
					return
				}

				frames.append(frame)
			default:
				log.WithField("type", mt).Warn("unhandled message type")
			}
		}
	}()

	return s.Game, frames, nil
}

func replayGame(game *board.Game, frames *frameHolder) {
	var currentFrame *board.GameFrame
	select {
	case currentFrame = <-frames.initialFrame():
	case <-time.After(time.Second):
		log.Fatal("unable to find initial frame for game")
	}

	if err := termbox.Init(); err != nil {
		log.WithError(err).Fatal("unable to start terminal")
	}
	defer termbox.Close()

	eventQueue := setupEventQueue()
	cycle := time.NewTicker(replaySpeed)
	defer cycle.Stop()
	frameIndex := 0
	paused := false
	done := false
	const footer = "space: pause  ←/→: step  esc: quit"

	show := func() {
		if currentFrame == nil {
			return
		}
		if err := render(game, currentFrame, footer); err != nil {
			log.WithError(err).Fatal("render failed")
		}
	}

	for !done {
		select {
		case ev := <-eventQueue:
			if ev.Type == termbox.EventKey {
				switch ev.Key {
				case termbox.KeyEsc:
					done = true
				case termbox.KeySpace:
					paused = !paused
				case termbox.KeyArrowLeft:
					paused = true
					frameIndex, currentFrame = moveFrameBackwards(frameIndex, frames)
					show()
				case termbox.KeyArrowRight:
					paused = true
					last := currentFrame
					frameIndex, currentFrame, _ = moveFrameForwards(frameIndex, frames)
					if currentFrame == nil {
						frameIndex, currentFrame = frames.count()-1, last
					}
					show()
				}
			}
		case <-cycle.C:
			if paused {
				continue
			}
			show()
			frameIndex, currentFrame, done = moveFrameForwards(frameIndex, frames)
		}
	}

	if frameIndex >= frames.count() {
		tbprint(0, 0, defaultColor, defaultColor, "Press any key to exit...")
		if err := termbox.Flush(); err != nil {
			log.WithError(err).Fatal("Error while flushing termbox")
		}
		<-eventQueue
	}
}
