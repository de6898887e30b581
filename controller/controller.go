// Package controller provides an API available to workers to write games. It
// also provides the internal API for creating, starting and watching games.
package controller

import (
	"context"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MaxFrameLimit caps the number of frames returned by a single Frames call.
const MaxFrameLimit = 100

// Client is the set of controller operations used by workers and the http
// api. *Controller satisfies it.
type Client interface {
	Create(ctx context.Context, req rules.CreateRequest) (*board.Game, error)
	Start(ctx context.Context, id string) error
	Status(ctx context.Context, id string) (*StatusResponse, error)
	Pop(ctx context.Context) (string, error)
	Lock(ctx context.Context, id string) (string, error)
	Unlock(ctx context.Context, id string) error
	AddGameFrame(ctx context.Context, id string, frame *board.GameFrame) error
	EndGame(ctx context.Context, id string, status rules.GameStatus) error
	Frames(ctx context.Context, id string, offset, limit int) ([]*board.GameFrame, error)
}

// StatusResponse is the current state of a game along with its latest frame.
type StatusResponse struct {
	Game      *board.Game      `json:"game"`
	LastFrame *board.GameFrame `json:"lastFrame"`
}

// New will initialize a new Controller.
func New(store Store) *Controller {
	return &Controller{Store: store}
}

// Controller mediates every read and write of game state against a Store.
type Controller struct {
	Store Store
}

// Create builds the initial state of a game and stores it in the stopped
// state.
func (c *Controller) Create(ctx context.Context, req rules.CreateRequest) (*board.Game, error) {
	game, frames, err := rules.CreateInitialGame(&req)
	if err != nil {
		return nil, err
	}
	if err := c.Store.CreateGame(ctx, game, frames); err != nil {
		return nil, errors.Wrap(err, "unable to store game")
	}
	log.WithField("game", game.ID).
		WithField("width", game.Width).
		WithField("height", game.Height).
		Info("created game")
	return game, nil
}

// Start marks a game as running so a worker can pick it up.
func (c *Controller) Start(ctx context.Context, id string) error {
	if _, err := c.Store.GetGame(ctx, id); err != nil {
		return err
	}
	return c.Store.SetGameStatus(ctx, id, rules.GameStatusRunning)
}

// Status should fetch the game state and the latest frame.
func (c *Controller) Status(ctx context.Context, id string) (*StatusResponse, error) {
	game, err := c.Store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	frames, err := c.Store.ListGameFrames(ctx, id, 1, -1)
	if err != nil {
		return nil, err
	}
	resp := &StatusResponse{Game: game}
	if len(frames) > 0 {
		resp.LastFrame = frames[0]
	}
	return resp, nil
}

// Pop should pop a game that is unlocked and unfinished from the queue. It can
// be subject to race conditions where it is locked immediately after, this is
// expected.
func (c *Controller) Pop(ctx context.Context) (string, error) {
	return c.Store.PopGameID(ctx)
}

// Lock should lock a specific game using the passed in ID. No writes to the
// game should happen as long as the lock is valid. The game being locked does
// not need to exist.
func (c *Controller) Lock(ctx context.Context, id string) (string, error) {
	return c.Store.Lock(ctx, id, ContextGetLockToken(ctx))
}

// Unlock should unlock a game, if already unlocked a valid lock token must be
// present
func (c *Controller) Unlock(ctx context.Context, id string) error {
	return c.Store.Unlock(ctx, id, ContextGetLockToken(ctx))
}

// AddGameFrame adds a new frame to the game. The lock token on the context
// must hold the game's lock.
func (c *Controller) AddGameFrame(ctx context.Context, id string, frame *board.GameFrame) error {
	if frame == nil {
		return errors.New("controller: frame must not be nil")
	}
	if _, err := c.Store.Lock(ctx, id, ContextGetLockToken(ctx)); err != nil {
		return err
	}
	return c.Store.PushGameFrame(ctx, id, frame)
}

// EndGame sets the final status of a game.
func (c *Controller) EndGame(ctx context.Context, id string, status rules.GameStatus) error {
	if status == "" {
		status = rules.GameStatusComplete
	}
	return c.Store.SetGameStatus(ctx, id, status)
}

// Frames lists a window of frames. The limit is clamped to MaxFrameLimit.
func (c *Controller) Frames(ctx context.Context, id string, offset, limit int) ([]*board.GameFrame, error) {
	if limit <= 0 || limit > MaxFrameLimit {
		limit = MaxFrameLimit
	}
	return c.Store.ListGameFrames(ctx, id, limit, offset)
}
