package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/rules"
	uuid "github.com/satori/go.uuid"
)

var (
	// LockExpiry is the time after which a lock will expire.
	LockExpiry = 1 * time.Second
	// ErrNotFound is thrown when a game is not found.
	ErrNotFound = errors.New("controller: game not found")
	// ErrIsLocked is returned when a game is locked.
	ErrIsLocked = errors.New("controller: game is locked")
	// ErrInvalidSequence is returned when a frame is pushed out of turn order.
	ErrInvalidSequence = errors.New("controller: frame is out of sequence")
)

// Store is the interface to the backend store.
type Store interface {
	// Lock will lock a specific game, returning a token that must be used to
	// write frames to the game.
	Lock(ctx context.Context, key, token string) (string, error)
	// Unlock will unlock a game if it is locked and the token used to lock it
	// is correct.
	Unlock(ctx context.Context, key, token string) error
	// PopGameID returns a new game that is unlocked and running. Workers call
	// this method through the controller to find games to process.
	PopGameID(context.Context) (string, error)
	// SetGameStatus is used to set a specific game status. This operation
	// should be atomic.
	SetGameStatus(c context.Context, id string, status rules.GameStatus) error
	// CreateGame will insert a game with the default game frames.
	CreateGame(context.Context, *board.Game, []*board.GameFrame) error
	// PushGameFrame will push a game frame onto the list of frames.
	PushGameFrame(c context.Context, id string, f *board.GameFrame) error
	// ListGameFrames will list frames by an offset and limit, it supports
	// negative offset.
	ListGameFrames(c context.Context, id string, limit, offset int) ([]*board.GameFrame, error)
	// GetGame will fetch the game.
	GetGame(context.Context, string) (*board.Game, error)
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{
		games:  map[string]*board.Game{},
		frames: map[string][]*board.GameFrame{},
		locks:  map[string]*lock{},
	}
}

type lock struct {
	token   string
	expires time.Time
}

type inmem struct {
	games  map[string]*board.Game
	frames map[string][]*board.GameFrame
	locks  map[string]*lock
	lock   sync.Mutex
}

func (in *inmem) Lock(ctx context.Context, key, token string) (string, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	now := time.Now()
	l, ok := in.locks[key]
	if ok {
		if l.token == token {
			l.expires = now.Add(LockExpiry)
			return l.token, nil
		}
		if l.expires.Before(now) {
			delete(in.locks, key)
		} else {
			return "", ErrIsLocked
		}
	}
	if token == "" {
		token = uuid.NewV4().String()
	}
	l = &lock{
		token:   token,
		expires: now.Add(LockExpiry),
	}
	in.locks[key] = l
	return l.token, nil
}

func (in *inmem) isLocked(key string) bool {
	l, ok := in.locks[key]
	return ok && l.expires.After(time.Now())
}

func (in *inmem) Unlock(ctx context.Context, key, token string) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	l, ok := in.locks[key]
	if !ok {
		return nil
	}
	if l.token == token || l.expires.Before(time.Now()) {
		delete(in.locks, key)
		return nil
	}
	return ErrIsLocked
}

func (in *inmem) PopGameID(ctx context.Context) (string, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	for id, g := range in.games {
		if !in.isLocked(id) && g.Status == string(rules.GameStatusRunning) {
			return id, nil
		}
	}
	return "", ErrNotFound
}

func (in *inmem) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = string(status)
	return nil
}

func (in *inmem) CreateGame(ctx context.Context, g *board.Game, frames []*board.GameFrame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	in.games[g.ID] = g.Clone()
	in.frames[g.ID] = nil
	for _, f := range frames {
		if err := in.appendFrame(g.ID, f); err != nil {
			return err
		}
	}
	return nil
}

func (in *inmem) appendFrame(id string, f *board.GameFrame) error {
	if _, ok := in.games[id]; !ok {
		return ErrNotFound
	}
	if int(f.Turn) != len(in.frames[id]) {
		return ErrInvalidSequence
	}
	in.frames[id] = append(in.frames[id], f.Clone())
	return nil
}

func (in *inmem) PushGameFrame(ctx context.Context, id string, f *board.GameFrame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	return in.appendFrame(id, f)
}

func (in *inmem) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*board.GameFrame, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return nil, ErrNotFound
	}
	return PageFrames(in.frames[id], limit, offset), nil
}

func (in *inmem) GetGame(ctx context.Context, id string) (*board.Game, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if g, ok := in.games[id]; ok {
		return g.Clone(), nil
	}
	return nil, ErrNotFound
}

// PageFrames applies limit and offset semantics shared by every store to an
// ordered list of frames. A negative offset counts back from the last frame.
// The returned frames are copies.
func PageFrames(frames []*board.GameFrame, limit, offset int) []*board.GameFrame {
	if offset < 0 {
		offset = len(frames) + offset
		if offset < 0 {
			offset = 0
		}
	}
	if len(frames) == 0 || offset >= len(frames) || limit <= 0 {
		return nil
	}
	if offset+limit >= len(frames) {
		limit = len(frames) - offset
	}
	page := make([]*board.GameFrame, 0, limit)
	for _, f := range frames[offset : offset+limit] {
		page = append(page, f.Clone())
	}
	return page
}
