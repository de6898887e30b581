package filestore

import (
	"context"
	"os"
	"os/user"
	"path"
	"sync"
	"time"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

func defaultDir() string {
	return path.Join(homeDir(), ".autopilot/games")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a file based store implementation (1 file per game).
func NewFileStore(directory string) controller.Store {
	if directory == "" {
		directory = defaultDir()
	}

	return &fileStore{
		games:     map[string]*board.Game{},
		frames:    map[string][]*board.GameFrame{},
		writers:   map[string]writer{},
		locks:     map[string]*lock{},
		directory: directory,
	}
}

type lock struct {
	token   string
	expires time.Time
}

type fileStore struct {
	games     map[string]*board.Game
	frames    map[string][]*board.GameFrame
	writers   map[string]writer
	locks     map[string]*lock
	lock      sync.Mutex
	directory string
}

// closeGame removes the game from in-memory cache and closes the handle to its
// file. Should be called when game is complete.
func (fs *fileStore) closeGame(id string) {
	if w, ok := fs.writers[id]; ok {
		err := w.Close()
		if err != nil {
			log.WithError(err).Error("Error while closing file writer")
		}
	}
	delete(fs.games, id)
	delete(fs.frames, id)
	delete(fs.writers, id)
}

func (fs *fileStore) Lock(ctx context.Context, key, token string) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	now := time.Now()

	l, ok := fs.locks[key]
	if ok {
		// If the token matches our active token, just bump the expiration.
		if l.token == token {
			l.expires = now.Add(controller.LockExpiry)
			return l.token, nil
		}
		// We have a lock token, if it's expired just delete it and continue as
		// if nothing happened.
		if l.expires.Before(now) {
			delete(fs.locks, key)
		} else {
			return "", controller.ErrIsLocked
		}
	}
	if token == "" {
		token = uuid.NewV4().String()
	}
	l = &lock{
		token:   token,
		expires: now.Add(controller.LockExpiry),
	}
	fs.locks[key] = l
	return l.token, nil
}

func (fs *fileStore) isLocked(key string) bool {
	l, ok := fs.locks[key]
	return ok && l.expires.After(time.Now())
}

func (fs *fileStore) Unlock(ctx context.Context, key, token string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	l, ok := fs.locks[key]
	// No lock? Don't care.
	if !ok {
		return nil
	}
	// We have a lock that matches our token, even if it's expired we are safe
	// to remove it. If it's expired, remove it as well.
	if l.expires.Before(time.Now()) || l.token == token {
		delete(fs.locks, key)
		return nil
	}
	return controller.ErrIsLocked
}

// PopGameID gives the next running game. Since running games should always be
// cached in memory it is not necessary to scan file system.
func (fs *fileStore) PopGameID(ctx context.Context) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	for id, g := range fs.games {
		if !fs.isLocked(id) && g.Status == string(rules.GameStatusRunning) {
			return id, nil
		}
	}
	return "", controller.ErrNotFound
}

func (fs *fileStore) CreateGame(ctx context.Context, g *board.Game, frames []*board.GameFrame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.closeGame(g.ID)
	handle, err := openFileWriter(fs.directory, g.ID, true)
	if err != nil {
		return err
	}
	fs.writers[g.ID] = handle
	fs.games[g.ID] = g.Clone()
	fs.frames[g.ID] = []*board.GameFrame{}

	if err := writeGame(handle, g); err != nil {
		return err
	}
	for _, f := range frames {
		if err := fs.appendFrame(g.ID, f); err != nil {
			return err
		}
	}
	return nil
}

func (fs *fileStore) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	game, err := fs.requireGame(id)
	if err != nil {
		return err
	}
	game.Status = string(status)

	handle, err := fs.requireHandle(id)
	if err != nil {
		return err
	}
	if err := writeGame(handle, game); err != nil {
		return err
	}
	if status != rules.GameStatusRunning {
		fs.closeGame(id)
	}
	return nil
}

func (fs *fileStore) PushGameFrame(ctx context.Context, id string, f *board.GameFrame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	return fs.appendFrame(id, f)
}

func (fs *fileStore) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*board.GameFrame, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return nil, err
	}
	return controller.PageFrames(fs.frames[id], limit, offset), nil
}

func (fs *fileStore) GetGame(ctx context.Context, id string) (*board.Game, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	g, err := fs.requireGame(id)
	if err != nil {
		return nil, err
	}

	// Clone the game, since this could be modified after this is returned
	// and upset internal state inside the store.
	return g.Clone(), nil
}

func (fs *fileStore) requireHandle(id string) (writer, error) {
	if w, ok := fs.writers[id]; ok {
		return w, nil
	}

	handle, err := openFileWriter(fs.directory, id, false)
	if err != nil {
		return nil, err
	}

	fs.writers[id] = handle
	return handle, nil
}

// requireGame loads the game and its frames from disk unless cached.
func (fs *fileStore) requireGame(id string) (*board.Game, error) {
	if g, ok := fs.games[id]; ok {
		return g, nil
	}

	g, frames, err := ReadGame(fs.directory, id)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, controller.ErrNotFound
		}
		return nil, err
	}

	fs.games[id] = g
	fs.frames[id] = frames
	return g, nil
}

func (fs *fileStore) appendFrame(id string, f *board.GameFrame) error {
	if _, err := fs.requireGame(id); err != nil {
		return err
	}
	if int(f.Turn) != len(fs.frames[id]) {
		return controller.ErrInvalidSequence
	}

	handle, err := fs.requireHandle(id)
	if err != nil {
		return err
	}

	fs.frames[id] = append(fs.frames[id], f.Clone())
	return writeFrame(handle, f)
}

func getFilePath(directory string, id string) string {
	return path.Join(directory, id) + ".ap"
}
