package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

const runningKey = "games:running"

func gameKey(id string) string   { return "game:" + id }
func framesKey(id string) string { return "game:" + id + ":frames" }
func lockKey(id string) string   { return "lock:" + id }

// lockValue is stored under the lock key. The expiry is kept in the value so
// that expired locks can be taken over without waiting on the key ttl.
type lockValue struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Store is a controller.Store backed by redis.
type Store struct {
	client *redis.Client
}

// NewStore will create a new instance of an underlying redis client, so it should not be re-created across "threads"
// - connectURL see: github.com/go-redis/redis/options.go for URL specifics
// The underlying redis client will be immediately tested for connectivity, so don't call this until you know redis can connect.
// Returns a new instance OR an error if unable (meaning an issue connecting to your redis URL)
func NewStore(connectURL string) (*Store, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)

	// Validate it's connected
	err = client.Ping().Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	return &Store{client: client}, nil
}

// Close closes the underlying redis client.
func (rs *Store) Close() error {
	return rs.client.Close()
}

func lockTTL() time.Duration {
	if controller.LockExpiry > 0 {
		return controller.LockExpiry
	}
	return 0
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(key string) *redis.StringCmd
}

func readLock(c getter, key string) (*lockValue, error) {
	data, err := c.Get(lockKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	l := &lockValue{}
	if err := json.Unmarshal(data, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Lock will lock a specific game, returning a token that must be used to
// write frames to the game.
func (rs *Store) Lock(ctx context.Context, key, token string) (string, error) {
	if token == "" {
		token = uuid.NewV4().String()
	}
	now := time.Now()
	data, err := json.Marshal(lockValue{Token: token, Expires: now.Add(controller.LockExpiry)})
	if err != nil {
		return "", err
	}

	cur, err := readLock(rs.client, key)
	if err != nil {
		return "", err
	}
	if cur == nil {
		ok, err := rs.client.SetNX(lockKey(key), data, lockTTL()).Result()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", controller.ErrIsLocked
		}
		return token, nil
	}

	err = rs.client.Watch(func(tx *redis.Tx) error {
		cur, err := readLock(tx, key)
		if err != nil {
			return err
		}
		if cur != nil && cur.Token != token && cur.Expires.After(now) {
			return controller.ErrIsLocked
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(lockKey(key), data, lockTTL())
			return nil
		})
		return err
	}, lockKey(key))
	if err == redis.TxFailedErr {
		return "", controller.ErrIsLocked
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Unlock will unlock a game if it is locked and the token used to lock it
// is correct.
func (rs *Store) Unlock(ctx context.Context, key, token string) error {
	err := rs.client.Watch(func(tx *redis.Tx) error {
		cur, err := readLock(tx, key)
		if err != nil {
			return err
		}
		if cur == nil {
			return nil
		}
		if cur.Token != token && cur.Expires.After(time.Now()) {
			return controller.ErrIsLocked
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Del(lockKey(key))
			return nil
		})
		return err
	}, lockKey(key))
	if err == redis.TxFailedErr {
		return controller.ErrIsLocked
	}
	return err
}

// PopGameID returns a new game that is unlocked and running. Workers call
// this method through the controller to find games to process.
func (rs *Store) PopGameID(ctx context.Context) (string, error) {
	ids, err := rs.client.SMembers(runningKey).Result()
	if err != nil {
		return "", err
	}
	now := time.Now()
	for _, id := range ids {
		l, err := readLock(rs.client, id)
		if err != nil {
			return "", err
		}
		if l == nil || !l.Expires.After(now) {
			return id, nil
		}
	}
	return "", controller.ErrNotFound
}

func readGame(c getter, id string) (*board.Game, error) {
	data, err := c.Get(gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, controller.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	g := &board.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, err
	}
	return g, nil
}

func queueStatus(pipe redis.Pipeliner, id string, status string) {
	if status == string(rules.GameStatusRunning) {
		pipe.SAdd(runningKey, id)
	} else {
		pipe.SRem(runningKey, id)
	}
}

// SetGameStatus is used to set a specific game status. This operation
// should be atomic.
func (rs *Store) SetGameStatus(c context.Context, id string, status rules.GameStatus) error {
	return rs.client.Watch(func(tx *redis.Tx) error {
		g, err := readGame(tx, id)
		if err != nil {
			return err
		}
		g.Status = string(status)
		data, err := json.Marshal(g)
		if err != nil {
			return err
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(gameKey(id), data, 0)
			queueStatus(pipe, id, g.Status)
			return nil
		})
		return err
	}, gameKey(id))
}

// CreateGame will insert a game with the default game frames.
func (rs *Store) CreateGame(c context.Context, g *board.Game, frames []*board.GameFrame) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	encoded := make([]interface{}, 0, len(frames))
	for i, f := range frames {
		if int(f.Turn) != i {
			return controller.ErrInvalidSequence
		}
		b, err := json.Marshal(f)
		if err != nil {
			return err
		}
		encoded = append(encoded, b)
	}

	_, err = rs.client.TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.Set(gameKey(g.ID), data, 0)
		pipe.Del(framesKey(g.ID))
		if len(encoded) > 0 {
			pipe.RPush(framesKey(g.ID), encoded...)
		}
		queueStatus(pipe, g.ID, g.Status)
		return nil
	})
	return err
}

// PushGameFrame will push a game frame onto the list of frames.
func (rs *Store) PushGameFrame(c context.Context, id string, f *board.GameFrame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return rs.client.Watch(func(tx *redis.Tx) error {
		n, err := tx.Exists(gameKey(id)).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return controller.ErrNotFound
		}
		length, err := tx.LLen(framesKey(id)).Result()
		if err != nil {
			return err
		}
		if int64(f.Turn) != length {
			return controller.ErrInvalidSequence
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.RPush(framesKey(id), data)
			return nil
		})
		return err
	}, gameKey(id), framesKey(id))
}

// ListGameFrames will list frames by an offset and limit, it supports
// negative offset.
func (rs *Store) ListGameFrames(c context.Context, id string, limit, offset int) ([]*board.GameFrame, error) {
	n, err := rs.client.Exists(gameKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, controller.ErrNotFound
	}
	length, err := rs.client.LLen(framesKey(id)).Result()
	if err != nil {
		return nil, err
	}

	start := int64(offset)
	if start < 0 {
		start = length + start
		if start < 0 {
			start = 0
		}
	}
	if limit <= 0 || start >= length {
		return nil, nil
	}
	stop := start + int64(limit) - 1

	values, err := rs.client.LRange(framesKey(id), start, stop).Result()
	if err != nil {
		return nil, err
	}
	frames := make([]*board.GameFrame, 0, len(values))
	for _, v := range values {
		f := &board.GameFrame{}
		if err := json.Unmarshal([]byte(v), f); err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// GetGame will fetch the game.
func (rs *Store) GetGame(c context.Context, id string) (*board.Game, error) {
	return readGame(rs.client, id)
}
