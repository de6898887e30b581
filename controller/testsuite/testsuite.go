// Package testsuite holds the behaviour every controller.Store must share.
package testsuite

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"
)

func testStoreLock(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()

	ctx := context.Background()

	// Lock random key.
	tok, err := s.Lock(ctx, key, "")
	require.Nil(t, err)
	require.NotEmpty(t, tok)

	// Lock with valid token, no error same token returned.
	tok2, err := s.Lock(ctx, key, tok)
	require.Nil(t, err)
	require.Equal(t, tok, tok2)

	// Lock with another token is refused.
	_, err = s.Lock(ctx, key, "")
	require.Equal(t, controller.ErrIsLocked, err)

	// Unlock without valid token returns error.
	err = s.Unlock(ctx, key, "")
	require.Error(t, err)

	// Unlock with valid token no error.
	err = s.Unlock(ctx, key, tok)
	require.Nil(t, err)

	// Unlock where lock doesn't exist returns no error.
	err = s.Unlock(ctx, key+"-missing", "")
	require.Nil(t, err)
}

func testStoreLockExpiry(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Negative expiry, will always be expired.
	controller.LockExpiry = -10 * time.Second
	defer func() { controller.LockExpiry = 1 * time.Second }()

	// Lock random key.
	tok, err := s.Lock(ctx, key, "")
	require.Nil(t, err)
	require.NotEmpty(t, tok)

	// Lock (with token) has expired.
	tok2, err := s.Lock(ctx, key, tok)
	require.Nil(t, err)
	require.Equal(t, tok, tok2)

	// Unlock (no token) has expired.
	err = s.Unlock(ctx, key, "")
	require.NoError(t, err)

	// Lock (no token) has expired.
	_, err = s.Lock(ctx, key, "")
	require.Nil(t, err)

	// Unlock (no token) has expired.
	err = s.Unlock(ctx, key, "")
	require.Nil(t, err)
}

func testStoreGameStatus(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Create a stopped game, cannot pop.
	err := s.CreateGame(ctx, &board.Game{
		ID: key, Status: string(rules.GameStatusStopped)}, nil)
	require.Nil(t, err)
	_, err = s.PopGameID(ctx)
	require.Equal(t, controller.ErrNotFound, err)

	// Set game to running.
	err = s.SetGameStatus(ctx, key, rules.GameStatusRunning)
	require.Nil(t, err)

	// Pop game can find it.
	id, err := s.PopGameID(ctx)
	require.Nil(t, err)
	require.Equal(t, key, id)

	// Set game to error.
	err = s.SetGameStatus(ctx, key, rules.GameStatusError)
	require.Nil(t, err)

	// Cannot pop.
	_, err = s.PopGameID(ctx)
	require.NotNil(t, err)

	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, string(rules.GameStatusError), g.Status)
}

func testStoreGames(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Create and fetch a game.
	err := s.CreateGame(ctx, &board.Game{
		ID: key, Status: string(rules.GameStatusRunning),
		Width: 14, Height: 12, CellSize: 50, TickDelay: 35, Seed: 7}, nil)
	require.Nil(t, err)
	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, key, g.ID)
	require.Equal(t, 14, g.Width)
	require.Equal(t, int64(7), g.Seed)

	// NotFound error thrown.
	_, err = s.GetGame(ctx, key+"-missing")
	require.Equal(t, controller.ErrNotFound, err)

	// Pop game can find it.
	id, err := s.PopGameID(ctx)
	require.Nil(t, err)
	require.Equal(t, key, id)

	// Lock test key, cannot pop.
	_, err = s.Lock(ctx, key, "")
	require.Nil(t, err)
	_, err = s.PopGameID(ctx)
	require.NotNil(t, err)
}

func testStoreGameFrames(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Create and fetch a game.
	err := s.CreateGame(ctx, &board.Game{
		ID: key, Status: string(rules.GameStatusRunning), Width: 4, Height: 4}, nil)
	require.Nil(t, err)
	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, key, g.ID)

	// Read game frames, too high offset.
	frames, err := s.ListGameFrames(ctx, key, 10, 100)
	require.Nil(t, err)
	require.Equal(t, 0, len(frames))

	// Read game frames, 0 offset.
	frames, err = s.ListGameFrames(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Equal(t, 0, len(frames))

	// Push three game frames.
	food := board.Point{X: 3, Y: 3}
	for turn := int32(0); turn < 3; turn++ {
		err = s.PushGameFrame(ctx, key, &board.GameFrame{
			Turn:  turn,
			Snake: &board.Snake{Body: []board.Point{{X: int(turn), Y: 0}}},
			Food:  &food,
			Score: turn,
		})
		require.Nil(t, err)
	}

	// Out of sequence frames are refused.
	err = s.PushGameFrame(ctx, key, &board.GameFrame{Turn: 7})
	require.Equal(t, controller.ErrInvalidSequence, err)

	// Read the game frames.
	frames, err = s.ListGameFrames(ctx, key, 1, 0)
	require.Nil(t, err)
	require.Equal(t, 1, len(frames))
	require.Equal(t, int32(0), frames[0].Turn)

	frames, err = s.ListGameFrames(ctx, key, 2, 1)
	require.Nil(t, err)
	require.Equal(t, 2, len(frames))
	require.Equal(t, int32(1), frames[0].Turn)
	require.Equal(t, board.Point{X: 2, Y: 0}, frames[1].Snake.Head())
	require.Equal(t, food, *frames[1].Food)

	// Negative offset reads back from the latest frame.
	frames, err = s.ListGameFrames(ctx, key, 1, -1)
	require.Nil(t, err)
	require.Equal(t, 1, len(frames))
	require.Equal(t, int32(2), frames[0].Turn)
	require.Equal(t, int32(2), frames[0].Score)

	// Read game frames that don't exist.
	frames, err = s.ListGameFrames(ctx, key+"-missing", 1, 0)
	require.Equal(t, controller.ErrNotFound, err)
	require.Equal(t, 0, len(frames))

	// Read the game frames, too high offset.
	frames, err = s.ListGameFrames(ctx, key, 10, 100)
	require.Nil(t, err)
	require.Equal(t, 0, len(frames))
}

func testStoreConcurrentWriters(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Create and fetch a game.
	err := s.CreateGame(ctx,
		&board.Game{ID: key, Status: string(rules.GameStatusRunning)}, nil)
	require.Nil(t, err)

	var ok uint32 // How many got the lock.
	var wg sync.WaitGroup
	wg.Add(20)

	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			if _, errl := s.Lock(ctx, key, ""); errl == nil {
				atomic.AddUint32(&ok, 1)
			}
		}()
	}

	wg.Wait()

	require.Equal(t, uint32(1), ok)
}

// Suite will execute the store testsuite. newStore is called before every
// case and must return an empty store.
func Suite(t *testing.T, newStore func() controller.Store) {
	run := func(name string, test func(*testing.T, controller.Store)) {
		t.Run(name, func(t *testing.T) { test(t, controller.InstrumentStore(newStore())) })
	}
	run("Lock", testStoreLock)
	run("LockExpiry", testStoreLockExpiry)
	run("Games", testStoreGames)
	run("GameStatus", testStoreGameStatus)
	run("GameFrames", testStoreGameFrames)
	run("ConcurrentWriters", testStoreConcurrentWriters)
}
