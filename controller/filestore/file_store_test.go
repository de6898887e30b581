package filestore

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/controller/testsuite"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	var dirs []string
	defer func() {
		for _, d := range dirs {
			os.RemoveAll(d)
		}
	}()
	testsuite.Suite(t, func() controller.Store {
		dir, err := ioutil.TempDir("", "autopilot-filestore")
		require.NoError(t, err)
		dirs = append(dirs, dir)
		return NewFileStore(dir)
	})
}

func TestFileStoreReload(t *testing.T) {
	dir, err := ioutil.TempDir("", "autopilot-filestore")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	ctx := context.Background()
	game, frames, err := rules.CreateInitialGame(&rules.CreateRequest{
		Width: 300, Height: 300, CellSize: 50, Seed: 11,
	})
	require.NoError(t, err)

	s := NewFileStore(dir)
	require.NoError(t, s.CreateGame(ctx, game, frames))
	require.NoError(t, s.SetGameStatus(ctx, game.ID, rules.GameStatusRunning))

	last := frames[0]
	for i := 0; i < 3; i++ {
		next, err := rules.GameTick(game, last, rules.DefaultPolicy)
		require.NoError(t, err)
		require.NoError(t, s.PushGameFrame(ctx, game.ID, next))
		last = next
	}
	require.NoError(t, s.SetGameStatus(ctx, game.ID, rules.GameStatusComplete))

	// A fresh store reads everything back from disk.
	reloaded := NewFileStore(dir)
	g, err := reloaded.GetGame(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, string(rules.GameStatusComplete), g.Status)
	require.Equal(t, game.Seed, g.Seed)

	got, err := reloaded.ListGameFrames(ctx, game.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, last.Snake.Body, got[3].Snake.Body)
	require.Equal(t, *last.Food, *got[3].Food)

	_, err = reloaded.GetGame(ctx, "missing")
	require.Equal(t, controller.ErrNotFound, err)
}

func TestReadGameWithoutHeader(t *testing.T) {
	dir, err := ioutil.TempDir("", "autopilot-filestore")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	w, err := appendOnlyFileWriter(dir, "broken", true)
	require.NoError(t, err)
	require.NoError(t, writeFrame(w, &board.GameFrame{}))
	require.NoError(t, w.Close())

	_, _, err = ReadGame(dir, "broken")
	require.Error(t, err)
}
