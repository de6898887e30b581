package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/battlesnakeio/autopilot/api"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/battlesnakeio/autopilot/worker"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

const maxTurns = 300

var games = map[string]rules.CreateRequest{
	"Small": {
		Width:     300,
		Height:    300,
		CellSize:  50,
		TickDelay: -1,
		Seed:      1,
	},
	"Default": {
		TickDelay: -1,
		Seed:      2,
	},
	"Narrow": {
		Width:     100,
		Height:    500,
		CellSize:  50,
		TickDelay: -1,
		Seed:      3,
	},
}

func newClient(url string) *client {
	return &client{
		apiURL: url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// startStack runs the api and a pool of workers in process over an in-memory
// store.
func startStack(t *testing.T) (*client, func()) {
	ctrl := controller.New(controller.InstrumentStore(controller.InMemStore()))
	srv := httptest.NewServer(api.New("", ctrl, rules.DefaultPolicy).Handler())

	ctx, cancel := context.WithCancel(context.Background())
	w := &worker.Worker{
		ControllerClient:  ctrl,
		PollInterval:      10 * time.Millisecond,
		HeartbeatInterval: 50 * time.Millisecond,
		RunGame:           worker.Runner(rules.DefaultPolicy, maxTurns),
		Limiter:           rate.NewLimiter(rate.Inf, 1),
	}
	wg := &sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w.Run(ctx, i)
		}(i)
	}

	return newClient(srv.URL), func() {
		cancel()
		wg.Wait()
		srv.Close()
	}
}

func Test(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e games skipped in short mode")
	}
	const (
		multiplier   = 3
		waitTicks    = 300
		waitInterval = 50 * time.Millisecond
	)

	c, stop := startStack(t)
	defer stop()

	t.Run("group", func(t *testing.T) {
		for i := 0; i < multiplier; i++ {
			for name, game := range games {
				game := game
				t.Run(fmt.Sprintf("%s#%d", name, i), func(t *testing.T) {
					t.Parallel()

					id, err := c.beginGame(game)
					if !assert.Nil(t, err) {
						return
					}

					for i := 0; i < waitTicks; i++ {
						time.Sleep(waitInterval)
						st, frames, err := c.gameStatus(id)
						if !assert.Nil(t, err) {
							return
						}

						if st.Game.Status == string(rules.GameStatusComplete) {
							t.Logf("game finished id=%s turns=%d frames=%d", id, st.LastFrame.Turn, len(frames))
							if !assert.Equal(t, int(st.LastFrame.Turn)+1, len(frames)) {
								spew.Dump(frames)
							}
							for i, f := range frames {
								assert.Equal(t, i, int(f.Turn))
							}
							last := frames[len(frames)-1]
							assert.True(t, last.Over() || last.Turn >= maxTurns)
							return
						}
						if !assert.NotEqual(t, string(rules.GameStatusError), st.Game.Status) {
							return
						}
					}

					t.Errorf("game %s did not finish after: %v", id, time.Duration(waitTicks)*waitInterval)
				})
			}
		}
	})
}
