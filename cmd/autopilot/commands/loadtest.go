package commands

import (
	"time"

	"github.com/battlesnakeio/autopilot/rules"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	games  int
	loadCR = rules.CreateRequest{}
)

func init() {
	loadTestCmd.Flags().IntVarP(&games, "num-games", "n", 10, "number of games to create and run for the load test")
	loadTestCmd.Flags().Int32Var(&loadCR.TickDelay, "tick-delay", -1, "milliseconds between ticks, negative for none")
}

type statusUpdate struct {
	id     string
	status string
	score  int32
}

var loadTestCmd = &cobra.Command{
	Use:   "load-test",
	Short: "run a load test against the autopilot api",
	Run: func(*cobra.Command, []string) {
		start := time.Now()
		ids := []string{}
		log.Info("Creating games")
		for i := 0; i < games; i++ {
			resp, err := createGame(loadCR)
			if err != nil {
				log.WithError(err).Fatal("unable to create game")
			}
			if err := startGame(resp.ID); err != nil {
				log.WithError(err).Fatal("unable to start game")
			}
			ids = append(ids, resp.ID)
		}

		statuses := map[string]rules.GameStatus{}
		updates := make(chan statusUpdate)
		for _, id := range ids {
			statuses[id] = ""
			go checkStatus(id, updates)
		}

		for s := range updates {
			log.WithFields(log.Fields{
				"id":     s.id,
				"status": s.status,
				"score":  s.score,
			}).Info("Game Status")
			statuses[s.id] = rules.GameStatus(s.status)

			done := true
			for _, s := range statuses {
				if s == rules.GameStatusComplete || s == rules.GameStatusError {
					continue
				}
				done = false
			}

			if done {
				log.WithFields(log.Fields{
					"elapsed": time.Since(start),
					"games":   games,
				}).Info("All games complete")
				return
			}
		}
	},
}

var updateFrequency = 300 * time.Millisecond

func checkStatus(id string, updates chan<- statusUpdate) {
	t := time.NewTicker(updateFrequency)
	defer t.Stop()
	for range t.C {
		sr, err := getStatus(id)
		if err != nil {
			log.WithError(err).WithField("id", id).Warn("status check failed")
			continue
		}
		u := statusUpdate{id: id, status: sr.Game.Status}
		if sr.LastFrame != nil {
			u.score = sr.LastFrame.Score
		}
		updates <- u
		if sr.Game.Status == string(rules.GameStatusComplete) || sr.Game.Status == string(rules.GameStatusError) {
			return
		}
	}
}
