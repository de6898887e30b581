package server

import (
	"context"
	"sync"
	"time"

	"github.com/battlesnakeio/autopilot/config"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/battlesnakeio/autopilot/worker"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	workerThreads           = 10
	workerPollInterval      = 1 * time.Second
	workerHeartbeatInterval = 300 * time.Millisecond
	workerMaxTurns          int32
)

func init() {
	RootCmd.Flags().IntVarP(&workerThreads, "threads", "t", workerThreads, "worker processor threads, this is the amount of concurrent games a worker can process")
	RootCmd.Flags().DurationVarP(&workerPollInterval, "poll-interval", "p", workerPollInterval, "worker poll interval")
	RootCmd.Flags().DurationVar(&workerHeartbeatInterval, "heartbeat-interval", workerHeartbeatInterval, "how often a worker refreshes its game lock")
	RootCmd.Flags().Int32Var(&workerMaxTurns, "max-turns", 0, "end games after this many turns, 0 for no limit")
}

func runWorkers(ctx context.Context, client controller.Client, policy rules.Policy) {
	w := &worker.Worker{
		ControllerClient:  client,
		PollInterval:      workerPollInterval,
		HeartbeatInterval: workerHeartbeatInterval,
		RunGame:           worker.Runner(policy, workerMaxTurns),
		Limiter:           rate.NewLimiter(config.PopRate, config.PopBurstRate),
	}

	wg := &sync.WaitGroup{}
	wg.Add(workerThreads)
	for i := 0; i < workerThreads; i++ {
		go func(i int) {
			defer wg.Done()
			log.WithField("worker", i).Debug("Autopilot worker starting")
			w.Run(ctx, i)
		}(i)
	}
	wg.Wait()
}
