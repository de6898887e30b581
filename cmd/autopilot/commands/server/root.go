package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/battlesnakeio/autopilot/config"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	promEnable = true
	promListen = ":9000"
)

// RootCmd provides the root run command.
var RootCmd = &cobra.Command{
	Use:    "server",
	Short:  "serve the autopilot api and run games with workers",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		store, closer, err := newStore(controllerBackend, controllerBackendArgs)
		if err != nil {
			log.WithError(err).
				WithField("backend", controllerBackend).
				Error("unable to start up backend store")
			os.Exit(1)
		}
		if closer != nil {
			defer func() {
				if err := closer.Close(); err != nil {
					log.WithError(err).Error("unable to close store")
				}
			}()
		}

		policy := rules.Policy{
			EndgameThreshold: config.EndgameThreshold,
			VerticalLimit:    config.VerticalLimit,
		}
		ctrl := controller.New(controller.InstrumentStore(store))
		s := serveAPI(ctrl, policy)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			log.Info("shutting down")
			cancel()
		}()

		runWorkers(ctx, ctrl, policy)

		shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := s.Shutdown(shutdown); err != nil {
			log.WithError(err).Warn("api shutdown failed")
		}
	},
}

func init() {
	RootCmd.Flags().BoolVar(&promEnable, "prometheus", promEnable, "enable prometheus metrics")
	RootCmd.Flags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")
}

func prometheus() {
	if !promEnable {
		log.Info("prometheus exporter not enabled")
		return
	}

	log.WithField("addr", promListen).Info("starting prometheus exporter")
	go func() {
		r := http.NewServeMux()
		r.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(promListen, r); err != nil {
			log.WithError(err).Warn("prometheus failed to listen")
		}
	}()
}
