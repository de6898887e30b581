package server

import (
	"github.com/battlesnakeio/autopilot/api"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/rules"
	log "github.com/sirupsen/logrus"
)

var (
	apiListen = ":3005"
)

func init() {
	RootCmd.Flags().StringVarP(&apiListen, "listen", "l", apiListen, "api address to listen on")
}

func serveAPI(client controller.Client, policy rules.Policy) *api.Server {
	s := api.New(apiListen, client, policy)
	go func() {
		log.WithField("listen", apiListen).Info("Autopilot api serving")
		if err := s.WaitForExit(); err != nil {
			log.WithError(err).
				WithField("listen", apiListen).
				Fatal("api server failed")
		}
	}()
	return s
}
