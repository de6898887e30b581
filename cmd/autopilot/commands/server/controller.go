package server

import (
	"io"

	"github.com/battlesnakeio/autopilot/config"
	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/controller/filestore"
	"github.com/battlesnakeio/autopilot/controller/redis"
	"github.com/battlesnakeio/autopilot/controller/sqlstore"
	"github.com/pkg/errors"
)

var (
	controllerBackend     = "inmem"
	controllerBackendArgs = ""
)

func init() {
	RootCmd.Flags().StringVarP(&controllerBackend, "backend", "b", controllerBackend, "controller backend, as one of: [inmem, file, redis, sql]")
	RootCmd.Flags().StringVarP(&controllerBackendArgs, "backend-args", "a", controllerBackendArgs, "options to pass to the backend being used")
}

// newStore opens the configured backend. The returned closer may be nil.
func newStore(backend, args string) (controller.Store, io.Closer, error) {
	switch backend {
	case "inmem":
		return controller.InMemStore(), nil, nil
	case "file":
		if args == "" {
			args = config.GameDir
		}
		return filestore.NewFileStore(args), nil, nil
	case "redis":
		s, err := redis.NewStore(args)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "sql":
		s, err := sqlstore.NewSQLStore(args)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, errors.Errorf("invalid backend %q", backend)
}
