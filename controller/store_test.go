package controller_test

import (
	"testing"

	"github.com/battlesnakeio/autopilot/controller"
	"github.com/battlesnakeio/autopilot/controller/testsuite"
)

func TestInMemStore(t *testing.T) {
	testsuite.Suite(t, controller.InMemStore)
}
