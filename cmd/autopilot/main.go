package main

import (
	"math/rand"
	"time"

	"github.com/battlesnakeio/autopilot/cmd/autopilot/commands"
)

func main() {
	rand.Seed(time.Now().UnixNano())
	commands.Execute()
}
