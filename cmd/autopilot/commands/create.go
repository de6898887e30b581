package commands

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/battlesnakeio/autopilot/rules"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	cr         = rules.CreateRequest{}
	autoStart  = false
)

func init() {
	createCmd.Flags().StringVarP(&configFile, "config", "c", "", "read the create request from a json file")
	createCmd.Flags().IntVar(&cr.Width, "width", rules.DefaultWidth, "board width in pixels")
	createCmd.Flags().IntVar(&cr.Height, "height", rules.DefaultHeight, "board height in pixels")
	createCmd.Flags().IntVar(&cr.CellSize, "cell-size", rules.DefaultCellSize, "cell size in pixels")
	createCmd.Flags().Int32Var(&cr.TickDelay, "tick-delay", rules.DefaultTickDelay, "milliseconds between ticks, negative for none")
	createCmd.Flags().Int64Var(&cr.Seed, "seed", 0, "food placement seed, 0 picks one")
	createCmd.Flags().BoolVarP(&autoStart, "start", "s", autoStart, "start the game after creating it")
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "creates a new game on the autopilot api",
	Args: func(c *cobra.Command, args []string) error {
		if configFile == "" {
			return nil
		}
		data, err := ioutil.ReadFile(configFile) // nolint: gosec
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &cr)
	},
	Run: func(*cobra.Command, []string) {
		resp, err := createGame(cr)
		if err != nil {
			log.WithError(err).Fatal("unable to create game")
		}
		if autoStart {
			if err := startGame(resp.ID); err != nil {
				log.WithError(err).WithField("game", resp.ID).Fatal("unable to start game")
			}
		}
		fmt.Printf(`{"ID": "%s"}`+"\n", resp.ID)
	},
}
