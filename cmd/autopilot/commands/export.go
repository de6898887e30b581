package commands

import (
	"errors"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/battlesnakeio/autopilot/controller/filestore"
	"github.com/battlesnakeio/autopilot/export"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	exportDir  string
	exportPath = "decisions.parquet"
)

func init() {
	exportCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to export")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "read the game from a file store directory instead of the api")
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", exportPath, "parquet file to write")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "exports the decisions of a game to parquet",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		var (
			game   *board.Game
			frames []*board.GameFrame
			err    error
		)
		if exportDir != "" {
			game, frames, err = filestore.ReadGame(exportDir, gameID)
		} else {
			game, frames, err = fetchGame(gameID)
		}
		if err != nil {
			log.WithError(err).WithField("game", gameID).Fatal("unable to load game")
		}

		rows := export.FromFrames(game, frames)
		if err := export.WriteParquet(exportPath, rows); err != nil {
			log.WithError(err).Fatal("unable to write parquet")
		}
		log.WithFields(log.Fields{
			"game": gameID,
			"rows": len(rows),
			"path": exportPath,
		}).Info("exported decisions")
	},
}

func fetchGame(id string) (*board.Game, []*board.GameFrame, error) {
	sr, err := getStatus(id)
	if err != nil {
		return nil, nil, err
	}
	frames, err := getFrames(id)
	if err != nil {
		return nil, nil, err
	}
	return sr.Game, frames, nil
}
