package filestore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/pkg/errors"
)

func readRecords(r *bufio.Reader, fn func(record) error) error {
	for {
		line, err := r.ReadBytes('\n')
		eof := err == io.EOF
		if err != nil && !eof {
			return err
		}

		if line = bytes.TrimSpace(line); len(line) > 0 {
			rec := record{}
			if err := json.Unmarshal(line, &rec); err != nil {
				return err
			}
			if err := fn(rec); err != nil {
				return err
			}
		}

		if eof {
			return nil
		}
	}
}

// ReadGame loads the game stored in directory with the given id along with
// all of its frames.
func ReadGame(directory, id string) (*board.Game, []*board.GameFrame, error) {
	f, err := os.Open(getFilePath(directory, id))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var game *board.Game
	frames := []*board.GameFrame{}
	err = readRecords(bufio.NewReader(f), func(rec record) error {
		if rec.Game != nil {
			game = rec.Game
		}
		if rec.Frame != nil {
			frames = append(frames, rec.Frame)
		}
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to read game %s", id)
	}
	if game == nil {
		return nil, nil, errors.Errorf("game file %s has no game record", id)
	}
	return game, frames, nil
}
