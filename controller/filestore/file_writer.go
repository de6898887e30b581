package filestore

import (
	"encoding/json"
	"os"

	"github.com/battlesnakeio/autopilot/board"
)

var openFileWriter = appendOnlyFileWriter

type writer interface {
	WriteString(s string) (int, error)
	Close() error
}

// record is one line of a game file. A game record replaces any earlier one,
// frame records are appended in turn order.
type record struct {
	Game  *board.Game      `json:"game,omitempty"`
	Frame *board.GameFrame `json:"frame,omitempty"`
}

func writeLine(w writer, data interface{}) error {
	j, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.WriteString(string(j) + "\n")
	return err
}

func writeGame(w writer, g *board.Game) error {
	return writeLine(w, record{Game: g})
}

func writeFrame(w writer, f *board.GameFrame) error {
	return writeLine(w, record{Frame: f})
}

func appendOnlyFileWriter(directory, id string, truncate bool) (writer, error) {
	if err := os.MkdirAll(directory, 0775); err != nil {
		return nil, err
	}

	flags := os.O_APPEND | os.O_WRONLY | os.O_CREATE
	if truncate {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(getFilePath(directory, id), flags, 0644)
}
