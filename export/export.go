// Package export flattens played games into one parquet row per decision.
package export

import (
	"os"
	"path/filepath"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"
)

// DecisionRow is a single move of a game together with the state it was
// decided from.
type DecisionRow struct {
	GameID           string `parquet:"game_id,dict"`
	Turn             int32  `parquet:"turn"`
	Width            int32  `parquet:"width"`
	Height           int32  `parquet:"height"`
	HeadX            int32  `parquet:"head_x"`
	HeadY            int32  `parquet:"head_y"`
	FoodX            int32  `parquet:"food_x"`
	FoodY            int32  `parquet:"food_y"`
	MoveX            int32  `parquet:"move_x"`
	MoveY            int32  `parquet:"move_y"`
	Direction        string `parquet:"direction,dict"`
	Mode             string `parquet:"mode,dict"`
	Rule             string `parquet:"rule,dict"`
	FreeSpaces       int32  `parquet:"free_spaces"`
	VerticalAccepted int32  `parquet:"vertical_accepted"`
	Length           int32  `parquet:"length"`
	Score            int32  `parquet:"score"`
	Death            string `parquet:"death,dict"`
}

// FromFrames builds a row for every frame that carries a decision. frames
// must be ordered by turn, the first frame only provides state.
func FromFrames(game *board.Game, frames []*board.GameFrame) []DecisionRow {
	var rows []DecisionRow
	for i := 1; i < len(frames); i++ {
		prev, cur := frames[i-1], frames[i]
		if cur.Decision == nil || prev.Snake == nil || cur.Snake == nil {
			continue
		}
		head := prev.Snake.Head()
		move := cur.Snake.Head()
		row := DecisionRow{
			GameID:           game.ID,
			Turn:             cur.Turn,
			Width:            int32(game.Width),
			Height:           int32(game.Height),
			HeadX:            int32(head.X),
			HeadY:            int32(head.Y),
			MoveX:            int32(move.X),
			MoveY:            int32(move.Y),
			Direction:        string(cur.Decision.Direction),
			Mode:             cur.Decision.Mode,
			Rule:             cur.Decision.Rule,
			FreeSpaces:       int32(cur.Decision.FreeSpaces),
			VerticalAccepted: int32(cur.Decision.VerticalAccepted),
			Length:           int32(prev.Snake.Len()),
			Score:            cur.Score,
		}
		if prev.Food != nil {
			row.FoodX, row.FoodY = int32(prev.Food.X), int32(prev.Food.Y)
		}
		if cur.Death != nil {
			row.Death = cur.Death.Cause
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteParquet writes rows to outPath, replacing the file atomically.
func WriteParquet(outPath string, rows []DecisionRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(err, "create output dir")
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "decision_row_v1"),
	); err != nil {
		return errors.Wrap(err, "write parquet")
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return errors.Wrap(err, "rename parquet")
	}
	return nil
}

// ReadParquet reads every row of a file written by WriteParquet.
func ReadParquet(path string) ([]DecisionRow, error) {
	rows, err := parquet.ReadFile[DecisionRow](path)
	if err != nil {
		return nil, errors.Wrapf(err, "read parquet %s", path)
	}
	return rows, nil
}
