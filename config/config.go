package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Configuration variables. These aren't user facing but useful for tuning the
// details of autopilot performance.
var (
	GameWidth        = getEnvInt("GAME_WIDTH", 700)
	GameHeight       = getEnvInt("GAME_HEIGHT", 600)
	CellSize         = getEnvInt("CELL_SIZE", 50)
	TickDelay        = time.Duration(getEnvInt("TICK_MS", 35)) * time.Millisecond
	EndgameThreshold = getEnvInt("ENDGAME_THRESHOLD", 10)
	VerticalLimit    = getEnvInt("VERTICAL_LIMIT", 3)
	MaxOpenConns     = getEnvInt("MAX_OPEN_CONNS", 20)
	MaxIdleConns     = getEnvInt("MAX_IDLE_CONNS", 20)
	PopRate          = rate.Limit(getEnvInt("POP_RPS", 40))
	PopBurstRate     = getEnvInt("POP_BURST", 10)
	GameDir          = getEnvString("GAME_DIR", "")
	MaxCells         = getEnvInt("MAX_CELLS", 10000)
)

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}

func getEnvString(varName string, defaults string) string {
	if val := os.Getenv(varName); val != "" {
		return val
	}
	return defaults
}
