// Package logging wires log/slog to a tint handler so every component
// of the ledger logs through the same colored, leveled output.
//
// The level comes from the LOG_LEVEL environment variable (debug, info,
// warn, error; default info). Source locations are attached only at
// debug level to keep production output compact.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger at the level given by LOG_LEVEL.
func Setup() {
	SetupWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// SetupWithLevel installs the default logger at an explicit level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			AddSource:  level <= slog.LevelDebug,
		}),
	))
}

// ParseLevel maps a level name onto a slog.Level. Unknown or empty
// names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
