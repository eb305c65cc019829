package shared

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger creates a logger writing to w, at debug level when asked
func SetupLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// SetupLoggerWithLevel creates a logger from a level name such as "warn".
// debug overrides the name.
func SetupLoggerWithLevel(w io.Writer, level string, debug bool) *log.Logger {
	logger := SetupLogger(w, debug)
	if debug {
		return logger
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}
