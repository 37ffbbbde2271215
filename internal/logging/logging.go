// Package logging wires up zerolog with the crawler's two sinks: a
// structured JSON log file (the run's permanent record) and a
// human-readable console writer on stdout gated by verbosity, following the
// corpus's zerolog.New(...).With().Timestamp().Logger() pattern.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// levelFromVerbosity maps the original tool's CRITICAL/ERROR/WARNING/
// INFO/DEBUG vocabulary onto zerolog's levels.
func levelFromVerbosity(v string) (zerolog.Level, error) {
	switch strings.ToUpper(v) {
	case "CRITICAL":
		return zerolog.FatalLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "WARNING":
		return zerolog.WarnLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("logging: unrecognized verbosity %q", v)
	}
}

// New builds the run logger: JSON records always flow to logFile at every
// level, debug included, regardless of --verbosity — the logfile is the
// permanent record and must not silently lose detail. The console writer
// is the only thing --verbosity gates, mirroring the original's
// fileHandler.setLevel(DEBUG) / consoleHandler.setLevel(verbosity) split.
func New(logFile io.Writer, verbosity string) (zerolog.Logger, error) {
	level, err := levelFromVerbosity(verbosity)
	if err != nil {
		return zerolog.Logger{}, err
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	gatedConsole := &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: console},
		Level:  level,
	}
	multi := zerolog.MultiLevelWriter(logFile, gatedConsole)

	logger := zerolog.New(multi).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return logger, nil
}
