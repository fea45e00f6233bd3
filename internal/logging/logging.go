// Package logging sets up the global zerolog logger.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger: human-friendly console output unless
// json is set, debug level when dbg is set. The logger is also made the
// default for zerolog.Ctx on contexts without one.
func Setup(out io.Writer, json, dbg bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if dbg {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if !json {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lg := zerolog.New(out).With().Timestamp().Logger()
	if dbg {
		lg = lg.With().Caller().Logger()
	}

	log.Logger = lg
	zerolog.DefaultContextLogger = &log.Logger
	return lg
}
