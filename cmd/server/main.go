// Package main is an entrypoint for wikidash.
package main

import (
	"errors"
	"os"
	"runtime/debug"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wikidash/internal/cmd"
	"github.com/kiliankoe/wikidash/internal/logging"
)

var opts struct {
	Server   cmd.Server `command:"server" description:"run the game server"`
	Round    cmd.Round  `command:"round" description:"assemble a single round and print it"`
	Play     cmd.Play   `command:"play" description:"play the game in the terminal"`
	JSONLogs bool       `long:"json-logs" env:"JSON_LOGS" description:"turn on json logs"`
	Debug    bool       `long:"dbg" env:"DEBUG" description:"turn on debug mode"`
}

var version = "unknown"

func getVersion() string {
	v, ok := debug.ReadBuildInfo()
	if !ok || v.Main.Version == "(devel)" || v.Main.Version == "" {
		return version
	}
	return v.Main.Version
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(command flags.Commander, args []string) error {
		logging.Setup(os.Stderr, opts.JSONLogs, opts.Debug)
		log.Info().Str("version", getVersion()).Msg("wikidash")

		if err := command.Execute(args); err != nil {
			log.Error().Err(err).Msg("failed to execute command")
			os.Exit(1)
		}
		return nil
	}

	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
