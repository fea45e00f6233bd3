package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wikidash/internal/api"
	"github.com/kiliankoe/wikidash/internal/config"
)

// Server is a command to run the HTTP server.
type Server struct {
	config.Common

	Port    int  `long:"port" env:"PORT" default:"8080" description:"port to listen on"`
	Sockets bool `long:"sockets" env:"SOCKETS" description:"enable the socket.io transport"`
}

// Execute runs the command.
func (s Server) Execute(_ []string) error {
	d, err := build(s.Common, log.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	srv := &api.Server{
		Addr:        fmt.Sprintf(":%d", s.Port),
		Rounds:      d.rounds,
		Completions: d.completions,
		Sockets:     s.Sockets,
	}
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
