// Package api is the HTTP surface of wikidash.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wikidash/internal/ai"
	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/completion"
	"github.com/kiliankoe/wikidash/internal/ws"
	staticserver "github.com/kiliankoe/wikidash/static"
)

// RoundAssembler builds rounds.
type RoundAssembler interface {
	Assemble(ctx context.Context, model string, d article.Difficulty) (article.Round, error)
}

// Completer is the prompt pass-through.
type Completer interface {
	Complete(ctx context.Context, prompt, model string) completion.Response
	Stream(ctx context.Context, prompt, model string, fn func(completion.Chunk) error) error
	Models(ctx context.Context) []ai.Model
}

// Server wires the handlers.
type Server struct {
	Addr        string
	Rounds      RoundAssembler
	Completions Completer
	// Sockets enables the socket.io transport.
	Sockets bool
}

// Routes builds the router. The returned closer stops the socket server.
func (s *Server) Routes() (*gin.Engine, func() error) {
	r := gin.New()
	r.Use(requestID(), recovery(), accessLog(), cors())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	apiGroup := r.Group("/api")
	{
		content := apiGroup.Group("", noStore())
		content.POST("/content", s.content)
		content.POST("/game", s.content)

		apiGroup.POST("/completion", s.complete)
		apiGroup.POST("/completion/stream", s.stream)
		apiGroup.GET("/models", s.models)

		// legacy names used by older frontends
		apiGroup.POST("/groq", s.complete)
		apiGroup.POST("/groq/stream", s.stream)
		apiGroup.GET("/groq", s.models)
	}

	closer := func() error { return nil }
	if s.Sockets {
		io := ws.New(s.Rounds, s.Completions).Mount(r)
		closer = io.Close
	}

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	return r, closer
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	r, closeSockets := s.Routes()
	defer func() {
		if err := closeSockets(); err != nil {
			log.Warn().Err(err).Msg("failed to close socket server")
		}
	}()

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
