// Package ws exposes rounds and streamed completions over Socket.IO.
package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/completion"
)

// RoundAssembler builds rounds.
type RoundAssembler interface {
	Assemble(ctx context.Context, model string, d article.Difficulty) (article.Round, error)
}

// Completer streams prompt answers.
type Completer interface {
	Stream(ctx context.Context, prompt, model string, fn func(completion.Chunk) error) error
}

// ConnCtx is attached to every connection. Its context is canceled on
// disconnect, which aborts in-flight work for that client.
type ConnCtx struct {
	ctx    context.Context
	cancel context.CancelFunc
}

type Server struct {
	rounds        RoundAssembler
	completer     Completer
	streamTimeout time.Duration
}

func New(rounds RoundAssembler, completer Completer) *Server {
	return &Server{rounds: rounds, completer: completer, streamTimeout: 2 * time.Minute}
}

type roundPayload struct {
	Model      string `json:"model"`
	Difficulty string `json:"difficulty"`
}

type completionPayload struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// Mount attaches Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", srv.connect)
	io.OnEvent("/", "round:new", srv.newRound)
	io.OnEvent("/", "completion:stream", func(s socketio.Conn, payload completionPayload) map[string]any {
		ack, ok := srv.checkCompletion(s, payload)
		if ok {
			// stream in background so the connection keeps serving events
			go srv.relay(connContext(s), s, payload)
		}
		return ack
	})
	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", srv.disconnect)

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket server stopped")
		}
	}()

	// Mount to router
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

func (srv *Server) connect(s socketio.Conn) error {
	lg := log.Logger.With().Str("sid", s.ID()).Logger()
	ctx, cancel := context.WithCancel(lg.WithContext(context.Background()))
	s.SetContext(&ConnCtx{ctx: ctx, cancel: cancel})
	lg.Info().Msg("socket connected")
	return nil
}

func (srv *Server) disconnect(s socketio.Conn, reason string) {
	if ctx, ok := s.Context().(*ConnCtx); ok && ctx.cancel != nil {
		ctx.cancel()
	}
	log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
}

// newRound handles round:new. The ack is {"round": ...} or {"error": ...}.
func (srv *Server) newRound(s socketio.Conn, payload roundPayload) map[string]any {
	if payload.Model == "" || payload.Difficulty == "" {
		return srv.err(s, "bad_request", "Model and difficulty are required")
	}
	d, err := article.ParseDifficulty(payload.Difficulty)
	if err != nil {
		return srv.err(s, "bad_request", err.Error())
	}

	rnd, err := srv.rounds.Assemble(connContext(s), payload.Model, d)
	if err != nil {
		log.Error().Err(err).Str("sid", s.ID()).Msg("round:new failed")
		return srv.err(s, "internal", "Failed to generate content")
	}
	log.Info().Str("sid", s.ID()).Bool("fallback", rnd.Fallback).Msg("round:new")
	return map[string]any{"round": rnd}
}

// checkCompletion validates completion:stream and returns its ack.
func (srv *Server) checkCompletion(s socketio.Conn, payload completionPayload) (map[string]any, bool) {
	if payload.Prompt == "" {
		return srv.err(s, "bad_request", "Prompt is required"), false
	}
	return map[string]any{"ok": true}, true
}

// relay emits completion:chunk for every chunk and completion:done at the
// end, unless the client went away.
func (srv *Server) relay(ctx context.Context, s socketio.Conn, payload completionPayload) {
	ctx, cancel := context.WithTimeout(ctx, srv.streamTimeout)
	defer cancel()

	err := srv.completer.Stream(ctx, payload.Prompt, payload.Model, func(c completion.Chunk) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Emit("completion:chunk", c)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return
	}
	s.Emit("completion:done")
}

func connContext(s socketio.Conn) context.Context {
	if ctx, ok := s.Context().(*ConnCtx); ok && ctx.ctx != nil {
		return ctx.ctx
	}
	return log.Logger.WithContext(context.Background())
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}
