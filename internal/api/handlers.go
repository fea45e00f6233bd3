package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/completion"
)

type contentRequest struct {
	Model      string `json:"model"`
	Difficulty string `json:"difficulty"`
}

// POST /api/content
func (s *Server) content(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Model == "" || req.Difficulty == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model and difficulty are required"})
		return
	}
	d, err := article.ParseDifficulty(req.Difficulty)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Difficulty must be one of easy, medium, hard"})
		return
	}

	ctx := c.Request.Context()
	zerolog.Ctx(ctx).Info().Str("model", req.Model).Stringer("difficulty", d).Msg("new content request")

	rnd, err := s.Rounds.Assemble(ctx, req.Model, d)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to assemble round")
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, rnd)
}

type completionRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

func bindCompletion(c *gin.Context) (completionRequest, bool) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return req, false
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return req, false
	}
	return req, true
}

// POST /api/completion
func (s *Server) complete(c *gin.Context) {
	req, ok := bindCompletion(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Completions.Complete(c.Request.Context(), req.Prompt, req.Model))
}

// POST /api/completion/stream
func (s *Server) stream(c *gin.Context) {
	req, ok := bindCompletion(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	err := s.Completions.Stream(c.Request.Context(), req.Prompt, req.Model, func(chunk completion.Chunk) error {
		b, err := json.Marshal(chunk)
		if err != nil {
			return fmt.Errorf("marshal chunk: %w", err)
		}
		return writeEvent(c, string(b))
	})
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("stream aborted")
		return
	}
	if err := writeEvent(c, "[DONE]"); err != nil {
		zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("failed to finish stream")
	}
}

func writeEvent(c *gin.Context, data string) error {
	if err := c.Request.Context().Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

// GET /api/models
func (s *Server) models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": s.Completions.Models(c.Request.Context())})
}
