// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wikidash/internal/ai"
	"github.com/kiliankoe/wikidash/internal/ai/gemini"
	"github.com/kiliankoe/wikidash/internal/ai/groq"
	"github.com/kiliankoe/wikidash/internal/ai/ollama"
	"github.com/kiliankoe/wikidash/internal/ai/openai"
	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/completion"
	"github.com/kiliankoe/wikidash/internal/config"
	"github.com/kiliankoe/wikidash/internal/format"
	"github.com/kiliankoe/wikidash/internal/generator"
	"github.com/kiliankoe/wikidash/internal/round"
	"github.com/kiliankoe/wikidash/internal/wikipedia"
)

// roundAssembler builds rounds.
type roundAssembler interface {
	Assemble(ctx context.Context, model string, d article.Difficulty) (article.Round, error)
}

type deps struct {
	registry    *ai.Registry
	rounds      *round.Assembler
	completions *completion.Service
}

// build wires providers, leaves, the assembler and the completion service.
func build(c config.Common, lg zerolog.Logger) (*deps, error) {
	p := c.Providers

	reg, err := ai.NewRegistry(p.Default, map[string]ai.Provider{
		"groq":   groq.New(&http.Client{Timeout: p.Groq.Timeout}, p.Groq.Token, p.Groq.BaseURL),
		"openai": openai.New(&http.Client{Timeout: p.OpenAI.Timeout}, p.OpenAI.Token, p.OpenAI.BaseURL),
		"ollama": ollama.New(p.Ollama.Host, lg.With().Str("prefix", "ollama").Logger()),
		"gemini": gemini.New(p.Gemini.Token, p.Gemini.BaseURL),
	})
	if err != nil {
		return nil, fmt.Errorf("make provider registry: %w", err)
	}

	titles, err := config.LoadTitles(c.Generator.TitlesFile)
	if err != nil {
		return nil, fmt.Errorf("load fallback titles: %w", err)
	}

	wiki := wikipedia.New(wikipedia.Options{
		BaseURL:      c.Wikipedia.BaseURL,
		UserAgent:    c.Wikipedia.UserAgent,
		Timeout:      c.Wikipedia.Timeout,
		ShortExtract: c.Wikipedia.ShortExtract,
		FullPage:     c.Wikipedia.FullPage,
		Logger:       lg.With().Str("prefix", "wikipedia").Logger(),
	})

	gen := generator.New(reg, generator.Config{
		Temperature: c.Generator.Temperature,
		MaxTokens:   c.Generator.MaxTokens,
		Titles:      titles,
	})

	opts := round.Options{
		WikipediaTimeout: c.Wikipedia.Timeout,
		GeneratorTimeout: c.Generator.Timeout,
	}
	if c.Render {
		opts.Renderer = format.NewRenderer(format.WithFooter())
	}

	log.Debug().
		Str("provider", reg.Default()).
		Strs("providers", reg.Names()).
		Bool("render", c.Render).
		Int("titles", len(titles)).
		Msg("dependencies ready")

	return &deps{
		registry:    reg,
		rounds:      round.New(wiki, gen, opts),
		completions: completion.New(reg, completion.Options{}),
	}, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
