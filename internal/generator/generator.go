// Package generator asks an LLM for a fictional Wikipedia article.
package generator

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/kiliankoe/wikidash/internal/ai"
	"github.com/kiliankoe/wikidash/internal/article"
)

//go:embed data/prompt.tmpl
var prompt string

var promptTmpl = template.Must(template.New("prompt").Parse(prompt))

// SystemPrompt sets the model up as a fake Wikipedia writer.
const SystemPrompt = "You are an expert at creating convincing but completely fictional Wikipedia articles " +
	"that perfectly mimic the style, tone, formatting, and visual appearance of real Wikipedia content."

// Config holds sampling parameters and the fallback title pool.
type Config struct {
	Temperature float64
	MaxTokens   int
	Titles      []string
}

// Options selects the model and difficulty of a single generation.
type Options struct {
	Model      string
	Difficulty article.Difficulty
}

// Generator implements round.FakeArticleSource.
type Generator struct {
	reg *ai.Registry
	cfg Config
}

// New makes a Generator. Zero config values get defaults.
func New(reg *ai.Registry, cfg Config) *Generator {
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.95
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 3500
	}
	if len(cfg.Titles) == 0 {
		cfg.Titles = DefaultTitles
	}
	return &Generator{reg: reg, cfg: cfg}
}

// Prompt renders the user prompt for the difficulty.
func Prompt(d article.Difficulty) (string, error) {
	buf := &strings.Builder{}
	if err := promptTmpl.Execute(buf, struct{ Difficulty article.Difficulty }{d}); err != nil {
		return "", fmt.Errorf("execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// GenerateFakeArticle returns Ok with the generated article, or Fatal when
// the provider fails. It never retries.
func (g *Generator) GenerateFakeArticle(ctx context.Context, opts Options) article.Result {
	lg := zerolog.Ctx(ctx)

	p, err := Prompt(opts.Difficulty)
	if err != nil {
		return article.Fatal(err)
	}

	name, provider, model := g.reg.Resolve(opts.Model)
	lg.Debug().Str("provider", name).Str("model", model).Stringer("difficulty", opts.Difficulty).Msg("generating fake article")

	resp, err := provider.Complete(ctx, ai.Request{
		Model:       model,
		System:      SystemPrompt,
		Prompt:      p,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return article.Fatal(fmt.Errorf("generate fake article with %s: %w", name, err))
	}

	title, ok := ExtractTitle(resp.Content)
	if !ok {
		fallback := lo.Sample(g.cfg.Titles)
		lg.Debug().Str("extracted", title).Str("title", fallback).Msg("unusable title, picked one from the pool")
		title = fallback
	}

	return article.Ok(article.Article{
		Title:             title,
		Content:           resp.Content,
		IsAI:              true,
		IsCompleteFiction: true,
	})
}
