// Package round pairs a real Wikipedia article with a generated fake one.
package round

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/generator"
)

// SourceAIFallback marks the placeholder fake article.
const SourceAIFallback = "AI Fallback"

const placeholderContent = "This is a fallback AI-generated article. The service encountered an error generating content."

// ErrNoRealArticle is returned when the real article source fails twice.
var ErrNoRealArticle = errors.New("no real article available")

// ArticleSource provides real articles.
type ArticleSource interface {
	FetchRandomArticle(ctx context.Context) article.Result
}

// FakeArticleSource provides generated articles.
type FakeArticleSource interface {
	GenerateFakeArticle(ctx context.Context, opts generator.Options) article.Result
}

// Renderer turns an article body into an HTML fragment.
type Renderer interface {
	Render(title, content string) (string, error)
}

// Options tunes the assembler. Zero values get defaults.
type Options struct {
	WikipediaTimeout time.Duration
	GeneratorTimeout time.Duration
	Renderer         Renderer
}

// Assembler builds rounds.
type Assembler struct {
	wiki ArticleSource
	gen  FakeArticleSource
	opts Options

	realFirst func() bool
	now       func() time.Time
}

// New makes an Assembler.
func New(wiki ArticleSource, gen FakeArticleSource, opts Options) *Assembler {
	if opts.WikipediaTimeout <= 0 {
		opts.WikipediaTimeout = 15 * time.Second
	}
	if opts.GeneratorTimeout <= 0 {
		opts.GeneratorTimeout = 30 * time.Second
	}
	return &Assembler{
		wiki:      wiki,
		gen:       gen,
		opts:      opts,
		realFirst: func() bool { return rand.IntN(2) == 0 },
		now:       time.Now,
	}
}

// Assemble fetches both articles concurrently and returns a normalized round.
// A failed generator yields a placeholder fake and a round marked Fallback.
func (a *Assembler) Assemble(ctx context.Context, model string, difficulty article.Difficulty) (article.Round, error) {
	lg := zerolog.Ctx(ctx).With().Str("model", model).Stringer("difficulty", difficulty).Logger()
	lg.Debug().Str("state", "fetching").Msg("assembling round")

	var realRes, fakeRes article.Result
	var eg errgroup.Group
	eg.Go(func() error {
		realRes = a.fetchReal(ctx)
		return nil
	})
	eg.Go(func() error {
		fakeRes = a.generateFake(ctx, generator.Options{Model: model, Difficulty: difficulty})
		return nil
	})
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return article.Round{}, fmt.Errorf("assemble round: %w", err)
	}

	if realRes.Outcome == article.OutcomeDegraded {
		lg.Warn().Err(realRes.Err).Msg("real article degraded")
	}

	var fallback bool
	if !fakeRes.Usable() {
		lg.Warn().Err(fakeRes.Err).Str("state", "degraded").Msg("fake article failed, using placeholder")
		fallback = true
		fakeRes = article.Ok(a.placeholder())
	}
	if !realRes.Usable() {
		lg.Warn().Err(realRes.Err).Msg("real article failed, fetching again")
		if realRes = a.fetchReal(ctx); !realRes.Usable() {
			return article.Round{}, fmt.Errorf("%w: %v", ErrNoRealArticle, realRes.Err)
		}
	}

	if !fallback {
		lg.Debug().Str("state", "normalizing").Msg("both articles ready")
	}
	rnd := a.normalize(realRes.Article, fakeRes.Article)
	rnd.Fallback = fallback
	a.render(lg, &rnd)

	lg.Info().Str("state", "done").Str("title", rnd.Real().Title).
		Int("real_index", rnd.RealArticleIndex).Bool("fallback", fallback).Msg("round assembled")
	return rnd, nil
}

// normalize forces the fake title to the real one and shuffles the pair.
func (a *Assembler) normalize(realArt, fakeArt article.Article) article.Round {
	fakeArt.Title = realArt.Title

	rnd := article.Round{Timestamp: a.now().UnixMilli()}
	if a.realFirst() {
		rnd.Articles = [2]article.Article{realArt, fakeArt}
		rnd.RealArticleIndex = 0
	} else {
		rnd.Articles = [2]article.Article{fakeArt, realArt}
		rnd.RealArticleIndex = 1
	}
	return rnd
}

func (a *Assembler) render(lg zerolog.Logger, rnd *article.Round) {
	if a.opts.Renderer == nil {
		return
	}
	for i := range rnd.Articles {
		html, err := a.opts.Renderer.Render(rnd.Articles[i].Title, rnd.Articles[i].Content)
		if err != nil {
			lg.Warn().Err(err).Int("index", i).Msg("failed to render article")
			continue
		}
		rnd.Articles[i].HTML = html
	}
}

func (a *Assembler) placeholder() article.Article {
	return article.Article{
		Content:           placeholderContent,
		IsAI:              true,
		IsCompleteFiction: true,
		Source:            SourceAIFallback,
		LastModified:      a.now().Format(article.DateLayout),
	}
}

func (a *Assembler) fetchReal(ctx context.Context) article.Result {
	ctx, cancel := context.WithTimeout(ctx, a.opts.WikipediaTimeout)
	defer cancel()
	return safely("wikipedia", func() article.Result { return a.wiki.FetchRandomArticle(ctx) })
}

func (a *Assembler) generateFake(ctx context.Context, opts generator.Options) article.Result {
	ctx, cancel := context.WithTimeout(ctx, a.opts.GeneratorTimeout)
	defer cancel()
	return safely("generator", func() article.Result { return a.gen.GenerateFakeArticle(ctx, opts) })
}

// safely turns a panicking leaf into a Fatal result.
func safely(leaf string, fn func() article.Result) (res article.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = article.Fatal(fmt.Errorf("%s panicked: %v", leaf, r))
		}
	}()
	return fn()
}
