// Package completion is the free-form prompt pass-through used by the model
// test page. Provider failures never surface as errors: callers get a canned
// fallback answer instead.
package completion

import (
	"context"
	"fmt"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/rs/zerolog"

	"github.com/kiliankoe/wikidash/internal/ai"
)

// SystemPrompt is sent with every completion.
const SystemPrompt = "You are a helpful assistant that provides accurate and concise information."

// DefaultModel is used when a request names no model.
const DefaultModel = "moonshotai/kimi-k2-instruct"

const fallbackContent = "I'm sorry, I couldn't process your request at the moment. " +
	"The model provider might be experiencing issues. Here's a fallback response: " +
	"The question you asked is interesting, but I'm currently operating in fallback mode due to API limitations."

var fallbackChunks = []string{
	"I'm sorry, I couldn't process your streaming request. ",
	"The model provider might be experiencing issues. ",
	"Here's a fallback response: ",
	"The question you asked is interesting, but I'm currently operating in fallback mode due to API limitations.",
}

// StaticModels is served when no provider can list its models.
var StaticModels = []ai.Model{
	{ID: "moonshotai/kimi-k2-instruct", Name: "Moonshot Kimi K2 Instruct", Description: "Powerful instruction-tuned model from Moonshot AI"},
	{ID: "llama3-8b-8192", Name: "Llama 3 8B", Description: "Meta's Llama 3 8B model"},
	{ID: "llama3-70b-8192", Name: "Llama 3 70B", Description: "Meta's Llama 3 70B model"},
	{ID: "gemma-7b-it", Name: "Gemma 7B", Description: "Google's Gemma 7B Instruct model"},
}

// Response is the body of a non-streamed completion.
type Response struct {
	Content    string    `json:"content"`
	Model      string    `json:"model"`
	TokenUsage *ai.Usage `json:"tokenUsage,omitempty"`
	Fallback   bool      `json:"fallback,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Chunk is one frame of a streamed completion.
type Chunk struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Options tunes the service. Zero values get defaults.
type Options struct {
	Temperature  float64
	MaxTokens    int
	DefaultModel string
	ModelsTTL    time.Duration
	ListTimeout  time.Duration
}

// Service answers prompts through the provider registry.
type Service struct {
	reg    *ai.Registry
	opts   Options
	models cache.Cache[string, []ai.Model]
}

// New makes a Service.
func New(reg *ai.Registry, opts Options) *Service {
	if opts.Temperature <= 0 {
		opts.Temperature = 0.5
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1000
	}
	if opts.DefaultModel == "" {
		opts.DefaultModel = DefaultModel
	}
	if opts.ModelsTTL <= 0 {
		opts.ModelsTTL = 10 * time.Minute
	}
	if opts.ListTimeout <= 0 {
		opts.ListTimeout = 5 * time.Second
	}
	return &Service{
		reg:  reg,
		opts: opts,
		models: cache.NewCache[string, []ai.Model]().
			WithLRU().
			WithMaxKeys(1).
			WithTTL(opts.ModelsTTL),
	}
}

func (s *Service) request(prompt, model string) (string, ai.Provider, ai.Request) {
	if model == "" {
		model = s.opts.DefaultModel
	}
	name, p, bare := s.reg.Resolve(model)
	return name, p, ai.Request{
		Model:       bare,
		System:      SystemPrompt,
		Prompt:      prompt,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	}
}

// Complete answers the prompt, or returns the fallback response.
func (s *Service) Complete(ctx context.Context, prompt, model string) Response {
	name, p, req := s.request(prompt, model)

	resp, err := p.Complete(ctx, req)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("provider", name).Str("model", req.Model).Msg("completion failed, sending fallback")
		return Response{Content: fallbackContent, Model: req.Model, Fallback: true, Error: err.Error()}
	}
	return Response{Content: resp.Content, Model: req.Model, TokenUsage: &resp.Usage}
}

// Stream relays content chunks to fn. When the provider fails the fallback
// chunks and an error chunk follow whatever was already sent. The returned
// error is fn's, i.e. the client went away.
func (s *Service) Stream(ctx context.Context, prompt, model string, fn func(Chunk) error) error {
	name, p, req := s.request(prompt, model)

	var sinkErr error
	err := p.Stream(ctx, req, func(content string) error {
		if sinkErr = fn(Chunk{Content: content}); sinkErr != nil {
			return sinkErr
		}
		return nil
	})
	if sinkErr != nil {
		return sinkErr
	}
	if err == nil {
		return nil
	}

	zerolog.Ctx(ctx).Warn().Err(err).Str("provider", name).Str("model", req.Model).Msg("stream failed, sending fallback")
	for _, c := range fallbackChunks {
		if err := fn(Chunk{Content: c}); err != nil {
			return err
		}
	}
	return fn(Chunk{Error: err.Error()})
}

// Models lists models of every provider that can enumerate them. Models of
// non-default providers are prefixed with the provider name.
func (s *Service) Models(ctx context.Context) []ai.Model {
	if m, ok := s.models.Get("models"); ok {
		return m
	}

	var out []ai.Model
	for _, name := range s.reg.Names() {
		p, err := s.reg.Get(name)
		if err != nil {
			continue
		}
		lister, ok := p.(ai.ModelLister)
		if !ok {
			continue
		}

		listCtx, cancel := context.WithTimeout(ctx, s.opts.ListTimeout)
		models, err := lister.Models(listCtx)
		cancel()
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("provider", name).Msg("failed to list models")
			continue
		}

		for _, m := range models {
			if name != s.reg.Default() {
				m.ID = fmt.Sprintf("%s:%s", name, m.ID)
			}
			out = append(out, m)
		}
	}

	if len(out) == 0 {
		return StaticModels
	}
	s.models.Set("models", out, 0)
	return out
}
