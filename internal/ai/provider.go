package ai

import (
	"context"
	"errors"
)

var (
	ErrEmptyResponse   = errors.New("empty response from model")
	ErrMissingKey      = errors.New("missing api key")
	ErrUnknownProvider = errors.New("unknown provider")
)

// Request is a single-turn chat completion request.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Usage reports token accounting when the backend provides it.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Completion is the model's answer.
type Completion struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"tokenUsage"`
}

// Provider is an LLM backend.
type Provider interface {
	Complete(ctx context.Context, req Request) (Completion, error)
	// Stream calls fn for every non-empty content delta, in order. It returns
	// the first error from the backend or from fn.
	Stream(ctx context.Context, req Request, fn func(chunk string) error) error
}

// Model describes a model offered by a provider.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}
