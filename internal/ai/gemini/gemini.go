// Package gemini is the ai.Provider for Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/kiliankoe/wikidash/internal/ai"
)

// Client creates the underlying genai client on first use. A failed
// creation is retried on the next call.
type Client struct {
	apiKey  string
	baseURL string

	mu        sync.Mutex
	client    *genai.Client
	newClient func(context.Context, *genai.ClientConfig) (*genai.Client, error)
}

func New(apiKey, baseURL string) *Client {
	return &Client{apiKey: apiKey, baseURL: baseURL, newClient: genai.NewClient}
}

func (c *Client) get() (*genai.Client, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ai.ErrMissingKey)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}

	cfg := &genai.ClientConfig{APIKey: c.apiKey, Backend: genai.BackendGeminiAPI}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	// the client outlives the request that happens to create it
	cl, err := c.newClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.client = cl
	return cl, nil
}

func config(req ai.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	return cfg
}

// text joins the text parts of the first candidate.
func text(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func (c *Client) Complete(ctx context.Context, req ai.Request) (ai.Completion, error) {
	cl, err := c.get()
	if err != nil {
		return ai.Completion{}, err
	}

	zerolog.Ctx(ctx).Debug().Str("model", req.Model).Msg("sending request to gemini")
	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	resp, err := cl.Models.GenerateContent(ctx, req.Model, contents, config(req))
	if err != nil {
		return ai.Completion{}, fmt.Errorf("gemini generate content: %w", err)
	}

	content := text(resp)
	if strings.TrimSpace(content) == "" {
		return ai.Completion{}, ai.ErrEmptyResponse
	}

	out := ai.Completion{Content: content, Model: req.Model}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = ai.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func (c *Client) Stream(ctx context.Context, req ai.Request, fn func(string) error) error {
	cl, err := c.get()
	if err != nil {
		return err
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	for resp, err := range cl.Models.GenerateContentStream(ctx, req.Model, contents, config(req)) {
		if err != nil {
			return fmt.Errorf("gemini stream: %w", err)
		}
		if chunk := text(resp); chunk != "" {
			if err := fn(chunk); err != nil {
				return err
			}
		}
	}
	return nil
}
