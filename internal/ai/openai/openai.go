// Package openai is the ai.Provider backed by the official openai-go SDK.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/kiliankoe/wikidash/internal/ai"
)

type Client struct {
	client openai.Client
	hasKey bool
}

// New makes a client. An empty baseURL keeps the SDK default.
func New(cl *http.Client, apiKey, baseURL string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(1)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if cl != nil {
		opts = append(opts, option.WithHTTPClient(cl))
	}
	return &Client{client: openai.NewClient(opts...), hasKey: apiKey != ""}
}

func (c *Client) params(req ai.Request) openai.ChatCompletionNewParams {
	var msgs []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	p := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: msgs,
	}
	if req.Temperature > 0 {
		p.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		p.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	return p
}

func (c *Client) Complete(ctx context.Context, req ai.Request) (ai.Completion, error) {
	if !c.hasKey {
		return ai.Completion{}, fmt.Errorf("openai: %w", ai.ErrMissingKey)
	}

	zerolog.Ctx(ctx).Debug().Str("model", req.Model).Msg("sending request to openai")
	resp, err := c.client.Chat.Completions.New(ctx, c.params(req))
	if err != nil {
		return ai.Completion{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return ai.Completion{}, ai.ErrEmptyResponse
	}

	return ai.Completion{
		Content: resp.Choices[0].Message.Content,
		Model:   req.Model,
		Usage: ai.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func (c *Client) Stream(ctx context.Context, req ai.Request, fn func(string) error) error {
	if !c.hasKey {
		return fmt.Errorf("openai: %w", ai.ErrMissingKey)
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(req))
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if err := fn(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("openai stream: %w", err)
	}
	return nil
}

func (c *Client) Models(ctx context.Context) ([]ai.Model, error) {
	if !c.hasKey {
		return nil, fmt.Errorf("openai: %w", ai.ErrMissingKey)
	}

	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("openai list models: %w", err)
	}
	out := make([]ai.Model, 0, len(page.Data))
	for _, m := range page.Data {
		out = append(out, ai.Model{ID: m.ID, Name: m.ID, Description: "Provided by " + m.OwnedBy})
	}
	return out, nil
}
