// Package groq talks to Groq, or any other OpenAI-compatible chat completion
// endpoint, through the go-openai client.
package groq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/kiliankoe/wikidash/internal/ai"
)

// DefaultBaseURL is Groq's OpenAI-compatible API root.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

//go:generate moq -out mock_openai_client.go . OpenAIClient

// OpenAIClient is the subset of the go-openai client used here.
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(context.Context, openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
	ListModels(context.Context) (openai.ModelsList, error)
}

// Client implements ai.Provider.
type Client struct {
	cl     OpenAIClient
	hasKey bool
}

// New makes a client. An empty baseURL means Groq.
func New(cl *http.Client, token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	config := openai.DefaultConfig(token)
	config.BaseURL = strings.TrimRight(baseURL, "/")
	config.HTTPClient = cl

	return &Client{cl: openai.NewClientWithConfig(config), hasKey: token != ""}
}

func (c *Client) request(req ai.Request, stream bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
}

// Complete sends a chat completion request.
func (c *Client) Complete(ctx context.Context, req ai.Request) (ai.Completion, error) {
	if !c.hasKey {
		return ai.Completion{}, fmt.Errorf("groq: %w", ai.ErrMissingKey)
	}

	zerolog.Ctx(ctx).Debug().Str("model", req.Model).Msg("sending request to groq")
	resp, err := c.cl.CreateChatCompletion(ctx, c.request(req, false))
	if err != nil {
		return ai.Completion{}, fmt.Errorf("create chat completion: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Int("tokens", resp.Usage.TotalTokens).Msg("response received from groq")

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return ai.Completion{}, ai.ErrEmptyResponse
	}

	return ai.Completion{
		Content: resp.Choices[0].Message.Content,
		Model:   req.Model,
		Usage: ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Stream relays content deltas until the server sends its terminator.
func (c *Client) Stream(ctx context.Context, req ai.Request, fn func(string) error) error {
	if !c.hasKey {
		return fmt.Errorf("groq: %w", ai.ErrMissingKey)
	}

	stream, err := c.cl.CreateChatCompletionStream(ctx, c.request(req, true))
	if err != nil {
		return fmt.Errorf("create chat completion stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("receive chunk: %w", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		if err := fn(resp.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
}

// Models lists the models available to the token.
func (c *Client) Models(ctx context.Context) ([]ai.Model, error) {
	if !c.hasKey {
		return nil, fmt.Errorf("groq: %w", ai.ErrMissingKey)
	}

	list, err := c.cl.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	out := make([]ai.Model, 0, len(list.Models))
	for _, m := range list.Models {
		out = append(out, ai.Model{ID: m.ID, Name: m.ID, Description: "Provided by " + m.OwnedBy})
	}
	return out, nil
}
