// Package ollama is the ai.Provider for a local Ollama daemon.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"github.com/rs/zerolog"

	"github.com/kiliankoe/wikidash/internal/ai"
	"github.com/kiliankoe/wikidash/internal/httpx"
)

// DefaultHost is where ollama listens by default.
const DefaultHost = "http://localhost:11434"

type Client struct {
	Host string
	rq   *requester.Requester
}

// New makes a client. Timeouts come from the caller's context since
// streamed responses may run long.
func New(host string, lg zerolog.Logger) *Client {
	if host == "" {
		host = DefaultHost
	}
	rq := requester.New(http.Client{},
		middleware.JSON,
		httpx.LoggingRoundTripper(lg, httpx.LogOpts{Level: zerolog.DebugLevel}),
	)
	return &Client{Host: strings.TrimRight(host, "/"), rq: rq}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Stream   bool      `json:"stream"`
	Messages []message `json:"messages"`
	Options  struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options"`
}

type chatResponse struct {
	Message         message `json:"message"`
	Done            bool    `json:"done"`
	Error           string  `json:"error"`
	PromptEvalCount int     `json:"prompt_eval_count"`
	EvalCount       int     `json:"eval_count"`
}

func (c *Client) chat(ctx context.Context, req ai.Request, stream bool) (*http.Response, error) {
	body := chatRequest{Model: req.Model, Stream: stream}
	if req.System != "" {
		body.Messages = append(body.Messages, message{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, message{Role: "user", Content: req.Prompt})
	body.Options.Temperature = req.Temperature
	body.Options.NumPredict = req.MaxTokens

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Host+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.rq.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

func (c *Client) Complete(ctx context.Context, req ai.Request) (ai.Completion, error) {
	resp, err := c.chat(ctx, req, false)
	if err != nil {
		return ai.Completion{}, err
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ai.Completion{}, fmt.Errorf("decode chat response: %w", err)
	}
	if out.Error != "" {
		return ai.Completion{}, fmt.Errorf("ollama: %s", out.Error)
	}
	content := strings.TrimSpace(out.Message.Content)
	if content == "" {
		return ai.Completion{}, ai.ErrEmptyResponse
	}
	return ai.Completion{
		Content: content,
		Model:   req.Model,
		Usage: ai.Usage{
			PromptTokens:     out.PromptEvalCount,
			CompletionTokens: out.EvalCount,
			TotalTokens:      out.PromptEvalCount + out.EvalCount,
		},
	}, nil
}

// Stream reads the newline-delimited JSON chunks ollama sends until done.
func (c *Client) Stream(ctx context.Context, req ai.Request, fn func(string) error) error {
	resp, err := c.chat(ctx, req, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk chatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama: %s", chunk.Error)
		}
		if chunk.Message.Content != "" {
			if err := fn(chunk.Message.Content); err != nil {
				return err
			}
		}
		if chunk.Done {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

// Models lists the locally pulled models.
func (c *Client) Models(ctx context.Context) ([]ai.Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Host+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.rq.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama tags: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("ollama status %d", resp.StatusCode)
	}

	var out struct {
		Models []struct {
			Name    string `json:"name"`
			Details struct {
				ParameterSize string `json:"parameter_size"`
				Family        string `json:"family"`
			} `json:"details"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	models := make([]ai.Model, 0, len(out.Models))
	for _, m := range out.Models {
		desc := "Local model"
		if m.Details.Family != "" {
			desc = strings.TrimSpace(fmt.Sprintf("Local %s %s", m.Details.Family, m.Details.ParameterSize))
		}
		models = append(models, ai.Model{ID: m.Name, Name: m.Name, Description: desc})
	}
	return models, nil
}
