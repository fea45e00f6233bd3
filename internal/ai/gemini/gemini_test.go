package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/kiliankoe/wikidash/internal/ai"
)

func TestClient_MissingKey(t *testing.T) {
	c := New("", "")
	_, err := c.Complete(context.Background(), ai.Request{Model: "gemini-2.0-flash", Prompt: "p"})
	assert.True(t, errors.Is(err, ai.ErrMissingKey))

	err = c.Stream(context.Background(), ai.Request{Prompt: "p"}, func(string) error { return nil })
	assert.True(t, errors.Is(err, ai.ErrMissingKey))
}

func TestText(t *testing.T) {
	assert.Equal(t, "", text(nil))
	assert.Equal(t, "", text(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{Text: "thinking...", Thought: true},
			{Text: "Expedition "},
			nil,
			{Text: "Aurora"},
		}},
	}}}
	assert.Equal(t, "Expedition Aurora", text(resp))
}

func TestConfig(t *testing.T) {
	cfg := config(ai.Request{System: "sys", Temperature: 0.5, MaxTokens: 1000})
	assert.Equal(t, int32(1000), cfg.MaxOutputTokens)
	if assert.NotNil(t, cfg.Temperature) {
		assert.InDelta(t, 0.5, *cfg.Temperature, 0.0001)
	}
	if assert.NotNil(t, cfg.SystemInstruction) {
		assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)
	}

	empty := config(ai.Request{})
	assert.Nil(t, empty.Temperature)
	assert.Nil(t, empty.SystemInstruction)
}

func TestClient_RetriesFailedCreation(t *testing.T) {
	c := New("key", "http://localhost:1")

	var calls int
	var seen []context.Context
	c.newClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
		calls++
		seen = append(seen, ctx)
		assert.Equal(t, "key", cfg.APIKey)
		assert.Equal(t, "http://localhost:1", cfg.HTTPOptions.BaseURL)
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return &genai.Client{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Complete(ctx, ai.Request{Model: "gemini-2.0-flash", Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transient")

	first, err := c.get()
	require.NoError(t, err)
	second, err := c.get()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 2, calls)

	for _, ctx := range seen {
		assert.NoError(t, ctx.Err(), "client creation must not use the caller's context")
	}
}
