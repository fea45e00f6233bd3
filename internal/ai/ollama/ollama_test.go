package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiliankoe/wikidash/internal/ai"
)

func TestClient_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3:8b", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 3500, req.Options.NumPredict)
		assert.InDelta(t, 0.95, req.Options.Temperature, 0.0001)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"  Lake Thornton\n"},"done":true,"prompt_eval_count":7,"eval_count":3}`))
	}))
	defer ts.Close()

	resp, err := New(ts.URL, zerolog.Nop()).Complete(context.Background(), ai.Request{
		Model: "llama3:8b", System: "sys", Prompt: "p", Temperature: 0.95, MaxTokens: 3500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lake Thornton", resp.Content)
	assert.Equal(t, ai.Usage{PromptTokens: 7, CompletionTokens: 3, TotalTokens: 10}, resp.Usage)
}

func TestClient_CompleteErrors(t *testing.T) {
	tbl := []struct {
		name   string
		status int
		body   string
		err    string
	}{
		{name: "status", status: http.StatusNotFound, body: `{"error":"model not found"}`, err: "ollama status 404"},
		{name: "error field", status: http.StatusOK, body: `{"error":"out of memory"}`, err: "out of memory"},
		{name: "empty", status: http.StatusOK, body: `{"message":{"content":"  "},"done":true}`, err: ai.ErrEmptyResponse.Error()},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := New(ts.URL, zerolog.Nop()).Complete(context.Background(), ai.Request{Model: "m", Prompt: "p"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestClient_Stream(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		_, _ = w.Write([]byte(`{"message":{"content":"Port"},"done":false}` + "\n" +
			`{"message":{"content":""},"done":false}` + "\n\n" +
			`{"message":{"content":" Harrison"},"done":false}` + "\n" +
			`{"message":{"content":""},"done":true}` + "\n" +
			`{"message":{"content":"ignored"},"done":false}` + "\n"))
	}))
	defer ts.Close()

	var chunks []string
	err := New(ts.URL, zerolog.Nop()).Stream(context.Background(), ai.Request{Model: "m", Prompt: "p"}, func(s string) error {
		chunks = append(chunks, s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Port", " Harrison"}, chunks)
}

func TestClient_StreamRelaysFirstChunkEarly(t *testing.T) {
	tbl := []struct {
		name        string
		lg          zerolog.Logger
		contentType string
	}{
		{name: "logging off", lg: zerolog.Nop(), contentType: "application/x-ndjson"},
		{name: "debug logging, ndjson", lg: zerolog.New(io.Discard).Level(zerolog.DebugLevel), contentType: "application/x-ndjson"},
		{name: "debug logging, no content type", lg: zerolog.New(io.Discard).Level(zerolog.DebugLevel), contentType: "text/plain"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			release := make(chan struct{})
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write([]byte(`{"message":{"content":"Hello"},"done":false}` + "\n"))
				w.(http.Flusher).Flush()
				select {
				case <-release:
				case <-r.Context().Done():
					return
				}
				_, _ = w.Write([]byte(`{"message":{"content":" world"},"done":true}` + "\n"))
			}))
			defer ts.Close()

			chunks := make(chan string, 2)
			errs := make(chan error, 1)
			go func() {
				errs <- New(ts.URL, tt.lg).Stream(context.Background(), ai.Request{Model: "m", Prompt: strings.Repeat("p", 2048)}, func(s string) error {
					chunks <- s
					return nil
				})
			}()

			select {
			case c := <-chunks:
				assert.Equal(t, "Hello", c)
			case <-time.After(2 * time.Second):
				close(release)
				t.Fatal("first chunk not relayed while the model was still generating")
			}

			close(release)
			require.NoError(t, <-errs)
			assert.Equal(t, " world", <-chunks)
		})
	}
}

func TestClient_Models(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:8b","details":{"family":"llama","parameter_size":"8B"}},{"name":"tiny"}]}`))
	}))
	defer ts.Close()

	models, err := New(ts.URL+"/", zerolog.Nop()).Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ai.Model{
		{ID: "llama3:8b", Name: "llama3:8b", Description: "Local llama 8B"},
		{ID: "tiny", Name: "tiny", Description: "Local model"},
	}, models)
}
