package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/completion"
)

type emitted struct {
	event string
	args  []any
}

// stubConn records emitted events. Methods the handlers don't use panic
// through the nil embedded interface.
type stubConn struct {
	socketio.Conn

	mu     sync.Mutex
	ctx    any
	events []emitted
}

func (c *stubConn) ID() string       { return "sid-1" }
func (c *stubConn) Context() any     { return c.ctx }
func (c *stubConn) SetContext(v any) { c.ctx = v }
func (c *stubConn) Emit(event string, v ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, emitted{event: event, args: v})
}

func (c *stubConn) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.event)
	}
	return out
}

type stubRounds struct {
	rnd   article.Round
	err   error
	calls int
	diff  article.Difficulty
}

func (s *stubRounds) Assemble(_ context.Context, _ string, d article.Difficulty) (article.Round, error) {
	s.calls++
	s.diff = d
	return s.rnd, s.err
}

type stubCompleter struct {
	chunks []completion.Chunk
}

func (s stubCompleter) Stream(_ context.Context, _, _ string, fn func(completion.Chunk) error) error {
	for _, c := range s.chunks {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func connected(t *testing.T, srv *Server) *stubConn {
	s := &stubConn{}
	require.NoError(t, srv.connect(s))
	return s
}

func TestMount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	io := New(&stubRounds{}, stubCompleter{}).Mount(r)
	defer io.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/socket.io/?EIO=3&transport=polling", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))

	routes := map[string]bool{}
	for _, ri := range r.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	assert.True(t, routes["GET /socket.io/*any"])
	assert.True(t, routes["POST /socket.io/*any"])
}

func TestNewRound(t *testing.T) {
	rnd := article.Round{
		Articles: [2]article.Article{
			{Title: "Lake Baikal", Content: "real"},
			{Title: "Lake Baikal", Content: "fake", IsAI: true},
		},
		Timestamp: 1741089600000,
	}
	rounds := &stubRounds{rnd: rnd}
	srv := New(rounds, stubCompleter{})
	s := connected(t, srv)

	ack := srv.newRound(s, roundPayload{Model: "m", Difficulty: "HARD"})
	assert.Equal(t, map[string]any{"round": rnd}, ack)
	assert.Equal(t, article.Hard, rounds.diff)
	assert.Empty(t, s.names())
}

func TestNewRound_Errors(t *testing.T) {
	tbl := []struct {
		name    string
		payload roundPayload
		err     error
		code    string
		calls   int
	}{
		{name: "missing model", payload: roundPayload{Difficulty: "easy"}, code: "bad_request"},
		{name: "missing difficulty", payload: roundPayload{Model: "m"}, code: "bad_request"},
		{name: "unknown difficulty", payload: roundPayload{Model: "m", Difficulty: "nightmare"}, code: "bad_request"},
		{name: "assembler failure", payload: roundPayload{Model: "m", Difficulty: "easy"}, err: errors.New("no real article"), code: "internal", calls: 1},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			rounds := &stubRounds{err: tt.err}
			srv := New(rounds, stubCompleter{})
			s := connected(t, srv)

			ack := srv.newRound(s, tt.payload)
			require.Contains(t, ack, "error")
			assert.NotContains(t, ack, "round")
			assert.Equal(t, tt.calls, rounds.calls)

			require.Len(t, s.events, 1)
			assert.Equal(t, "error", s.events[0].event)
			assert.Equal(t, tt.code, s.events[0].args[0].(map[string]any)["code"])
		})
	}
}

func TestCheckCompletion(t *testing.T) {
	srv := New(&stubRounds{}, stubCompleter{})
	s := connected(t, srv)

	ack, ok := srv.checkCompletion(s, completionPayload{})
	assert.False(t, ok)
	assert.Equal(t, map[string]any{"error": "Prompt is required"}, ack)

	ack, ok = srv.checkCompletion(s, completionPayload{Prompt: "hi"})
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"ok": true}, ack)
}

func TestRelay(t *testing.T) {
	chunks := []completion.Chunk{{Content: "Par"}, {Content: "is"}, {Error: "boom"}}
	srv := New(&stubRounds{}, stubCompleter{chunks: chunks})
	s := connected(t, srv)

	srv.relay(connContext(s), s, completionPayload{Prompt: "hi"})

	assert.Equal(t, []string{"completion:chunk", "completion:chunk", "completion:chunk", "completion:done"}, s.names())
	assert.Equal(t, []any{completion.Chunk{Content: "Par"}}, s.events[0].args)
	assert.Equal(t, []any{completion.Chunk{Error: "boom"}}, s.events[2].args)
}

func TestRelay_Disconnected(t *testing.T) {
	srv := New(&stubRounds{}, stubCompleter{chunks: []completion.Chunk{{Content: "Par"}}})
	s := connected(t, srv)

	srv.disconnect(s, "client namespace disconnect")
	srv.relay(connContext(s), s, completionPayload{Prompt: "hi"})

	assert.Empty(t, s.names(), "nothing is emitted to a gone client")
}
