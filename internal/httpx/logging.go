// Package httpx contains requester middlewares shared by outbound clients.
package httpx

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/requester/middleware"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// LogOpts configures LoggingRoundTripper.
type LogOpts struct {
	Level         zerolog.Level
	SecretHeaders []string
}

// LoggingRoundTripper logs every outgoing request and its response. The
// logger is taken from the request context, falling back to lg. Bodies are
// captured only when opts.Level is enabled, and streamed response bodies are
// never captured.
func LoggingRoundTripper(lg zerolog.Logger, opts LogOpts) middleware.RoundTripperHandler {
	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			l := lg
			if cl := zerolog.Ctx(req.Context()); cl.GetLevel() != zerolog.Disabled {
				l = *cl
			}
			if !enabled(l, opts.Level) {
				return next.RoundTrip(req)
			}

			var reqBody string
			req.Body, reqBody = copyAndTrim(req.Body)
			l.WithLevel(opts.Level).
				Str("method", req.Method).
				Str("url", req.URL.String()).
				Interface("headers", maskHeaders(req.Header, opts.SecretHeaders)).
				Str("body", reqBody).
				Msg("request sent")

			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			if err != nil {
				l.WithLevel(opts.Level).Err(err).Dur("elapsed", elapsed).Msg("request failed")
				return resp, err
			}

			ev := l.WithLevel(opts.Level).
				Int("status", resp.StatusCode).
				Interface("headers", maskHeaders(resp.Header, opts.SecretHeaders)).
				Dur("elapsed", elapsed)
			if streamed(reqBody, resp.Header) {
				ev.Bool("stream", true).Msg("response received")
				return resp, nil
			}

			var respBody string
			resp.Body, respBody = copyAndTrim(resp.Body)
			ev.Str("body", respBody).Msg("response received")

			return resp, nil
		})
	}
}

func enabled(l zerolog.Logger, lvl zerolog.Level) bool {
	return lvl >= l.GetLevel() && lvl >= zerolog.GlobalLevel()
}

// streamed reports whether the response body arrives incrementally, in which
// case reading ahead would hold back the first chunks.
func streamed(reqBody string, h http.Header) bool {
	ct := h.Get("Content-Type")
	return strings.Contains(reqBody, `"stream":true`) ||
		strings.HasPrefix(ct, "application/x-ndjson") ||
		strings.HasPrefix(ct, "text/event-stream")
}

func maskHeaders(h http.Header, secret []string) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		if lo.Contains(secret, k) {
			out[k] = "***"
			continue
		}
		out[k] = strings.Join(vals, ",")
	}
	return out
}

const trimBodyAt = 1024

func copyAndTrim(r io.ReadCloser) (rd io.ReadCloser, result string) {
	if r == nil || r == http.NoBody {
		return r, ""
	}

	rd, result, read := readPortion(r, trimBodyAt)
	if read == trimBodyAt {
		result += "..."
	}
	result = strings.ReplaceAll(result, "\n", "")
	result = strings.ReplaceAll(result, "\t", "")

	return rd, result
}

func readPortion(src io.ReadCloser, limit int64) (rd io.ReadCloser, portion string, read int64) {
	buf := &bytes.Buffer{}

	read, err := io.CopyN(buf, src, limit)
	switch {
	case errors.Is(err, io.EOF):
		// src is exhausted, the buffer holds everything there is
		_ = src.Close()
		return io.NopCloser(bytes.NewReader(buf.Bytes())), buf.String(), read
	case err != nil:
		// the caller gets the buffered bytes, then the read error
		return &closer{rd: io.MultiReader(bytes.NewReader(buf.Bytes()), errReader{err: err}), closeFn: src.Close}, buf.String(), read
	}

	return &closer{rd: io.MultiReader(bytes.NewReader(buf.Bytes()), src), closeFn: src.Close}, buf.String(), read
}

type closer struct {
	rd      io.Reader
	closeFn func() error
}

func (c *closer) Read(p []byte) (n int, err error) { return c.rd.Read(p) }
func (c *closer) Close() error                     { return c.closeFn() }

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
