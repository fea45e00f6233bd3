// Package wikipedia fetches random real articles from the Wikipedia REST API.
package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"

	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/httpx"
)

// DefaultBaseURL is the English Wikipedia REST API root.
const DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

// FallbackTitle is the title of the article returned when Wikipedia is unavailable.
const FallbackTitle = "Fallback Wikipedia Article"

const (
	sourceWikipedia = "Wikipedia"
	sourceFallback  = "Wikipedia Fallback"
	noContent       = "No content available for this article."
	overviewRunes   = 200
)

// Options configures a Gateway.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// ShortExtract is the rune length below which the body gets synthesized
	// sections. Zero means 1000.
	ShortExtract int
	// FullPage enables fetching the desktop page to replace the extract with
	// the readable article text.
	FullPage bool
	Logger   zerolog.Logger
}

// Gateway implements round.ArticleSource on top of the random summary endpoint.
type Gateway struct {
	rq   *requester.Requester
	opts Options
	now  func() time.Time
}

// New makes a Gateway.
func New(opts Options) *Gateway {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.UserAgent == "" {
		opts.UserAgent = "wikidash/1.0 (https://github.com/kiliankoe/wikidash)"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.ShortExtract <= 0 {
		opts.ShortExtract = 1000
	}

	rq := requester.New(http.Client{Timeout: opts.Timeout},
		middleware.Header("User-Agent", opts.UserAgent),
		httpx.LoggingRoundTripper(opts.Logger, httpx.LogOpts{Level: zerolog.DebugLevel}),
	)

	return &Gateway{rq: rq, opts: opts, now: time.Now}
}

type summary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	Timestamp   string `json:"timestamp"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// FetchRandomArticle returns a random real article. It never returns a Fatal
// result: any failure yields the fallback article as Degraded.
func (g *Gateway) FetchRandomArticle(ctx context.Context) article.Result {
	lg := zerolog.Ctx(ctx)

	s, err := g.randomSummary(ctx)
	if err != nil {
		lg.Warn().Err(err).Msg("wikipedia unavailable, using fallback article")
		return article.Degraded(g.fallback(), err)
	}

	a := article.Article{
		Title:        s.Title,
		Content:      g.body(s.Title, s.Extract),
		IsAI:         false,
		Source:       sourceWikipedia,
		LastModified: g.lastModified(s.Timestamp),
		URL:          s.ContentURLs.Desktop.Page,
	}
	if a.URL == "" {
		a.URL = "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(s.Title, " ", "_"))
	}

	if g.opts.FullPage {
		text, err := g.pageText(ctx, a.URL)
		switch {
		case err != nil:
			lg.Debug().Err(err).Str("url", a.URL).Msg("full page enrichment failed, keeping summary")
		case text != "":
			a.Content = "**" + s.Title + "** " + text
		}
	}

	lg.Debug().Str("title", a.Title).Int("chars", len(a.Content)).Msg("got wikipedia article")
	return article.Ok(a)
}

func (g *Gateway) randomSummary(ctx context.Context) (summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.opts.BaseURL+"/page/random/summary", http.NoBody)
	if err != nil {
		return summary{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.rq.Do(req)
	if err != nil {
		return summary{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return summary{}, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	var s summary
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return summary{}, fmt.Errorf("decode summary: %w", err)
	}
	if strings.TrimSpace(s.Title) == "" {
		return summary{}, errors.New("summary without title")
	}
	return s, nil
}

func (g *Gateway) pageText(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := g.rq.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	doc, err := readability.FromReader(resp.Body, u)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return strings.TrimSpace(doc.TextContent), nil
}

// body synthesizes a wiki-markup body around the extract. Short extracts get
// the full set of structural sections, long ones only the trailing sections.
func (g *Gateway) body(title, extract string) string {
	extract = strings.TrimSpace(extract)
	if extract == "" {
		extract = noContent
	}

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "**%s** %s\n\n", title, extract)

	if utf8.RuneCountInString(extract) < g.opts.ShortExtract {
		fmt.Fprintf(sb, "== Overview ==\n%s...\n\n", truncateRunes(extract, overviewRunes))
		sb.WriteString("== History ==\nInformation about the historical development and background.\n\n")
		sb.WriteString("== Significance ==\nThe importance and relevance of this topic.\n\n")
	}

	sb.WriteString("== See also ==\n* Related topics\n* Additional information\n\n")
	sb.WriteString("== References ==\n1. Primary source documentation\n2. Secondary academic references\n\n")
	sb.WriteString("== External links ==\n* Official resources\n* Additional information")
	return sb.String()
}

func (g *Gateway) lastModified(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format(article.DateLayout)
	}
	return g.now().Format(article.DateLayout)
}

func (g *Gateway) fallback() article.Article {
	return article.Article{
		Title: FallbackTitle,
		Content: "**" + FallbackTitle + "** is a placeholder article used when the system encounters " +
			"difficulties retrieving actual Wikipedia content.\n\n" +
			"== Technical Details ==\nThe system attempted to retrieve a random article from Wikipedia but encountered an error.\n\n" +
			"== Usage ==\nThis fallback ensures the application continues functioning during service disruptions.",
		IsAI:         false,
		Source:       sourceFallback,
		LastModified: g.now().Format(article.DateLayout),
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
