// Package format turns wiki-flavoured article text, as produced by the
// Wikipedia gateway and by language models, into Markdown and sanitized HTML.
// Both sides of a round go through the same pipeline so they look alike.
package format

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	reFromWikipedia = regexp.MustCompile(`(?i)^\s*From Wikipedia, the free encyclopedia\s*`)
	reHeader        = regexp.MustCompile(`^(={2,6})\s*(.*?)\s*(={2,6})$`)
	reCategory      = regexp.MustCompile(`^\[\[Category:[^\]]*\]\]$`)
	rePipedLink     = regexp.MustCompile(`\[\[[^\]|]*\|([^\]]*)\]\]`)
	reWikiLink      = regexp.MustCompile(`\[\[([^\]]*)\]\]`)
	reCitation      = regexp.MustCompile(`\[(\d+)\]`)
	reBullet        = regexp.MustCompile(`^[•·]\s+`)
)

// ToMarkdown converts wiki markup (== headers ==, [[links]], [n] citations,
// • bullets) into CommonMark. Citations are kept as inline <sup> elements.
func ToMarkdown(content string) string {
	content = reFromWikipedia.ReplaceAllString(strings.TrimSpace(content), "")

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)

		if reCategory.MatchString(trimmed) {
			continue
		}

		if m := reHeader.FindStringSubmatch(trimmed); m != nil && len(m[1]) == len(m[3]) {
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			out = append(out, strings.Repeat("#", len(m[1]))+" "+m[2], "")
			continue
		}

		line = reBullet.ReplaceAllString(line, "* ")
		line = rePipedLink.ReplaceAllString(line, "[[$1]]")
		line = reWikiLink.ReplaceAllString(line, "[$1](#)")
		line = reCitation.ReplaceAllString(line, `<sup class="reference">[$1]</sup>`)
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Renderer renders article content into an HTML fragment.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	footer bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFooter appends generic "See also" and "References" sections to articles
// that have neither.
func WithFooter() Option { return func(r *Renderer) { r.footer = true } }

// NewRenderer makes a Renderer with GFM enabled and a UGC sanitizing policy.
func NewRenderer(opts ...Option) *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^(reference|external|wiki-lead)$`)).OnElements("sup", "a", "p")

	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// raw html is needed for citations, the sanitizer runs afterwards
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		policy: policy,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts the article body to sanitized HTML. The title is bolded in
// the lead paragraph when the body does not already do so.
func (r *Renderer) Render(title, content string) (string, error) {
	md := ToMarkdown(content)
	md = boldLead(title, md)

	if r.footer && !hasFooter(md) {
		md += "\n\n## See also\n\n* [Related topic 1](#)\n* [Related topic 2](#)\n\n" +
			"## References\n\n1. Primary source documentation\n2. Secondary academic source\n"
	}

	buf := &bytes.Buffer{}
	if err := r.md.Convert([]byte(md), buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	return r.policy.Sanitize(buf.String()), nil
}

func boldLead(title, md string) string {
	if title == "" || strings.HasPrefix(md, "**") {
		return md
	}
	lead, rest, _ := strings.Cut(md, "\n")
	if strings.HasPrefix(lead, "#") || strings.Contains(lead, "**") {
		return md
	}
	idx := strings.Index(strings.ToLower(lead), strings.ToLower(title))
	if idx < 0 || idx+len(title) > len(lead) {
		return md
	}
	lead = lead[:idx] + "**" + lead[idx:idx+len(title)] + "**" + lead[idx+len(title):]
	if rest == "" {
		return lead
	}
	return lead + "\n" + rest
}

func hasFooter(md string) bool {
	lower := strings.ToLower(md)
	return strings.Contains(lower, "## see also") || strings.Contains(lower, "## references")
}
