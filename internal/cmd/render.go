package cmd

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/glamour"

	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/format"
)

// reSup drops the inline citation markup, terminals show the bare [n].
var reSup = regexp.MustCompile(`</?sup[^>]*>`)

// newTermRenderer makes a glamour renderer. An empty style means auto
// detection of the terminal background.
func newTermRenderer(style string, width int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("make terminal renderer: %w", err)
	}
	return tr, nil
}

// articleMarkdown is the Markdown shown for the n-th (1-based) article of a
// round. Provenance is left out so the articles stay indistinguishable.
func articleMarkdown(n int, a article.Article) string {
	body := reSup.ReplaceAllString(format.ToMarkdown(a.Content), "")
	return fmt.Sprintf("# Article %d: %s\n\n%s\n", n, a.Title, body)
}

func renderRound(tr *glamour.TermRenderer, rnd article.Round) (string, error) {
	var out string
	for i, a := range rnd.Articles {
		s, err := tr.Render(articleMarkdown(i+1, a))
		if err != nil {
			return "", fmt.Errorf("render article %d: %w", i+1, err)
		}
		out += s
	}
	return out, nil
}
