package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/completion"
	"github.com/kiliankoe/wikidash/internal/config"
)

// Round is a command to assemble a single round and print it.
type Round struct {
	config.Common

	Model      string `long:"model" env:"MODEL" default:"moonshotai/kimi-k2-instruct" description:"model for the fake article, optionally prefixed with provider:"`
	Difficulty string `long:"difficulty" env:"DIFFICULTY" default:"medium" choice:"easy" choice:"medium" choice:"hard" description:"difficulty of the fake article"`
	Pretty     bool   `long:"pretty" description:"render the round for the terminal instead of printing json"`
	Style      string `long:"style" description:"glamour style for --pretty, empty means auto"`
}

// Execute runs the command.
func (r Round) Execute(_ []string) error {
	d, err := build(r.Common, log.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	return r.run(ctx, d.rounds, os.Stdout)
}

func (r Round) run(ctx context.Context, rounds roundAssembler, out io.Writer) error {
	diff, err := article.ParseDifficulty(r.Difficulty)
	if err != nil {
		return err
	}
	if r.Model == "" {
		r.Model = completion.DefaultModel
	}

	rnd, err := rounds.Assemble(log.Logger.WithContext(ctx), r.Model, diff)
	if err != nil {
		return fmt.Errorf("assemble round: %w", err)
	}

	if !r.Pretty {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rnd); err != nil {
			return fmt.Errorf("encode round: %w", err)
		}
		return nil
	}

	tr, err := newTermRenderer(r.Style, 100)
	if err != nil {
		return err
	}
	s, err := renderRound(tr, rnd)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%s\nThe real article is number %d.\n", s, rnd.RealArticleIndex+1); err != nil {
		return fmt.Errorf("write round: %w", err)
	}
	if rnd.Fallback {
		fmt.Fprintln(out, "The generated article was unavailable, a placeholder was used.")
	}
	return nil
}
