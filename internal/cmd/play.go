package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wikidash/internal/article"
	"github.com/kiliankoe/wikidash/internal/config"
	"github.com/kiliankoe/wikidash/internal/game"
)

var errQuit = errors.New("player quit")

// Play is a command to play the game in the terminal.
type Play struct {
	config.Common

	Model      string `long:"model" env:"MODEL" default:"moonshotai/kimi-k2-instruct" description:"model for the fake articles, optionally prefixed with provider:"`
	Difficulty string `long:"difficulty" env:"DIFFICULTY" default:"medium" choice:"easy" choice:"medium" choice:"hard" description:"difficulty of the fake articles"`
	Rounds     int    `long:"rounds" env:"ROUNDS" default:"5" description:"number of rounds"`
	RoundTime  int    `long:"round-time" env:"ROUND_TIME" default:"30" description:"seconds per round"`
	Export     string `long:"export" env:"EXPORT_FILE" description:"append the game summary to this file"`
	Style      string `long:"style" description:"glamour style, empty means auto"`
}

// Execute runs the command.
func (p Play) Execute(_ []string) error {
	d, err := build(p.Common, log.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	tr, err := newTermRenderer(p.Style, 100)
	if err != nil {
		return err
	}

	sess, err := p.play(ctx, d.rounds, tr, readLines(os.Stdin), os.Stdout)
	if err != nil {
		return err
	}
	return p.finish(sess, tr, os.Stdout)
}

// play runs rounds until they are used up or the player quits.
func (p Play) play(ctx context.Context, rounds roundAssembler, tr *glamour.TermRenderer, in <-chan string, out io.Writer) (*game.Session, error) {
	diff, err := article.ParseDifficulty(p.Difficulty)
	if err != nil {
		return nil, err
	}

	sess := game.NewSession(game.SessionConfig{
		Model:      p.Model,
		Difficulty: diff,
		RoundCount: p.Rounds,
		RoundTime:  p.RoundTime,
	})
	ctx = log.Logger.With().Str("session", sess.ID).Logger().WithContext(ctx)

	for sess.RoundsLeft() > 0 {
		fmt.Fprintf(out, "\nRound %d of %d, fetching articles...\n", sess.RoundIx+1, sess.Config.RoundCount)

		rnd, err := rounds.Assemble(ctx, p.Model, diff)
		if err != nil {
			return sess, fmt.Errorf("assemble round %d: %w", sess.RoundIx+1, err)
		}
		if err := sess.StartRound(rnd); err != nil {
			return sess, fmt.Errorf("start round: %w", err)
		}

		s, err := renderRound(tr, rnd)
		if err != nil {
			return sess, err
		}
		fmt.Fprint(out, s)
		fmt.Fprintf(out, "Which one is the real Wikipedia article? [1/2, q to quit] (%ds)\n", sess.Config.RoundTime)

		c, err := p.ask(ctx, sess, in, out)
		if errors.Is(err, errQuit) {
			return sess, nil
		}
		if err != nil {
			return sess, err
		}
		reveal(out, c, rnd)
	}

	if err := sess.Finish(); err != nil {
		return sess, fmt.Errorf("finish game: %w", err)
	}
	return sess, nil
}

// ask waits for a pick, timing out after the round time.
func (p Play) ask(ctx context.Context, sess *game.Session, in <-chan string, out io.Writer) (game.Choice, error) {
	start := time.Now()
	timer := time.NewTimer(time.Duration(sess.Config.RoundTime) * time.Second)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return game.Choice{}, ctx.Err()
		case <-timer.C:
			fmt.Fprintln(out, "Time is up, picking one for you.")
			return sess.TimeUp()
		case line, ok := <-in:
			if !ok {
				return game.Choice{}, errQuit
			}
			answer := strings.ToLower(strings.TrimSpace(line))
			switch answer {
			case "1", "2":
				left := sess.Config.RoundTime - int(time.Since(start).Seconds())
				return sess.Choose(int(answer[0]-'1'), left)
			case "q", "quit":
				return game.Choice{}, errQuit
			default:
				fmt.Fprintln(out, "Please answer 1 or 2.")
			}
		}
	}
}

func reveal(out io.Writer, c game.Choice, rnd article.Round) {
	verdict := "Wrong!"
	if c.Correct {
		verdict = "Correct!"
	}
	fmt.Fprintf(out, "%s Article %d was the real one (+%d points).\n", verdict, rnd.RealArticleIndex+1, c.Points)
	if u := rnd.Real().URL; u != "" {
		fmt.Fprintf(out, "Read it at %s\n", u)
	}
	if c.Fallback {
		fmt.Fprintln(out, "The generated article was unavailable this round.")
	}
}

// finish prints the summary and exports it when asked to.
func (p Play) finish(sess *game.Session, tr *glamour.TermRenderer, out io.Writer) error {
	var sb strings.Builder
	if err := game.WriteSummary(&sb, sess); err != nil {
		return err
	}
	s, err := tr.Render(sb.String())
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	fmt.Fprint(out, s)

	if p.Export == "" {
		return nil
	}
	if err := game.ExportSession(sess, p.Export); err != nil {
		return fmt.Errorf("export session: %w", err)
	}
	log.Info().Str("file", p.Export).Msg("game exported")
	return nil
}

// readLines feeds the lines of r into the returned channel until EOF.
func readLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}
