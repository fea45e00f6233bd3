package game

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteSummary writes the game's results as Markdown.
func WriteSummary(w io.Writer, s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# wikidash results - Session %s\n\n", s.ID))
	sb.WriteString(fmt.Sprintf("Started: %s  \n", s.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Model: `%s`, difficulty: %s, %d rounds of %ds\n\n",
		s.Config.Model, s.Config.Difficulty, s.Config.RoundCount, s.Config.RoundTime))

	for _, c := range s.Choices {
		verdict := "wrong"
		if c.Correct {
			verdict = "correct"
		}
		if c.TimedOut {
			verdict += ", time ran out"
		}
		sb.WriteString(fmt.Sprintf("## Round %d: \"%s\"\n\n", c.Round, c.Title))
		sb.WriteString(fmt.Sprintf("- picked article %d (%s)\n", c.Picked+1, verdict))
		sb.WriteString(fmt.Sprintf("- %d points, %ds left\n", c.Points, c.TimeLeft))
		if c.Fallback {
			sb.WriteString("- the generated article was unavailable this round\n")
		}
		sb.WriteString("\n")
	}

	st := s.stats()
	sb.WriteString("## Totals\n\n")
	sb.WriteString(fmt.Sprintf("- Score: %d\n", st.Score))
	sb.WriteString(fmt.Sprintf("- Correct: %d/%d\n", st.CorrectAnswers, s.Config.RoundCount))
	sb.WriteString(fmt.Sprintf("- Average time: %.0fs\n", st.AverageTime))

	if s.Phase == PhaseGameOver {
		sb.WriteString(fmt.Sprintf("\nGame ended at %s\n", time.Now().Format("2006-01-02 15:04:05")))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// ExportSession appends the game's summary to a file.
func ExportSession(s *Session, filename string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if err := WriteSummary(file, s); err != nil {
		return err
	}
	if _, err := file.WriteString("\n---\n\n"); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
