package game

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kiliankoe/wikidash/internal/article"
)

func testRound(realIx int) article.Round {
	realArt := article.Article{Title: "Lake Baikal", Content: "real"}
	fakeArt := article.Article{Title: "Lake Baikal", Content: "fake", IsAI: true}
	r := article.Round{RealArticleIndex: realIx}
	if realIx == 0 {
		r.Articles = [2]article.Article{realArt, fakeArt}
	} else {
		r.Articles = [2]article.Article{fakeArt, realArt}
	}
	return r
}

func TestNewSession(t *testing.T) {
	s := NewSession(SessionConfig{Model: "llama3-8b-8192"})
	if s.ID == "" {
		t.Fatal("session id should not be empty")
	}
	if s.Phase != PhaseSettings {
		t.Fatalf("expected phase %s, got %s", PhaseSettings, s.Phase)
	}
	if s.Config.RoundCount != DefaultRoundCount {
		t.Fatalf("expected %d rounds, got %d", DefaultRoundCount, s.Config.RoundCount)
	}
	if s.Config.RoundTime != DefaultRoundTime {
		t.Fatalf("expected %ds per round, got %d", DefaultRoundTime, s.Config.RoundTime)
	}
	if s.RoundsLeft() != DefaultRoundCount {
		t.Fatalf("expected %d rounds left, got %d", DefaultRoundCount, s.RoundsLeft())
	}
}

func TestScoring(t *testing.T) {
	s := NewSession(SessionConfig{RoundCount: 3, RoundTime: 30})

	// Correct pick with 12 seconds left
	if err := s.StartRound(testRound(1)); err != nil {
		t.Fatalf("should be able to start round: %v", err)
	}
	c, err := s.Choose(1, 12)
	if err != nil {
		t.Fatalf("should be able to choose: %v", err)
	}
	if !c.Correct || c.Points != 112 {
		t.Fatalf("expected correct pick worth 112 points, got %+v", c)
	}
	if s.Phase != PhaseRevealing {
		t.Fatalf("expected phase %s, got %s", PhaseRevealing, s.Phase)
	}

	// Wrong pick scores nothing, regardless of time
	if err := s.StartRound(testRound(0)); err != nil {
		t.Fatalf("should be able to start round: %v", err)
	}
	c, err = s.Choose(1, 25)
	if err != nil {
		t.Fatalf("should be able to choose: %v", err)
	}
	if c.Correct || c.Points != 0 {
		t.Fatalf("expected wrong pick worth 0 points, got %+v", c)
	}

	// Negative time left is clamped
	if err := s.StartRound(testRound(0)); err != nil {
		t.Fatalf("should be able to start round: %v", err)
	}
	c, err = s.Choose(0, -3)
	if err != nil {
		t.Fatalf("should be able to choose: %v", err)
	}
	if c.Points != 100 || c.TimeLeft != 0 {
		t.Fatalf("expected 100 points with no time left, got %+v", c)
	}

	st := s.Stats()
	if st.Score != 212 {
		t.Fatalf("expected score 212, got %d", st.Score)
	}
	if st.CorrectAnswers != 2 {
		t.Fatalf("expected 2 correct answers, got %d", st.CorrectAnswers)
	}
	// 18 + 5 + 30 seconds used
	if st.TotalTime != 53 {
		t.Fatalf("expected total time 53, got %d", st.TotalTime)
	}
	if st.AverageTime < 17.66 || st.AverageTime > 17.67 {
		t.Fatalf("expected average time ~17.67, got %f", st.AverageTime)
	}
}

func TestTimeUp(t *testing.T) {
	for i := 0; i < 20; i++ {
		s := NewSession(SessionConfig{RoundCount: 1})
		if err := s.StartRound(testRound(0)); err != nil {
			t.Fatalf("should be able to start round: %v", err)
		}
		c, err := s.TimeUp()
		if err != nil {
			t.Fatalf("time up should pick a side: %v", err)
		}
		if !c.TimedOut || c.TimeLeft != 0 {
			t.Fatalf("expected timed out choice, got %+v", c)
		}
		if c.Picked != 0 && c.Picked != 1 {
			t.Fatalf("picked side out of range: %d", c.Picked)
		}
		if c.Correct && c.Points != 100 {
			t.Fatalf("expected 100 points for a lucky time up, got %d", c.Points)
		}
	}
}

func TestPhaseTransitions(t *testing.T) {
	s := NewSession(SessionConfig{RoundCount: 2})

	if _, err := s.Choose(0, 10); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("choosing before a round should fail, got %v", err)
	}
	if err := s.Finish(); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("finishing in settings should fail, got %v", err)
	}

	if err := s.StartRound(testRound(0)); err != nil {
		t.Fatalf("should be able to start round: %v", err)
	}
	if err := s.StartRound(testRound(0)); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("starting a round while playing should fail, got %v", err)
	}
	if _, err := s.Choose(2, 10); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected invalid choice, got %v", err)
	}
	if _, err := s.Choose(0, 10); err != nil {
		t.Fatalf("should be able to choose: %v", err)
	}
	if _, err := s.Choose(0, 10); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("choosing twice should fail, got %v", err)
	}
	if err := s.Finish(); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("finishing with rounds left should fail, got %v", err)
	}

	if err := s.StartRound(testRound(1)); err != nil {
		t.Fatalf("should be able to start second round: %v", err)
	}
	if _, err := s.TimeUp(); err != nil {
		t.Fatalf("time up should work: %v", err)
	}
	if err := s.StartRound(testRound(1)); !errors.Is(err, ErrNoRoundsLeft) {
		t.Fatalf("expected no rounds left, got %v", err)
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("should be able to finish: %v", err)
	}
	if s.Phase != PhaseGameOver {
		t.Fatalf("expected phase %s, got %s", PhaseGameOver, s.Phase)
	}
}

func TestWriteSummary(t *testing.T) {
	s := NewSession(SessionConfig{Model: "llama3-8b-8192", Difficulty: article.Hard, RoundCount: 1, RoundTime: 30})
	r := testRound(0)
	r.Fallback = true
	if err := s.StartRound(r); err != nil {
		t.Fatalf("should be able to start round: %v", err)
	}
	if _, err := s.Choose(0, 20); err != nil {
		t.Fatalf("should be able to choose: %v", err)
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("should be able to finish: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, s); err != nil {
		t.Fatalf("should be able to write summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Session " + s.ID,
		"difficulty: hard",
		"## Round 1: \"Lake Baikal\"",
		"picked article 1 (correct)",
		"120 points, 20s left",
		"generated article was unavailable",
		"- Score: 120",
		"- Correct: 1/1",
		"Game ended at",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary should contain %q, got:\n%s", want, out)
		}
	}
}

func TestExportSession(t *testing.T) {
	s := NewSession(SessionConfig{RoundCount: 1})
	filename := filepath.Join(t.TempDir(), "results", "games.md")

	if err := ExportSession(s, filename); err != nil {
		t.Fatalf("should be able to export: %v", err)
	}
	if err := ExportSession(s, filename); err != nil {
		t.Fatalf("should be able to append: %v", err)
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("should be able to read export: %v", err)
	}
	if n := strings.Count(string(b), "# wikidash results"); n != 2 {
		t.Fatalf("expected 2 summaries in file, got %d", n)
	}
}
