package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kiliankoe/wikidash/internal/article"
)

var (
	ErrInvalidPhase  = errors.New("invalid phase for action")
	ErrInvalidChoice = errors.New("choice must be 0 or 1")
	ErrNoRoundsLeft  = errors.New("no rounds left")
)

const (
	DefaultRoundCount = 5
	DefaultRoundTime  = 30
	correctPoints     = 100
)

// Session is a single-player game. It holds no network state; callers
// fetch rounds and feed them in.
type Session struct {
	ID        string
	CreatedAt time.Time
	Config    SessionConfig

	Phase   Phase
	RoundIx int
	Current article.Round
	Choices []Choice

	mu sync.Mutex
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.RoundCount <= 0 {
		cfg.RoundCount = DefaultRoundCount
	}
	if cfg.RoundTime <= 0 {
		cfg.RoundTime = DefaultRoundTime
	}
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Phase:     PhaseSettings,
	}
}

// StartRound shows the next round. Valid from Settings, or from Revealing
// while rounds remain.
func (s *Session) StartRound(r article.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Phase != PhaseSettings && s.Phase != PhaseRevealing {
		return ErrInvalidPhase
	}
	if s.RoundIx >= s.Config.RoundCount {
		return ErrNoRoundsLeft
	}
	s.RoundIx++
	s.Current = r
	s.Phase = PhasePlaying
	return nil
}

// Choose records the player's pick with the seconds left on the clock.
func (s *Session) Choose(index, timeLeft int) (Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index != 0 && index != 1 {
		return Choice{}, ErrInvalidChoice
	}
	return s.choose(index, timeLeft, false)
}

// TimeUp picks a random side once the countdown reaches zero.
func (s *Session) TimeUp() (Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.choose(rand.Intn(2), 0, true)
}

func (s *Session) choose(index, timeLeft int, timedOut bool) (Choice, error) {
	if s.Phase != PhasePlaying {
		return Choice{}, ErrInvalidPhase
	}
	timeLeft = min(max(timeLeft, 0), s.Config.RoundTime)

	c := Choice{
		Round:    s.RoundIx,
		Title:    s.Current.Real().Title,
		Picked:   index,
		Correct:  index == s.Current.RealArticleIndex,
		TimedOut: timedOut,
		TimeLeft: timeLeft,
		Fallback: s.Current.Fallback,
	}
	if c.Correct {
		c.Points = correctPoints + timeLeft
	}
	s.Choices = append(s.Choices, c)
	s.Phase = PhaseRevealing
	return c, nil
}

// RoundsLeft reports how many rounds are still to be played.
func (s *Session) RoundsLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Config.RoundCount - s.RoundIx
}

// Finish ends the game after the last reveal.
func (s *Session) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Phase != PhaseRevealing || s.RoundIx < s.Config.RoundCount {
		return ErrInvalidPhase
	}
	s.Phase = PhaseGameOver
	return nil
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats()
}

func (s *Session) stats() Stats {
	var st Stats
	for _, c := range s.Choices {
		st.Score += c.Points
		if c.Correct {
			st.CorrectAnswers++
		}
		st.TotalTime += s.Config.RoundTime - c.TimeLeft
	}
	if len(s.Choices) > 0 {
		st.AverageTime = float64(st.TotalTime) / float64(len(s.Choices))
	}
	return st
}
