package game

import (
	"github.com/kiliankoe/wikidash/internal/article"
)

type Phase string

const (
	PhaseSettings  Phase = "Settings"
	PhasePlaying   Phase = "Playing"
	PhaseRevealing Phase = "Revealing"
	PhaseGameOver  Phase = "GameOver"
)

type SessionConfig struct {
	Model      string             `json:"model"`
	Difficulty article.Difficulty `json:"difficulty"`
	RoundCount int                `json:"roundCount"`
	RoundTime  int                `json:"roundTime"` // seconds
}

// Choice is the outcome of one round.
type Choice struct {
	Round    int    `json:"round"`
	Title    string `json:"title"`
	Picked   int    `json:"picked"`
	Correct  bool   `json:"correct"`
	TimedOut bool   `json:"timedOut"`
	TimeLeft int    `json:"timeLeft"`
	Points   int    `json:"points"`
	Fallback bool   `json:"fallback,omitempty"`
}

type Stats struct {
	Score          int     `json:"score"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalTime      int     `json:"totalTime"`   // seconds
	AverageTime    float64 `json:"averageTime"` // seconds per played round
}
