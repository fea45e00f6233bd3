package article

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDifficulty is returned by ParseDifficulty for values outside the enum.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty controls how hard the generator is asked to make the fake.
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

// ParseDifficulty accepts "easy", "medium" and "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// Clause is the difficulty-specific instruction appended to the generator
// prompt. Unknown values get the medium clause.
func (d Difficulty) Clause() string {
	switch d {
	case Easy:
		return "Difficulty: EASY - Create a simple but plausible fictional topic with basic Wikipedia formatting."
	case Hard:
		return "Difficulty: HARD - Create an extremely convincing fictional topic that would require expert knowledge to identify as false."
	default:
		return "Difficulty: MEDIUM - Create a sophisticated fictional topic with detailed information and proper Wikipedia structure."
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
