package game

import "github.com/pkg/errors"

// Difficulty is one of the four chart tiers, ordered by challenge.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

// Difficulties lists every tier in ascending order of challenge.
var Difficulties = [...]Difficulty{Easy, Medium, Hard, Expert}

var difficultyNames = [...]string{"easy", "medium", "hard", "expert"}

var (
	ErrNoNotes           = errors.New("no playable notes")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownInstrument = errors.New("unknown instrument")
)

func (d Difficulty) String() string {
	if d.Valid() {
		return difficultyNames[d]
	}
	return "unknown"
}

// Valid reports whether d is one of the four tiers.
func (d Difficulty) Valid() bool {
	return int(d) < len(difficultyNames)
}

// ParseDifficulty returns the tier with the given name.
func ParseDifficulty(name string) (Difficulty, error) {
	for i, n := range difficultyNames {
		if n == name {
			return Difficulty(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownDifficulty, "%q", name)
}

// Instrument identifies a playable part of a song.
type Instrument struct {
	ID   string // Track identifier, e.g. PART GUITAR
	Name string // Display name
}
