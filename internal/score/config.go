package score

import (
	"git.lost.host/meutraa/strum/internal/game"
	"github.com/pkg/errors"
)

// Config holds the judgement and scoring constants of an engine.
type Config struct {
	Lookahead     float64    // Seconds a note spawns before it is due
	HitLine       float64    // Screen distance from the spawn point to the hit line
	Windows       [3]float64 // Perfect, good and ok windows, seconds either side
	MissTolerance float64    // Seconds past the hit line before a note is missed, 0 uses the ok window

	Points                 [3]uint64 // Base points for perfect, good and ok
	MultiplierSteps        []uint32  // Combo counts at which the multiplier grows by one
	SustainPointsPerSecond float64
	SustainBonus           uint64  // Awarded when a sustain is held to its end
	MinHold                float64 // Fraction of a sustain that must be held to keep the combo
}

// DefaultConfig returns the standard judgement settings.
func DefaultConfig() Config {
	return Config{
		Lookahead:              2.0,
		HitLine:                1.0,
		Windows:                [3]float64{0.035, 0.070, 0.100},
		Points:                 [3]uint64{100, 50, 20},
		MultiplierSteps:        []uint32{10, 20, 30},
		SustainPointsPerSecond: 25,
		SustainBonus:           50,
		MinHold:                0.5,
	}
}

// Validate checks the windows are nested and the lookahead usable.
func (c Config) Validate() error {
	if c.Lookahead <= 0 {
		return errors.Errorf("lookahead must be positive, got %v", c.Lookahead)
	}
	if c.HitLine <= 0 {
		return errors.Errorf("hit line distance must be positive, got %v", c.HitLine)
	}
	if c.Windows[game.Perfect] < 0 ||
		c.Windows[game.Perfect] > c.Windows[game.Good] ||
		c.Windows[game.Good] > c.Windows[game.Ok] {
		return errors.Errorf("windows must be nested, got %v", c.Windows)
	}
	if c.MissTolerance < 0 {
		return errors.Errorf("miss tolerance must not be negative, got %v", c.MissTolerance)
	}
	if c.MinHold < 0 || c.MinHold > 1 {
		return errors.Errorf("minimum hold must be a fraction, got %v", c.MinHold)
	}
	for i := 1; i < len(c.MultiplierSteps); i++ {
		if c.MultiplierSteps[i] < c.MultiplierSteps[i-1] {
			return errors.Errorf("multiplier steps must ascend, got %v", c.MultiplierSteps)
		}
	}
	return nil
}

// Multiplier returns the score multiplier at a combo.
func (c Config) Multiplier(combo uint32) uint64 {
	m := uint64(1)
	for _, step := range c.MultiplierSteps {
		if combo < step {
			break
		}
		m++
	}
	return m
}

// Judge grades an absolute distance in seconds from a note's time.
func (c Config) Judge(distance float64) (game.Judgement, bool) {
	for j := game.Perfect; j <= game.Ok; j++ {
		if distance <= c.Windows[j] {
			return j, true
		}
	}
	return game.Miss, false
}

func (c Config) missTolerance() float64 {
	if c.MissTolerance > 0 {
		return c.MissTolerance
	}
	return c.Windows[game.Ok]
}
