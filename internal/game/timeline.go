package game

import "strings"

// MaxTier is the highest difficulty tier a song can declare.
const MaxTier = 6

// Metadata describes a song timeline for display.
type Metadata struct {
	Name       string
	Artist     string
	Charter    string
	Tier       int     // Song difficulty, 0 to MaxTier
	Duration   float64 // Seconds, including the trailing buffer
	TotalNotes int
	AverageNPS float64
	MaxNPS     float64
}

// Stars renders the tier on a fixed star scale.
func (m Metadata) Stars() string {
	tier := ClampTier(m.Tier)
	return strings.Repeat("★", tier) + strings.Repeat("☆", MaxTier-tier)
}

// ClampTier limits t to 0..MaxTier.
func ClampTier(t int) int {
	if t < 0 {
		return 0
	}
	if t > MaxTier {
		return MaxTier
	}
	return t
}

// Timeline is the canonical, immutable note sequence of one difficulty of one
// instrument. Notes are ordered by Time, then Lane.
type Timeline struct {
	Metadata
	Notes []Note
}
