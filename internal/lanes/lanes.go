// Package lanes maps instrument note numbers to lanes and track names to
// instruments.
package lanes

import (
	"strings"

	"git.lost.host/meutraa/strum/internal/game"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Family is the note layout an instrument track follows.
type Family uint8

const (
	GuitarLike Family = iota
	DrumLike
)

// SyntheticPrefix starts the name given to tracks without a name event.
const SyntheticPrefix = "TRACK "

const (
	// Easy notes start at this key, each harder tier is an octave higher
	baseKey  = 60
	tierStep = 12
)

// Lane of each of the five keys of a tier, per family. Drums put the kick
// pedal on the last lane.
var layouts = [...][game.Lanes]uint8{
	GuitarLike: {0, 1, 2, 3, 4},
	DrumLike:   {4, 0, 1, 2, 3},
}

type entry struct {
	name   string
	family Family
}

var instruments = map[string]entry{
	"PART GUITAR":      {"Guitar", GuitarLike},
	"T1 GEMS":          {"Guitar", GuitarLike},
	"PART GUITAR COOP": {"Co-op Guitar", GuitarLike},
	"PART RHYTHM":      {"Rhythm Guitar", GuitarLike},
	"PART BASS":        {"Bass", GuitarLike},
	"PART KEYS":        {"Keys", GuitarLike},
	"PART DRUMS":       {"Drums", DrumLike},
}

// Lookup returns the display name and family of a track name. Synthetic
// track names are guitar like.
func Lookup(track string) (string, Family, bool) {
	if e, ok := instruments[track]; ok {
		return e.name, e.family, true
	}
	if strings.HasPrefix(track, SyntheticPrefix) {
		return cases.Title(language.English).String(track), GuitarLike, true
	}
	return "", GuitarLike, false
}

// Lane returns the lane a key maps to for a family and difficulty.
func Lane(family Family, difficulty game.Difficulty, key uint8) (uint8, bool) {
	if !difficulty.Valid() || int(family) >= len(layouts) {
		return 0, false
	}
	first := baseKey + tierStep*int(difficulty)
	offset := int(key) - first
	if offset < 0 || offset >= game.Lanes {
		return 0, false
	}
	return layouts[family][offset], true
}

// Keys returns the note numbers of a family and difficulty, indexed by lane.
func Keys(family Family, difficulty game.Difficulty) [game.Lanes]uint8 {
	var keys [game.Lanes]uint8
	first := baseKey + tierStep*int(difficulty)
	for offset, lane := range layouts[family] {
		keys[lane] = uint8(first + offset)
	}
	return keys
}

// Playable reports whether key belongs to any difficulty of a family.
func Playable(family Family, key uint8) bool {
	for _, d := range game.Difficulties {
		if _, ok := Lane(family, d, key); ok {
			return true
		}
	}
	return false
}

// Track is the part of a decoded track the mapper needs.
type Track interface {
	TrackName() string
	Keys() []uint8
}

// Available returns the instruments that have a display name and at least
// one playable note, in track order.
func Available[T Track](tracks []T) []game.Instrument {
	instruments := []game.Instrument{}
	seen := map[string]bool{}
	for _, t := range tracks {
		name, family, ok := Lookup(t.TrackName())
		if !ok || seen[t.TrackName()] {
			continue
		}
		for _, key := range t.Keys() {
			if Playable(family, key) {
				instruments = append(instruments, game.Instrument{ID: t.TrackName(), Name: name})
				seen[t.TrackName()] = true
				break
			}
		}
	}
	return instruments
}
