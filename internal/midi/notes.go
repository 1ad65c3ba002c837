package midi

import (
	"sort"

	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/lanes"
	"git.lost.host/meutraa/strum/internal/tempo"
	"github.com/pkg/errors"
)

// TempoMap returns the tempo table of every track combined.
func (f *File) TempoMap() *tempo.Map {
	return tempo.New(uint32(f.Resolution), f.Tempo)
}

// Track returns the first track with the given name.
func (f *File) Track(name string) (*Track, bool) {
	for i := range f.Tracks {
		if f.Tracks[i].Name == name {
			return &f.Tracks[i], true
		}
	}
	return nil, false
}

// Instruments returns the playable instruments of the file.
func (f *File) Instruments() []game.Instrument {
	return lanes.Available(f.Tracks)
}

// Difficulties returns the tiers of an instrument that have notes, ascending.
func (f *File) Difficulties(instrument string) []game.Difficulty {
	difficulties := []game.Difficulty{}
	for _, d := range game.Difficulties {
		notes, err := f.ExtractNotes(d, instrument)
		if nil == err && len(notes) > 0 {
			difficulties = append(difficulties, d)
		}
	}
	return difficulties
}

func (f *File) minimumSustain() uint32 {
	if s := uint32(f.Resolution) / f.options.sustainDivisor; s > 0 {
		return s
	}
	return 1
}

// ExtractNotes pairs the note ons and offs of an instrument's track that
// belong to a difficulty. The returned notes carry the MIDI note number as
// their code and are ordered by tick.
func (f *File) ExtractNotes(difficulty game.Difficulty, instrument string) ([]game.RawNote, error) {
	if !difficulty.Valid() {
		return nil, errors.Wrapf(game.ErrUnknownDifficulty, "%d", difficulty)
	}
	t, ok := f.Track(instrument)
	if !ok {
		return nil, errors.Wrapf(game.ErrUnknownInstrument, "%q", instrument)
	}
	_, family, ok := lanes.Lookup(instrument)
	if !ok {
		return nil, errors.Wrapf(game.ErrUnknownInstrument, "%q has no lanes", instrument)
	}

	notes := []game.RawNote{}
	open := map[uint8]uint32{}
	closeNote := func(key uint8, start, duration uint32) {
		notes = append(notes, game.RawNote{Position: start, Code: uint32(key), Duration: duration})
	}

	for _, e := range t.Events {
		if _, ok := lanes.Lane(family, difficulty, e.Key); !ok {
			continue
		}
		start, isOpen := open[e.Key]
		if e.On {
			if isOpen && e.Tick > start {
				// A second note on before the note off ends the first one
				closeNote(e.Key, start, e.Tick-start)
			}
			open[e.Key] = e.Tick
			continue
		}
		if !isOpen {
			continue
		}
		elapsed := e.Tick - start
		if elapsed == 0 {
			elapsed = f.minimumSustain()
		}
		closeNote(e.Key, start, elapsed)
		delete(open, e.Key)
	}

	// Anything left open ends with the track
	for key, start := range open {
		var elapsed uint32
		if t.LastTick > start {
			elapsed = t.LastTick - start
		}
		closeNote(key, start, elapsed)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Position == notes[j].Position {
			return notes[i].Code < notes[j].Code
		}
		return notes[i].Position < notes[j].Position
	})
	return notes, nil
}
