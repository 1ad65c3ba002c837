// Package song loads a song directory: its notes, song.ini and audio.
package song

import (
	"crypto/sha256"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/strum/internal/chart"
	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/lanes"
	"git.lost.host/meutraa/strum/internal/midi"
	"git.lost.host/meutraa/strum/internal/timeline"
	"github.com/pkg/errors"
)

// ErrNoChart is returned for a directory without a notes file.
var ErrNoChart = errors.New("no .chart or .mid file")

const iniName = "song.ini"

// Song is a loaded song directory.
type Song struct {
	Dir       string
	ChartPath string
	AudioPath string // Empty when the directory has no audio
	Hash      string // Digest of the notes file

	Warnings []chart.Warning

	overrides timeline.Overrides
	chart     *chart.Chart
	midi      *midi.File
}

func isAudio(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ogg", ".mp3", ".wav":
		return true
	}
	return false
}

// find picks the notes and audio files of a directory. A .chart is
// preferred over a MIDI file, and audio named song over other stems.
func find(dir string) (notes, audio string, err error) {
	entries, err := os.ReadDir(dir)
	if nil != err {
		return "", "", errors.Wrap(err, "unable to read song directory")
	}
	var mid string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch ext := strings.ToLower(filepath.Ext(name)); {
		case ext == ".chart":
			if notes == "" {
				notes = filepath.Join(dir, name)
			}
		case ext == ".mid" || ext == ".midi":
			if mid == "" {
				mid = filepath.Join(dir, name)
			}
		case isAudio(name):
			stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
			if audio == "" || stem == "song" {
				audio = filepath.Join(dir, name)
			}
		}
	}
	if notes == "" {
		notes = mid
	}
	if notes == "" {
		return "", "", errors.Wrap(ErrNoChart, dir)
	}
	return notes, audio, nil
}

// Load reads the song in dir. Options are passed to the MIDI decoder.
func Load(dir string, opts ...midi.Option) (*Song, error) {
	notes, audio, err := find(dir)
	if nil != err {
		return nil, err
	}
	data, err := os.ReadFile(notes)
	if nil != err {
		return nil, errors.Wrap(err, "unable to read notes")
	}
	sum := sha256.Sum256(data)
	s := &Song{
		Dir:       dir,
		ChartPath: notes,
		AudioPath: audio,
		Hash:      base64.StdEncoding.EncodeToString(sum[:]),
	}

	if ext := strings.ToLower(filepath.Ext(notes)); ext == ".chart" {
		s.chart, err = chart.DecodeString(string(data))
		if nil != err {
			return nil, errors.Wrapf(err, "unable to decode %v", notes)
		}
		s.Warnings = s.chart.Warnings
	} else {
		s.midi, err = midi.Decode(data, opts...)
		if nil != err {
			return nil, errors.Wrapf(err, "unable to decode %v", notes)
		}
	}

	if blob, err := os.ReadFile(filepath.Join(dir, iniName)); nil == err {
		if s.overrides, err = timeline.ParseSongINI(blob); nil != err {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "unable to read song.ini")
	}
	return s, nil
}

// Metadata returns the display fields of the song without building a
// timeline.
func (s *Song) Metadata() game.Metadata {
	var m game.Metadata
	if nil != s.chart {
		m = s.chart.Metadata()
	}
	if m.Name == "" {
		m.Name = filepath.Base(s.Dir)
	}
	return s.overrides.Apply(m)
}

// Instruments returns the playable instruments.
func (s *Song) Instruments() []game.Instrument {
	if nil != s.chart {
		return []game.Instrument{chart.Instrument}
	}
	return s.midi.Instruments()
}

// Difficulties returns the tiers of an instrument that have notes.
func (s *Song) Difficulties(instrument string) []game.Difficulty {
	if nil != s.chart {
		if instrument != chart.Instrument.ID {
			return []game.Difficulty{}
		}
		return s.chart.Difficulties()
	}
	return s.midi.Difficulties(instrument)
}

// Timeline builds the playable timeline of one difficulty of an
// instrument. Each call returns a new, independent timeline.
func (s *Song) Timeline(difficulty game.Difficulty, instrument string) (*game.Timeline, error) {
	if !difficulty.Valid() {
		return nil, errors.Wrapf(game.ErrUnknownDifficulty, "%d", difficulty)
	}
	var tl *game.Timeline
	var err error
	if nil != s.chart {
		if instrument != chart.Instrument.ID {
			return nil, errors.Wrapf(game.ErrUnknownInstrument, "%q", instrument)
		}
		tl, err = timeline.Build(s.chart.Notes[difficulty], s.chart.TempoMap(), timeline.LiteralLanes, s.chart.Metadata())
	} else {
		tl, err = s.midiTimeline(difficulty, instrument)
	}
	if nil != err {
		return nil, err
	}
	if tl.Name == "" {
		tl.Name = filepath.Base(s.Dir)
	}
	tl.Metadata = s.overrides.Apply(tl.Metadata)
	return tl, nil
}

func (s *Song) midiTimeline(difficulty game.Difficulty, instrument string) (*game.Timeline, error) {
	raw, err := s.midi.ExtractNotes(difficulty, instrument)
	if nil != err {
		return nil, err
	}
	_, family, _ := lanes.Lookup(instrument)
	lane := func(code uint32) (uint8, bool) {
		if code > 127 {
			return 0, false
		}
		return lanes.Lane(family, difficulty, uint8(code))
	}
	return timeline.Build(raw, s.midi.TempoMap(), lane, game.Metadata{})
}
