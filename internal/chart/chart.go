// Package chart decodes the line oriented .chart format.
package chart

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/tempo"
	"github.com/pkg/errors"
)

// Instrument is the only part a .chart file describes.
var Instrument = game.Instrument{ID: "PART GUITAR", Name: "Guitar"}

type section int

const (
	secNone section = iota
	secSong
	secSyncTrack
	secNotes
)

// The four note sections, indexed by difficulty
var noteSections = map[string]game.Difficulty{
	"EasySingle":   game.Easy,
	"MediumSingle": game.Medium,
	"HardSingle":   game.Hard,
	"ExpertSingle": game.Expert,
}

// Song is the [Song] section.
type Song struct {
	Name       string
	Artist     string
	Charter    string
	Tier       int
	Resolution uint32
}

// Warning records a line that was skipped because it did not have the
// expected shape.
type Warning struct {
	Line int
	Text string
}

// Chart is a decoded .chart file.
type Chart struct {
	Song     Song
	Tempo    []tempo.Event
	Notes    map[game.Difficulty][]game.RawNote
	Warnings []Warning
}

type decoder struct {
	chart      *Chart
	section    section
	difficulty game.Difficulty
	line       int
}

// MaxLineLength is the longest line Decode reads, longer lines are skipped.
const MaxLineLength = 1024 * 1024

// Decode reads a whole chart. Lines that cannot be understood are skipped
// and recorded as warnings. It fails only when reading fails or when no
// difficulty has a playable note.
func Decode(r io.Reader) (*Chart, error) {
	d := decoder{chart: &Chart{
		Song:  Song{Resolution: tempo.DefaultResolution},
		Notes: map[game.Difficulty][]game.RawNote{},
	}}

	br := bufio.NewReaderSize(r, 64*1024)
	line := []byte{}
	tooLong := false
	for {
		part, isPrefix, err := br.ReadLine()
		if nil != err {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "unable to read chart")
		}
		if !tooLong {
			line = append(line, part...)
			if len(line) > MaxLineLength {
				tooLong = true
				line = line[:0]
			}
		}
		if isPrefix {
			continue
		}
		d.line++
		if tooLong {
			d.warn("line longer than " + strconv.Itoa(MaxLineLength) + " bytes")
		} else {
			d.handle(string(line))
		}
		line = line[:0]
		tooLong = false
	}

	if len(d.chart.Difficulties()) == 0 {
		return nil, errors.Wrap(game.ErrNoNotes, "chart")
	}
	return d.chart, nil
}

// DecodeString decodes chart text held in memory.
func DecodeString(text string) (*Chart, error) {
	return Decode(strings.NewReader(text))
}

func (d *decoder) warn(text string) {
	d.chart.Warnings = append(d.chart.Warnings, Warning{Line: d.line, Text: text})
}

func (d *decoder) handle(line string) {
	if d.line == 1 {
		line = strings.TrimPrefix(line, "\ufeff")
	}
	line = strings.TrimSpace(line)
	if line == "" || line == "{" || line == "}" {
		return
	}

	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		d.enter(strings.TrimSpace(line[1 : len(line)-1]))
		return
	}

	if d.section == secNone {
		return
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		d.warn(line)
		return
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)

	switch d.section {
	case secSong:
		d.song(key, value)
	case secSyncTrack:
		d.sync(key, value, line)
	case secNotes:
		d.note(key, value, line)
	}
}

func (d *decoder) enter(name string) {
	switch name {
	case "Song":
		d.section = secSong
	case "SyncTrack":
		d.section = secSyncTrack
	default:
		if difficulty, ok := noteSections[name]; ok {
			d.section = secNotes
			d.difficulty = difficulty
			return
		}
		d.section = secNone
	}
}

func unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}
	return value
}

func (d *decoder) song(key, value string) {
	value = unquote(value)
	song := &d.chart.Song
	switch key {
	case "Name":
		song.Name = value
	case "Artist":
		song.Artist = value
	case "Charter":
		song.Charter = value
	case "Difficulty":
		tier, err := strconv.Atoi(value)
		if nil != err {
			d.warn(key + " = " + value)
			return
		}
		song.Tier = game.ClampTier(tier)
	case "Resolution":
		resolution, err := strconv.ParseUint(value, 10, 32)
		if nil != err || resolution == 0 {
			d.warn(key + " = " + value)
			return
		}
		song.Resolution = uint32(resolution)
	}
}

func (d *decoder) sync(key, value, line string) {
	tick, err := strconv.ParseUint(key, 10, 32)
	if nil != err {
		d.warn(line)
		return
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		d.warn(line)
		return
	}
	// Time signatures and anchors do not affect timing
	if fields[0] != "B" {
		return
	}
	if len(fields) != 2 {
		d.warn(line)
		return
	}
	milliBPM, err := strconv.ParseUint(fields[1], 10, 32)
	if nil != err || milliBPM == 0 {
		d.warn(line)
		return
	}
	d.chart.Tempo = append(d.chart.Tempo, tempo.FromBPM(uint32(tick), float64(milliBPM)/1000))
}

func (d *decoder) note(key, value, line string) {
	tick, err := strconv.ParseUint(key, 10, 32)
	if nil != err {
		d.warn(line)
		return
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		d.warn(line)
		return
	}
	// Star power phrases and events are not modelled
	if fields[0] != "N" {
		return
	}
	if len(fields) != 3 {
		d.warn(line)
		return
	}
	lane, err := strconv.ParseUint(fields[1], 10, 32)
	if nil != err {
		d.warn(line)
		return
	}
	sustain, err := strconv.ParseUint(fields[2], 10, 32)
	if nil != err {
		d.warn(line)
		return
	}
	// 5 and above are forced strum and tap modifiers
	if lane >= game.Lanes {
		return
	}
	d.chart.Notes[d.difficulty] = append(d.chart.Notes[d.difficulty], game.RawNote{
		Position: uint32(tick),
		Code:     uint32(lane),
		Duration: uint32(sustain),
	})
}

// Difficulties returns the tiers with at least one note, ascending.
func (c *Chart) Difficulties() []game.Difficulty {
	difficulties := []game.Difficulty{}
	for _, d := range game.Difficulties {
		if len(c.Notes[d]) > 0 {
			difficulties = append(difficulties, d)
		}
	}
	return difficulties
}

// TempoMap returns the chart's tempo table.
func (c *Chart) TempoMap() *tempo.Map {
	return tempo.New(c.Song.Resolution, c.Tempo)
}

// Metadata returns the display fields the chart declares.
func (c *Chart) Metadata() game.Metadata {
	return game.Metadata{
		Name:    c.Song.Name,
		Artist:  c.Song.Artist,
		Charter: c.Song.Charter,
		Tier:    c.Song.Tier,
	}
}
