// Package config holds the command line of strum.
package config

import (
	"time"

	"git.lost.host/meutraa/strum/internal/clock"
	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/score"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	PlayCommand = "play"
	ListCommand = "list"
	InfoCommand = "info"
)

var (
	app = kingpin.New("strum", "Play five lane rhythm game charts in a terminal").Version("0.3.0")

	Rate        = app.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64()
	Offset      = app.Flag("offset", "Audio calibration offset, at most 200ms either way").Default("0ms").Short('o').Duration()
	Delay       = app.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration()
	FramePeriod = app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').Duration()
	Lookahead   = app.Flag("lookahead", "Seconds a note is visible before it is due").Default("2.0").Short('l').Float64()
	Spacing     = app.Flag("spacing", "Columns between lanes").Default("6").Short('S').Uint()
	BarRow      = app.Flag("bar-row", "Console row to render hit bar, from the bottom").Default("4").Uint()
	Keys        = app.Flag("keys", "Keys for each lane, left to right").Default("asdfg").Short('k').String()
	Device      = app.Flag("device", "Read keys from this evdev device instead of the terminal").ExistingFile()
	HoldTimeout = app.Flag("hold-timeout", "Release a terminal key after it stops repeating for this long").Default("550ms").Duration()
	RepeatGap   = app.Flag("repeat-gap", "A repeating terminal key that pauses for longer than this was struck again").Default("100ms").Duration()
	Database    = app.Flag("db", "Score database").Default("./scores.db").String()
	Instrument  = app.Flag("instrument", "Instrument to play").Default("PART GUITAR").Short('i').String()
	Difficulty  = app.Flag("difficulty", "Difficulty to play, the hardest available by default").Enum("easy", "medium", "hard", "expert")
	Jobs        = app.Flag("jobs", "Songs to load at once when scanning a library").Default("0").Short('j').Int()
	MinSustain  = app.Flag("min-sustain", "Sustain in ticks given to zero length MIDI notes, as the resolution divided by this").Default("8").Uint32()

	play      = app.Command(PlayCommand, "Play a song").Default()
	Directory = play.Arg("directory", "Song directory").Required().ExistingDir()

	list    = app.Command(ListCommand, "List the songs of a library")
	Library = list.Arg("library", "Library directory").Default(".").ExistingDir()

	info     = app.Command(InfoCommand, "Show the instruments and difficulties of a song")
	SongInfo = info.Arg("directory", "Song directory").Required().ExistingDir()
)

// Parse reads the command line and returns the selected command.
func Parse(args []string) (string, error) {
	command, err := app.Parse(args)
	if nil != err {
		return "", err
	}
	*Offset = clock.ClampOffset(*Offset)
	if *Rate <= 0 {
		*Rate = 1
	}
	return command, nil
}

// ParseDifficulty returns the difficulty flag, if one was given.
func ParseDifficulty() (game.Difficulty, bool) {
	if nil == Difficulty || *Difficulty == "" {
		return 0, false
	}
	d, err := game.ParseDifficulty(*Difficulty)
	return d, nil == err
}

// Engine returns the judgement settings for a session.
func Engine() score.Config {
	c := score.DefaultConfig()
	if *Lookahead > 0 {
		c.Lookahead = *Lookahead
	}
	return c
}

// Start returns how long to wait before the song starts.
func Start() time.Duration {
	if *Delay < 0 {
		return 0
	}
	return *Delay
}
