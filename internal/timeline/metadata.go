package timeline

import (
	"strconv"
	"strings"

	"git.lost.host/meutraa/strum/internal/game"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Overrides are the optional fields of a song.ini blob. Zero values mean the
// blob did not set the field.
type Overrides struct {
	Name     string
	Artist   string
	Charter  string
	Tier     *int
	Duration float64 // Seconds
}

// ParseSongINI reads a song.ini style key value blob. Section and key names
// are case insensitive; keys outside a [song] section are accepted too.
func ParseSongINI(data []byte) (Overrides, error) {
	var o Overrides
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, data)
	if nil != err {
		return o, errors.Wrap(err, "unable to parse song.ini")
	}

	get := func(keys ...string) string {
		for _, sec := range []string{"song", ini.DefaultSection} {
			s, err := f.GetSection(sec)
			if nil != err {
				continue
			}
			for _, key := range keys {
				if v := strings.TrimSpace(s.Key(key).String()); v != "" {
					return v
				}
			}
		}
		return ""
	}

	o.Name = get("name", "title")
	o.Artist = get("artist")
	o.Charter = get("charter", "frets")
	if tier, err := strconv.Atoi(get("diff_guitar", "difficulty")); nil == err && tier >= 0 {
		o.Tier = &tier
	}
	if ms, err := strconv.ParseFloat(get("song_length", "duration"), 64); nil == err && ms > 0 {
		o.Duration = ms / 1000
	}
	return o, nil
}

// Apply merges the overrides into a metadata value. Fields the blob sets win
// over those from the chart. A duration override only applies when it is
// longer than the computed one so that no note is cut off.
func (o Overrides) Apply(m game.Metadata) game.Metadata {
	if o.Name != "" {
		m.Name = o.Name
	}
	if o.Artist != "" {
		m.Artist = o.Artist
	}
	if o.Charter != "" {
		m.Charter = o.Charter
	}
	if nil != o.Tier {
		m.Tier = game.ClampTier(*o.Tier)
	}
	if o.Duration > m.Duration {
		m.Duration = o.Duration
		if m.Duration > 0 {
			m.AverageNPS = float64(m.TotalNotes) / m.Duration
		}
	}
	return m
}
