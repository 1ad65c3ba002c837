// Package timeline turns decoded notes into a song timeline.
package timeline

import (
	"sort"

	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/tempo"
	"github.com/pkg/errors"
)

const (
	// TrailingSeconds keeps the song running after the last note ends
	TrailingSeconds = 5.0

	npsStep   = 0.5
	npsWindow = 1.0
)

// LaneFunc maps a raw note code to a lane.
type LaneFunc func(code uint32) (uint8, bool)

// LiteralLanes treats the code as the lane itself.
func LiteralLanes(code uint32) (uint8, bool) {
	if code >= game.Lanes {
		return 0, false
	}
	return uint8(code), true
}

// Build converts raw notes into a timeline. The metadata's name, artist,
// charter and tier are kept, the remaining fields are computed. Notes whose
// code has no lane are dropped. It fails with game.ErrNoNotes when nothing
// is left.
func Build(raw []game.RawNote, tm *tempo.Map, lane LaneFunc, meta game.Metadata) (*game.Timeline, error) {
	if nil == lane {
		lane = LiteralLanes
	}

	notes := make([]game.Note, 0, len(raw))
	var end float64
	for _, r := range raw {
		l, ok := lane(r.Code)
		if !ok {
			continue
		}
		n := game.Note{
			Time:    tm.SecondsAt(r.Position),
			Lane:    l,
			Sustain: tm.DurationAt(r.Position, r.Duration),
		}
		if e := tm.SecondsAt(r.Position + r.Duration); e > end {
			end = e
		}
		notes = append(notes, n)
	}
	if len(notes) == 0 {
		return nil, errors.WithStack(game.ErrNoNotes)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Time == notes[j].Time {
			return notes[i].Lane < notes[j].Lane
		}
		return notes[i].Time < notes[j].Time
	})

	meta.Tier = game.ClampTier(meta.Tier)
	meta.Duration = tempo.Round(end + TrailingSeconds)
	meta.TotalNotes = len(notes)
	meta.AverageNPS = float64(len(notes)) / meta.Duration
	meta.MaxNPS = MaxNPS(notes, meta.Duration)

	return &game.Timeline{Metadata: meta, Notes: notes}, nil
}

// MaxNPS returns the highest number of notes in any one second window, with
// windows starting every half second. Notes must be sorted by time.
func MaxNPS(notes []game.Note, duration float64) float64 {
	max := 0
	for cursor := 0.0; cursor < duration; cursor += npsStep {
		first := sort.Search(len(notes), func(i int) bool {
			return notes[i].Time >= cursor
		})
		last := sort.Search(len(notes), func(i int) bool {
			return notes[i].Time >= cursor+npsWindow
		})
		if n := last - first; n > max {
			max = n
		}
	}
	return float64(max) / npsWindow
}
