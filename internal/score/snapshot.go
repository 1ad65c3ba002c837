package score

import "git.lost.host/meutraa/strum/internal/game"

// Visible is a note a renderer should draw.
type Visible struct {
	Lane     uint8
	Position float64 // Distance from the spawn point, the hit line is at Config.HitLine
	Tail     float64 // Position of the sustain end, equal to Position for taps
	State    game.NoteState
}

// Snapshot is the render state of an engine after a frame.
type Snapshot struct {
	Time     float64
	HitLine  float64
	Notes    []Visible
	Held     [game.Lanes]bool // Lanes with an active sustain
	Stats    game.Stats
	Finished bool
}

// Snapshot returns the notes on screen and the current totals.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Time:     e.now,
		HitLine:  e.config.HitLine,
		Stats:    e.stats,
		Finished: e.finished,
	}
	for i := e.first; i < e.spawned; i++ {
		n := &e.notes[i]
		if n.state != game.Spawned && n.state != game.SustainActive {
			continue
		}
		s.Notes = append(s.Notes, Visible{
			Lane:     n.Lane,
			Position: n.position,
			Tail:     e.screenPosition(n.End(), e.now),
			State:    n.state,
		})
	}
	for lane, i := range e.active {
		s.Held[lane] = i != noSustain
	}
	return s
}
