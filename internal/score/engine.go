// Package score judges player input against a song timeline in real time.
package score

import (
	"math"

	"git.lost.host/meutraa/strum/internal/game"
	"github.com/pkg/errors"
)

const noSustain = -1

type runtimeNote struct {
	game.Note
	state    game.NoteState
	position float64 // Screen distance travelled from the spawn point
}

// Engine runs one session's judgement. It is not safe for concurrent use;
// the host calls it from a single frame loop.
type Engine struct {
	config   Config
	metadata game.Metadata
	notes    []runtimeNote
	speed    float64 // Screen units per second

	first   int // Lowest index that may still change state
	spawned int // Index of the next note to spawn
	active  [game.Lanes]int

	stats         game.Stats
	sustainPoints float64 // Fractional points not yet added to the score
	now           float64
	finished      bool
}

// New creates an engine for a timeline. The timeline is only read.
func New(tl *game.Timeline, config Config) (*Engine, error) {
	if err := config.Validate(); nil != err {
		return nil, err
	}
	if nil == tl || len(tl.Notes) == 0 {
		return nil, errors.WithStack(game.ErrNoNotes)
	}
	e := &Engine{
		config:   config,
		metadata: tl.Metadata,
		notes:    make([]runtimeNote, len(tl.Notes)),
		speed:    config.HitLine / config.Lookahead,
	}
	for i, n := range tl.Notes {
		e.notes[i] = runtimeNote{Note: n}
	}
	for i := range e.active {
		e.active[i] = noSustain
	}
	return e, nil
}

// Stats returns a copy of the current totals.
func (e *Engine) Stats() game.Stats {
	return e.stats
}

// Finished reports whether the session has ended.
func (e *Engine) Finished() bool {
	return e.finished
}

// State returns the state of the note at index i of the timeline.
func (e *Engine) State(i int) game.NoteState {
	return e.notes[i].state
}

func (e *Engine) transition(i int, next game.NoteState) {
	n := &e.notes[i]
	assert(n.state.CanTransition(next), "note %d: %v to %v", i, n.state, next)
	n.state = next
}

// Frame advances the engine to now, applying the inputs received since the
// previous frame. It returns true once the session has ended.
func (e *Engine) Frame(now, delta float64, inputs []game.Input) bool {
	if e.finished {
		return true
	}
	if now < e.now {
		now = e.now
	}
	e.now = now

	e.spawn(now)
	for _, in := range inputs {
		switch in.Kind {
		case game.LanePressed:
			e.press(in.Lane, now)
		case game.LaneReleased:
			e.Release(in.Lane, now)
		}
	}
	e.advance(now)
	e.sustain(now, delta)
	if now >= e.metadata.Duration {
		e.finish(now)
	}
	return e.finished
}

func (e *Engine) screenPosition(t, now float64) float64 {
	return e.config.HitLine - (t-now)*e.speed
}

// spawn activates every note whose lookahead has begun.
func (e *Engine) spawn(now float64) {
	for e.spawned < len(e.notes) {
		n := &e.notes[e.spawned]
		if n.Time-e.config.Lookahead > now {
			break
		}
		e.transition(e.spawned, game.Spawned)
		n.position = e.screenPosition(n.Time, now)
		e.spawned++
	}
}

// advance moves spawned notes and misses those past the hit line.
func (e *Engine) advance(now float64) {
	tolerance := e.config.missTolerance() * e.speed
	for i := e.first; i < e.spawned; i++ {
		n := &e.notes[i]
		if n.state.Terminal() {
			continue
		}
		// Positions are derived from the clock rather than accumulated
		n.position = e.screenPosition(n.Time, now)
		if n.state == game.Spawned && n.position-e.config.HitLine > tolerance {
			e.transition(i, game.Missed)
			e.stats.Misses++
			e.stats.Combo = 0
		}
	}
	for e.first < e.spawned && e.notes[e.first].state.Terminal() {
		e.first++
	}
}

// Press judges a lane press at now and returns the grade given. A press
// with no note in range counts as a miss and consumes nothing.
func (e *Engine) Press(lane uint8, now float64) game.Judgement {
	if e.finished {
		return game.Miss
	}
	e.spawn(now)
	return e.press(lane, now)
}

func (e *Engine) press(lane uint8, now float64) game.Judgement {
	if lane >= game.Lanes {
		return game.Miss
	}
	if e.active[lane] != noSustain {
		e.Release(lane, now)
	}

	okWindow := e.config.Windows[game.Ok]
	closest := -1
	distance := math.Inf(1)
	for i := e.first; i < e.spawned; i++ {
		n := &e.notes[i]
		if n.Time-now > okWindow {
			// Every later note is further away
			break
		}
		if n.Lane != lane || !n.state.Live() {
			continue
		}
		// Strictly nearer only, so exact ties keep the earlier note
		if d := math.Abs(n.Time - now); d <= okWindow && d < distance {
			closest = i
			distance = d
		}
	}

	if closest < 0 {
		e.stats.Misses++
		e.stats.Combo = 0
		return game.Miss
	}

	judgement, _ := e.config.Judge(distance)
	e.stats.Score += e.config.Points[judgement] * e.config.Multiplier(e.stats.Combo)
	e.stats.Combo++
	if e.stats.Combo > e.stats.MaxCombo {
		e.stats.MaxCombo = e.stats.Combo
	}
	switch judgement {
	case game.Perfect:
		e.stats.Perfects++
	case game.Good:
		e.stats.Goods++
	case game.Ok:
		e.stats.Oks++
	}

	e.transition(closest, game.Hit)
	if e.notes[closest].IsSustain() {
		e.transition(closest, game.SustainActive)
		e.active[lane] = closest
		e.stats.SustainsHit++
	}
	return judgement
}

// Release ends the sustain held on a lane, if any.
func (e *Engine) Release(lane uint8, now float64) {
	if lane >= game.Lanes || e.active[lane] == noSustain {
		return
	}
	i := e.active[lane]
	n := &e.notes[i]
	if now >= n.End() {
		e.complete(lane)
		return
	}
	held := (now - n.Time) / n.Sustain
	if held < e.config.MinHold {
		e.stats.Combo = 0
	}
	e.transition(i, game.SustainReleased)
	e.stats.SustainsDropped++
	e.active[lane] = noSustain
}

func (e *Engine) complete(lane uint8) {
	i := e.active[lane]
	e.transition(i, game.SustainComplete)
	e.stats.Score += e.config.SustainBonus * e.config.Multiplier(e.stats.Combo)
	e.stats.SustainsComplete++
	e.active[lane] = noSustain
}

// sustain scores held notes for the time held during this frame.
func (e *Engine) sustain(now, delta float64) {
	for lane, i := range e.active {
		if i == noSustain {
			continue
		}
		n := &e.notes[i]
		held := math.Min(now, n.End()) - math.Max(now-delta, n.Time)
		if held > 0 {
			e.sustainPoints += e.config.SustainPointsPerSecond * held * float64(e.config.Multiplier(e.stats.Combo))
			whole := math.Floor(e.sustainPoints)
			e.stats.Score += uint64(whole)
			e.sustainPoints -= whole
		}
		if now >= n.End() {
			e.complete(uint8(lane))
		}
	}
}

// finish misses every note that was never judged and ends the session.
func (e *Engine) finish(now float64) {
	for lane := range e.active {
		if e.active[lane] != noSustain {
			e.Release(uint8(lane), now)
		}
	}
	for i := e.first; i < len(e.notes); i++ {
		switch e.notes[i].state {
		case game.Pending, game.Spawned:
			e.transition(i, game.Missed)
			e.stats.Misses++
			e.stats.Combo = 0
		}
	}
	e.first = len(e.notes)
	e.spawned = len(e.notes)
	e.finished = true
}
