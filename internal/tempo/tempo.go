// Package tempo converts tick positions to seconds through a piecewise
// tempo table.
package tempo

import (
	"math"
	"sort"
)

const (
	// DefaultMicrosPerBeat is 120 BPM, used before the first tempo event.
	DefaultMicrosPerBeat = 500000
	// DefaultResolution is the ticks per beat assumed when a source omits it.
	DefaultResolution = 192

	microsPerSecond = 1000000.0
)

// Event is a tempo change at a tick position.
type Event struct {
	Position      uint32
	MicrosPerBeat float64
}

// FromMicros returns the binary form of a tempo event.
func FromMicros(tick, microsPerBeat uint32) Event {
	return Event{Position: tick, MicrosPerBeat: float64(microsPerBeat)}
}

// FromBPM returns the text form of a tempo event.
func FromBPM(position uint32, bpm float64) Event {
	return Event{Position: position, MicrosPerBeat: 60 * microsPerSecond / bpm}
}

// BPM returns the tempo in beats per minute.
func (e Event) BPM() float64 {
	return 60 * microsPerSecond / e.MicrosPerBeat
}

// Map is an immutable tempo table with a fixed resolution.
type Map struct {
	resolution float64
	events     []Event
	starts     []float64 // Unrounded seconds at each event
}

// New builds a Map. Events are sorted by position; when two share a position
// the later one wins. Events with a non positive tempo are ignored.
func New(resolution uint32, events []Event) *Map {
	if resolution == 0 {
		resolution = DefaultResolution
	}
	evs := make([]Event, 0, len(events)+1)
	for _, e := range events {
		if e.MicrosPerBeat > 0 && !math.IsInf(e.MicrosPerBeat, 0) {
			evs = append(evs, e)
		}
	}
	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].Position < evs[j].Position
	})

	// Collapse duplicate positions, keeping the last
	dedup := evs[:0]
	for _, e := range evs {
		if n := len(dedup); n > 0 && dedup[n-1].Position == e.Position {
			dedup[n-1] = e
			continue
		}
		dedup = append(dedup, e)
	}
	if len(dedup) == 0 || dedup[0].Position != 0 {
		dedup = append([]Event{{Position: 0, MicrosPerBeat: DefaultMicrosPerBeat}}, dedup...)
	}

	m := &Map{
		resolution: float64(resolution),
		events:     dedup,
		starts:     make([]float64, len(dedup)),
	}
	for i := 1; i < len(dedup); i++ {
		prev := dedup[i-1]
		m.starts[i] = m.starts[i-1] + m.segment(dedup[i].Position-prev.Position, prev.MicrosPerBeat)
	}
	return m
}

func (m *Map) segment(ticks uint32, microsPerBeat float64) float64 {
	return (float64(ticks) / m.resolution) * (microsPerBeat / microsPerSecond)
}

// Resolution returns the ticks per beat.
func (m *Map) Resolution() uint32 {
	return uint32(m.resolution)
}

// Events returns a copy of the normalised tempo events.
func (m *Map) Events() []Event {
	return append([]Event(nil), m.events...)
}

// SecondsAt returns the time of a tick position, rounded to the millisecond.
func (m *Map) SecondsAt(position uint32) float64 {
	return Round(m.exact(position))
}

func (m *Map) exact(position uint32) float64 {
	// Index of the last event at or before position
	i := sort.Search(len(m.events), func(i int) bool {
		return m.events[i].Position > position
	}) - 1
	if i < 0 {
		i = 0
	}
	e := m.events[i]
	return m.starts[i] + m.segment(position-e.Position, e.MicrosPerBeat)
}

// DurationAt returns the length in seconds of durationTicks starting at start.
func (m *Map) DurationAt(start, durationTicks uint32) float64 {
	if durationTicks == 0 {
		return 0
	}
	end := start + durationTicks
	if end < start {
		end = math.MaxUint32
	}
	d := Round(m.SecondsAt(end) - m.SecondsAt(start))
	if d < 0 {
		return 0
	}
	return d
}

// Round rounds seconds to three decimal places.
func Round(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}
