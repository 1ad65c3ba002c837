package game

// Lanes is the number of input columns a chart can use.
const Lanes = 5

// RawNote is a decoded note before tempo conversion. Position and Duration are
// in the source's tick domain, Code is the lane literal or MIDI note number.
type RawNote struct {
	Position uint32
	Code     uint32
	Duration uint32
}

// Note is a single note of a song timeline.
type Note struct {
	Time    float64 // Seconds from the start of the song
	Lane    uint8   // The chart column, 0 to Lanes-1
	Sustain float64 // Seconds the lane must be held, 0 for a tap
}

// End returns the time the note should be released.
func (n Note) End() float64 {
	return n.Time + n.Sustain
}

// IsSustain reports whether the note must be held.
func (n Note) IsSustain() bool {
	return n.Sustain > 0
}

// NoteState is the judgement state of a note during play.
type NoteState uint8

const (
	Pending NoteState = iota
	Spawned
	Hit
	Missed
	SustainActive
	SustainComplete
	SustainReleased
)

var stateNames = [...]string{"pending", "spawned", "hit", "missed", "sustain", "complete", "released"}

func (s NoteState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible from s.
func (s NoteState) Terminal() bool {
	return s == Hit || s == Missed || s == SustainComplete || s == SustainReleased
}

// Live reports whether s can still be judged by a press.
func (s NoteState) Live() bool {
	return s == Spawned
}

// CanTransition reports whether moving from s to next is a legal transition.
func (s NoteState) CanTransition(next NoteState) bool {
	switch s {
	case Pending:
		return next == Spawned || next == Missed
	case Spawned:
		return next == Hit || next == Missed
	case Hit:
		return next == SustainActive
	case SustainActive:
		return next == SustainComplete || next == SustainReleased
	}
	return false
}
