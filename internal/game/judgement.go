package game

// Judgement is the grade given to a press.
type Judgement uint8

const (
	Perfect Judgement = iota
	Good
	Ok
	Miss
)

var judgementNames = [...]string{"Perfect", "Good", "Ok", "Miss"}

func (j Judgement) String() string {
	if int(j) < len(judgementNames) {
		return judgementNames[j]
	}
	return "Unknown"
}

// InputKind is the type of a discrete input event.
type InputKind uint8

const (
	LanePressed InputKind = iota
	LaneReleased
	PauseToggled
	Quit
)

// Input is a discrete event from an input source.
type Input struct {
	Kind InputKind
	Lane uint8
}

// Stats holds the running totals of a session.
type Stats struct {
	Score            uint64
	Combo            uint32
	MaxCombo         uint32
	Perfects         uint32
	Goods            uint32
	Oks              uint32
	Misses           uint32
	SustainsHit      uint32
	SustainsComplete uint32
	SustainsDropped  uint32
}

// Hits returns the number of judged presses that were not misses.
func (s Stats) Hits() uint32 {
	return s.Perfects + s.Goods + s.Oks
}

// Accuracy returns the fraction of judgements that were hits.
func (s Stats) Accuracy() float64 {
	total := s.Hits() + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits()) / float64(total)
}
