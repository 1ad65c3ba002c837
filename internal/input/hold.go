package input

import (
	"time"

	"git.lost.host/meutraa/strum/internal/game"
)

// holds synthesises releases for sources that only report presses. A lane
// counts as held while its key keeps repeating within the timeout. Once a key
// is repeating, a gap longer than repeat means it was let go and struck again.
type holds struct {
	timeout   time.Duration
	repeat    time.Duration
	deadline  [game.Lanes]time.Time
	last      [game.Lanes]time.Time
	repeating [game.Lanes]bool
}

// press records a key event and reports whether the lane has to be released
// first, and whether the event is a new press.
func (h *holds) press(lane uint8, now time.Time) (release, pressed bool) {
	held := !h.deadline[lane].IsZero()
	gap := now.Sub(h.last[lane])
	h.last[lane] = now
	h.deadline[lane] = now.Add(h.timeout)

	switch {
	case !held:
		h.repeating[lane] = false
		return false, true
	case gap <= h.repeat:
		h.repeating[lane] = true
		return false, false
	case h.repeating[lane]:
		h.repeating[lane] = false
		return true, true
	default:
		// The first repeat arrives after the longer initial delay
		h.repeating[lane] = true
		return false, false
	}
}

// expire returns the lanes whose hold has lapsed by now.
func (h *holds) expire(now time.Time) []uint8 {
	var lanes []uint8
	for i, d := range h.deadline {
		if !d.IsZero() && !now.Before(d) {
			lanes = append(lanes, uint8(i))
			h.deadline[i] = time.Time{}
		}
	}
	return lanes
}
