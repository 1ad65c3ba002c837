package score

import (
	"testing"

	"git.lost.host/meutraa/strum/internal/game"
)

func newEngine(t testing.TB, duration float64, notes ...game.Note) *Engine {
	tl := &game.Timeline{
		Metadata: game.Metadata{Duration: duration, TotalNotes: len(notes)},
		Notes:    notes,
	}
	e, err := New(tl, DefaultConfig())
	if nil != err {
		t.Fatal("unable to create engine", err)
	}
	return e
}

func press(lane uint8) game.Input {
	return game.Input{Kind: game.LanePressed, Lane: lane}
}

func release(lane uint8) game.Input {
	return game.Input{Kind: game.LaneReleased, Lane: lane}
}

func TestNewRejectsEmptyTimeline(t *testing.T) {
	if _, err := New(&game.Timeline{}, DefaultConfig()); nil == err {
		t.Log("expected an error for an empty timeline")
		t.Fail()
	}
	bad := DefaultConfig()
	bad.Windows = [3]float64{0.1, 0.05, 0.2}
	tl := &game.Timeline{Notes: []game.Note{{Time: 1}}}
	if _, err := New(tl, bad); nil == err {
		t.Log("expected an error for windows that are not nested")
		t.Fail()
	}
}

func TestExactPressIsPerfect(t *testing.T) {
	e := newEngine(t, 10, game.Note{Time: 1, Lane: 2})
	e.Frame(0, 0, nil)
	e.Frame(1, 1, []game.Input{press(2)})

	stats := e.Stats()
	if e.State(0) != game.Hit || stats.Perfects != 1 || stats.Score != 100 || stats.Combo != 1 {
		t.Log("State", e.State(0))
		t.Log("Stats", stats)
		t.Fail()
	}
}

func TestPerfectRunScore(t *testing.T) {
	var notes []game.Note
	for i := 0; i < 12; i++ {
		notes = append(notes, game.Note{Time: float64(i + 1), Lane: uint8(i % game.Lanes)})
	}
	e := newEngine(t, 20, notes...)
	for i, n := range notes {
		e.Frame(n.Time, 1, []game.Input{press(n.Lane)})
		if e.State(i) != game.Hit {
			t.Log("note", i, "was", e.State(i))
			t.Fail()
		}
	}

	// Ten presses at 1x followed by two at 2x
	var expected uint64 = 10*100 + 2*200
	stats := e.Stats()
	if stats.Score != expected || stats.MaxCombo != 12 {
		t.Log("Score   ", stats.Score)
		t.Log("Expected", expected)
		t.Fail()
	}
}

func TestEmptyPressIsMiss(t *testing.T) {
	e := newEngine(t, 10, game.Note{Time: 1, Lane: 0}, game.Note{Time: 1.5, Lane: 1})
	e.Frame(0.5, 0.5, nil)
	e.Frame(1, 0.5, []game.Input{press(0)})
	e.Frame(1.2, 0.2, []game.Input{press(1)})

	stats := e.Stats()
	if stats.Misses != 1 || stats.Combo != 0 || stats.MaxCombo != 1 {
		t.Log("Stats", stats)
		t.Fail()
	}
	if e.State(0) != game.Hit || e.State(1) != game.Spawned {
		t.Log("States", e.State(0), e.State(1))
		t.Fail()
	}
}

func TestWrongLaneIsMiss(t *testing.T) {
	e := newEngine(t, 10, game.Note{Time: 1, Lane: 0})
	e.Frame(1, 1, []game.Input{press(4)})
	if e.State(0) != game.Spawned || e.Stats().Misses != 1 {
		t.Log("State", e.State(0), "Stats", e.Stats())
		t.Fail()
	}
}

func TestPassedNoteIsMissed(t *testing.T) {
	e := newEngine(t, 10, game.Note{Time: 1, Lane: 0}, game.Note{Time: 3, Lane: 0})
	e.Frame(0, 0, nil)
	if e.State(0) != game.Spawned || e.State(1) != game.Pending {
		t.Log("States", e.State(0), e.State(1))
		t.Fail()
	}
	e.Frame(1.05, 1.05, nil)
	if e.State(0) != game.Spawned {
		t.Log("note missed inside the ok window")
		t.Fail()
	}
	e.Frame(1.2, 0.15, nil)
	if e.State(0) != game.Missed || e.State(1) != game.Spawned || e.Stats().Misses != 1 {
		t.Log("States", e.State(0), e.State(1), "Stats", e.Stats())
		t.Fail()
	}
}

func TestEqualDistanceTakesEarlier(t *testing.T) {
	e := newEngine(t, 10, game.Note{Time: 0.5, Lane: 1}, game.Note{Time: 0.625, Lane: 1})
	e.Frame(0.5625, 0.5625, []game.Input{press(1)})
	if e.State(0) != game.Hit || e.State(1) != game.Spawned || e.Stats().Goods != 1 {
		t.Log("States", e.State(0), e.State(1), "Stats", e.Stats())
		t.Fail()
	}
}

func TestZeroSustainIsTap(t *testing.T) {
	e := newEngine(t, 10, game.Note{Time: 1, Lane: 0, Sustain: 0})
	e.Frame(1, 1, []game.Input{press(0)})
	s := e.Snapshot()
	if e.State(0) != game.Hit || s.Held[0] || e.Stats().SustainsHit != 0 {
		t.Log("State", e.State(0), "Held", s.Held)
		t.Fail()
	}
}

func TestSustainHeldToEnd(t *testing.T) {
	e := newEngine(t, 10, game.Note{Time: 1, Lane: 3, Sustain: 1})
	e.Frame(1, 1, []game.Input{press(3)})
	if e.State(0) != game.SustainActive || !e.Snapshot().Held[3] {
		t.Log("State", e.State(0))
		t.Fail()
	}
	e.Frame(2.125, 1.125, nil)

	// Perfect press, one second of sustain and the completion bonus
	stats := e.Stats()
	if e.State(0) != game.SustainComplete || stats.Score != 100+25+50 || stats.SustainsComplete != 1 {
		t.Log("State", e.State(0), "Stats", stats)
		t.Fail()
	}
}

var releaseTests = []struct {
	at    float64
	combo uint32
}{
	{1.25, 0},
	{1.75, 1},
}

func TestSustainReleasedEarly(t *testing.T) {
	for _, test := range releaseTests {
		e := newEngine(t, 10, game.Note{Time: 1, Lane: 0, Sustain: 1})
		e.Frame(1, 1, []game.Input{press(0)})
		e.Frame(test.at, test.at-1, []game.Input{release(0)})

		stats := e.Stats()
		if e.State(0) != game.SustainReleased || stats.SustainsDropped != 1 || stats.Combo != test.combo {
			t.Log("Release at", test.at)
			t.Log("State", e.State(0), "Stats", stats)
			t.Fail()
		}
	}
}

func TestSessionEnd(t *testing.T) {
	e := newEngine(t, 10,
		game.Note{Time: 1, Lane: 0},
		game.Note{Time: 4, Lane: 1, Sustain: 8},
		game.Note{Time: 9.5, Lane: 2},
	)
	e.Frame(1, 1, []game.Input{press(0)})
	e.Frame(4, 3, []game.Input{press(1)})
	if e.Frame(9, 5, nil) {
		t.Log("finished early")
		t.Fail()
	}
	if !e.Frame(10, 1, nil) || !e.Finished() {
		t.Log("not finished at the song duration")
		t.Fail()
	}
	if e.State(0) != game.Hit || e.State(1) != game.SustainReleased || e.State(2) != game.Missed {
		t.Log("States", e.State(0), e.State(1), e.State(2))
		t.Fail()
	}
	if len(e.Snapshot().Notes) != 0 {
		t.Log("notes visible after the end")
		t.Fail()
	}
}

func TestSnapshotPositions(t *testing.T) {
	e := newEngine(t, 10, game.Note{Time: 1, Lane: 0}, game.Note{Time: 2, Lane: 1, Sustain: 1})
	e.Frame(0, 0, nil)
	s := e.Snapshot()
	if len(s.Notes) != 2 {
		t.Fatal("expected two visible notes, got", len(s.Notes))
	}
	// Lookahead 2 over a hit line at 1 moves notes half a unit a second
	if s.Notes[0].Position != 0.5 || s.Notes[1].Position != 0 || s.Notes[1].Tail != -0.5 {
		t.Log("Notes", s.Notes)
		t.Fail()
	}
}

func BenchmarkFrame(b *testing.B) {
	notes := make([]game.Note, 2000)
	for i := range notes {
		notes[i] = game.Note{Time: float64(i) * 0.1, Lane: uint8(i % game.Lanes)}
	}
	inputs := []game.Input{press(0), press(1)}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		e := newEngine(b, 205, notes...)
		for now := 0.0; !e.Frame(now, 1.0/60, inputs); now += 1.0 / 60 {
		}
	}
}
