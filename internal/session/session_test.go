package session

import (
	"math"
	"sync"
	"testing"
	"time"

	"git.lost.host/meutraa/strum/internal/clock"
	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/score"
)

func newSession(t *testing.T, notes ...game.Note) (*Session, *clock.ManualTime) {
	mt := clock.NewManualTime(time.Unix(0, 0))
	return newSessionWith(t, clock.NewWallClock(mt), notes...), mt
}

func newSessionWith(t *testing.T, src clock.Source, notes ...game.Note) *Session {
	tl := &game.Timeline{Metadata: game.Metadata{Duration: 10}, Notes: notes}
	s, err := New(tl, score.DefaultConfig(), src)
	if nil != err {
		t.Fatal("unable to create session", err)
	}
	return s
}

// shortSong stops reporting time at end, like a song file shorter than the
// chart.
type shortSong struct {
	*clock.WallClock
	end float64
}

func (s *shortSong) Seconds() (float64, bool) {
	now, ok := s.WallClock.Seconds()
	if !ok || now >= s.end {
		return 0, false
	}
	return now, true
}

func TestFrameBeforeStart(t *testing.T) {
	s, mt := newSession(t, game.Note{Time: 1})
	mt.Advance(5 * time.Second)
	if snap, finished := s.Frame(); finished || snap.Time != 0 || len(snap.Notes) != 0 {
		t.Log("engine advanced before the clock started", snap)
		t.Fail()
	}
}

func TestPressesDroppedWhilePaused(t *testing.T) {
	s, mt := newSession(t, game.Note{Time: 1, Lane: 0}, game.Note{Time: 6, Lane: 1, Sustain: 2})
	s.Start(0)

	mt.Advance(time.Second)
	s.Push(game.Input{Kind: game.PauseToggled})
	s.Push(game.Input{Kind: game.LanePressed, Lane: 0})
	s.Frame()
	if !s.Paused() || s.Stats().Perfects != 0 || s.Stats().Misses != 0 {
		t.Log("press applied while paused", s.Stats())
		t.Fail()
	}

	// A long pause must not move the song on
	mt.Advance(time.Minute)
	s.Push(game.Input{Kind: game.PauseToggled})
	s.Push(game.Input{Kind: game.LanePressed, Lane: 0})
	snap, _ := s.Frame()
	if s.Paused() || snap.Time != 1 || s.Stats().Perfects != 1 {
		t.Log("Time", snap.Time, "Stats", s.Stats())
		t.Fail()
	}
}

func TestReleaseAppliedWhilePaused(t *testing.T) {
	s, mt := newSession(t, game.Note{Time: 1, Lane: 2, Sustain: 4})
	s.Start(0)
	mt.Advance(time.Second)
	s.Push(game.Input{Kind: game.LanePressed, Lane: 2})
	if snap, _ := s.Frame(); !snap.Held[2] {
		t.Fatal("sustain not held")
	}

	mt.Advance(time.Second)
	s.Push(game.Input{Kind: game.PauseToggled})
	s.Push(game.Input{Kind: game.LaneReleased, Lane: 2})
	snap, _ := s.Frame()
	if snap.Held[2] || s.Stats().SustainsDropped != 1 {
		t.Log("release ignored while paused", snap.Held, s.Stats())
		t.Fail()
	}
}

func TestSessionFinishes(t *testing.T) {
	s, mt := newSession(t, game.Note{Time: 1, Lane: 0})
	s.Start(0)
	mt.Advance(11 * time.Second)
	_, finished := s.Frame()
	if !finished || s.Stats().Misses != 1 {
		t.Log("Finished", finished, "Stats", s.Stats())
		t.Fail()
	}
	if err := s.Close(); nil != err {
		t.Fatal(err)
	}
	if err := s.Start(0); err != ErrClosed {
		t.Log("started a closed session")
		t.Fail()
	}
}

func TestSessionFinishesAfterSongEnds(t *testing.T) {
	mt := clock.NewManualTime(time.Unix(0, 0))
	song := &shortSong{WallClock: clock.NewWallClock(mt), end: 6}
	s := newSessionWith(t, clock.NewFallback(song, clock.NewWallClock(mt)), game.Note{Time: 8, Lane: 1})
	s.Start(0)

	mt.Advance(5 * time.Second)
	if snap, finished := s.Frame(); finished || !near(snap.Time, 5) {
		t.Log("Time", snap.Time, "Finished", finished)
		t.Fail()
	}
	mt.Advance(time.Second)
	if snap, finished := s.Frame(); finished || !near(snap.Time, 5) {
		t.Log("song time moved back or jumped", snap.Time)
		t.Fail()
	}
	mt.Advance(6 * time.Second)
	snap, finished := s.Frame()
	if !finished || !snap.Finished || s.Stats().Misses != 1 {
		t.Log("Time", snap.Time, "Finished", finished, "Stats", s.Stats())
		t.Fail()
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConcurrentPush(t *testing.T) {
	s, mt := newSession(t, game.Note{Time: 1, Lane: 0})
	s.Start(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Push(game.Input{Kind: game.LaneReleased, Lane: 4})
			}
		}()
	}
	for i := 0; i < 10; i++ {
		mt.Advance(10 * time.Millisecond)
		s.Frame()
	}
	wg.Wait()
	s.Frame()
	if s.Stats().Misses != 0 {
		t.Log("releases counted as misses", s.Stats())
		t.Fail()
	}
}

func TestQuit(t *testing.T) {
	s, mt := newSession(t, game.Note{Time: 1, Lane: 0})
	s.Start(0)
	mt.Advance(500 * time.Millisecond)
	s.Push(game.Input{Kind: game.Quit})
	snap, finished := s.Frame()
	if !finished || !s.Cancelled() || snap.Finished {
		t.Log("Finished", finished, "Cancelled", s.Cancelled(), "Engine finished", snap.Finished)
		t.Fail()
	}
}
