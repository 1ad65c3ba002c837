// Package session binds a timeline, a judgement engine and a clock for one
// play through of a song.
package session

import (
	"sync"

	"git.lost.host/meutraa/strum/internal/clock"
	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/score"
	"github.com/pkg/errors"
)

// ErrClosed is returned when a closed session is used.
var ErrClosed = errors.New("session closed")

// Session queues input from any goroutine and applies it at the start of
// the next frame. Frame must only be called from the render loop.
type Session struct {
	mu        sync.Mutex
	queue     []game.Input
	paused    bool
	cancelled bool

	engine *score.Engine
	clock  clock.Source
	last   float64
	closed bool
}

// New creates a session. The session owns src and closes it with Close.
func New(tl *game.Timeline, config score.Config, src clock.Source) (*Session, error) {
	engine, err := score.New(tl, config)
	if nil != err {
		return nil, err
	}
	return &Session{engine: engine, clock: src}, nil
}

// Start begins playback from a song time in seconds.
func (s *Session) Start(from float64) error {
	if s.closed {
		return ErrClosed
	}
	s.last = from
	return s.clock.Play(from)
}

// Push queues an input for the next frame.
func (s *Session) Push(in game.Input) {
	s.mu.Lock()
	s.queue = append(s.queue, in)
	s.mu.Unlock()
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Session) drain() []game.Input {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted := s.queue[:0:0]
	for _, in := range s.queue {
		switch in.Kind {
		case game.PauseToggled:
			s.paused = !s.paused
			if s.paused {
				s.clock.Pause()
			} else {
				s.clock.Resume()
			}
		case game.Quit:
			s.cancelled = true
		case game.LanePressed:
			if !s.paused {
				accepted = append(accepted, in)
			}
		default:
			accepted = append(accepted, in)
		}
	}
	s.queue = s.queue[:0]
	return accepted
}

// Frame applies queued input and advances the engine to the clock. It
// returns the render state and whether the song has ended.
func (s *Session) Frame() (score.Snapshot, bool) {
	if s.closed {
		return score.Snapshot{Finished: true}, true
	}
	inputs := s.drain()
	if s.Cancelled() {
		return s.engine.Snapshot(), true
	}

	now, ok := s.clock.Seconds()
	if !ok {
		return s.engine.Snapshot(), false
	}
	delta := now - s.last
	if delta < 0 {
		delta = 0
	}
	s.last = now
	finished := s.engine.Frame(now, delta, inputs)
	return s.engine.Snapshot(), finished
}

// Cancelled reports whether the player quit before the end of the song.
func (s *Session) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Stats returns the current totals.
func (s *Session) Stats() game.Stats {
	return s.engine.Stats()
}

// Close stops the clock and discards all note state.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.mu.Lock()
	s.queue = nil
	s.mu.Unlock()
	return s.clock.Close()
}
