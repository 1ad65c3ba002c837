package clock

import (
	"sync"
	"time"
)

// WallClock counts real time from Play, excluding any time spent paused.
type WallClock struct {
	mu       sync.RWMutex
	provider TimeProvider

	rate     float64 // Song seconds per real second
	started  bool
	from     float64
	origin   time.Time // Real time at which the clock read from, moved forward by pauses
	paused   bool
	pausedAt time.Time
}

// NewWallClock creates a clock reading time from provider, or the system
// clock if provider is nil.
func NewWallClock(provider TimeProvider) *WallClock {
	if nil == provider {
		provider = SystemTime()
	}
	return &WallClock{provider: provider, rate: 1}
}

// SetRate sets the playback speed, 1 being normal. Call it before Play.
func (w *WallClock) SetRate(rate float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if rate > 0 {
		w.rate = rate
	}
}

func (w *WallClock) Seconds() (float64, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.started {
		return 0, false
	}
	end := w.provider.Now()
	if w.paused {
		end = w.pausedAt
	}
	return w.from + end.Sub(w.origin).Seconds()*w.rate, true
}

func (w *WallClock) Play(from float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.started = true
	w.from = from
	w.origin = w.provider.Now()
	w.paused = false
	return nil
}

func (w *WallClock) Pause() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started || w.paused {
		return
	}
	w.paused = true
	w.pausedAt = w.provider.Now()
}

func (w *WallClock) Resume() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.paused {
		return
	}
	w.origin = w.origin.Add(w.provider.Now().Sub(w.pausedAt))
	w.paused = false
}

// Paused reports whether the clock is paused.
func (w *WallClock) Paused() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.paused
}

func (w *WallClock) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.started = false
	return nil
}
