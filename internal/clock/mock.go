package clock

import (
	"sync"
	"time"
)

// ManualTime is a TimeProvider that only moves when told to.
type ManualTime struct {
	mu      sync.RWMutex
	current time.Time
}

// NewManualTime creates a provider starting at start.
func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{current: start}
}

func (m *ManualTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Advance moves the time forward by d.
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
