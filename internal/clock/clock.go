// Package clock provides the song time a session is judged against.
package clock

import "time"

// MaxOffset bounds the calibration offset applied to any source.
const MaxOffset = 200 * time.Millisecond

// Source is a song clock. Seconds reports false until the clock has been
// started with Play.
type Source interface {
	Seconds() (float64, bool)
	Play(from float64) error
	Pause()
	Resume()
	Close() error
}

// TimeProvider supplies real time to a WallClock.
type TimeProvider interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time {
	return time.Now()
}

// SystemTime returns the provider backed by time.Now.
func SystemTime() TimeProvider {
	return systemTime{}
}

// ClampOffset limits an offset to MaxOffset either side of zero.
func ClampOffset(offset time.Duration) time.Duration {
	if offset > MaxOffset {
		return MaxOffset
	}
	if offset < -MaxOffset {
		return -MaxOffset
	}
	return offset
}

// Calibrated shifts another source by a fixed offset.
type Calibrated struct {
	Source
	offset float64
}

// NewCalibrated wraps src so Seconds is shifted by the clamped offset.
func NewCalibrated(src Source, offset time.Duration) *Calibrated {
	return &Calibrated{Source: src, offset: ClampOffset(offset).Seconds()}
}

// Offset returns the applied offset.
func (c *Calibrated) Offset() time.Duration {
	return time.Duration(c.offset * float64(time.Second))
}

func (c *Calibrated) Seconds() (float64, bool) {
	s, ok := c.Source.Seconds()
	if !ok {
		return 0, false
	}
	return s + c.offset, true
}
