package clock

import (
	"log"

	"github.com/pkg/errors"
)

// Fallback reads a primary source, and a secondary one whenever the primary
// is unavailable. Both are driven together so they stay aligned. Once a
// started primary stops reporting time, as audio does at the end of its
// stream, the secondary takes over from the last primary time.
type Fallback struct {
	primary, secondary Source
	failed             bool
	live               bool // The primary has reported time since Play
	paused             bool
	last               float64
}

// NewFallback combines two sources. A nil primary uses only the secondary.
func NewFallback(primary, secondary Source) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, failed: nil == primary}
}

func (f *Fallback) Seconds() (float64, bool) {
	if !f.failed {
		if s, ok := f.primary.Seconds(); ok {
			f.live = true
			f.last = s
			return s, true
		}
		if f.live {
			f.handOver()
		}
	}
	return f.secondary.Seconds()
}

func (f *Fallback) handOver() {
	f.failed = true
	if err := f.secondary.Play(f.last); nil != err {
		log.Println("unable to continue on the wall clock:", err)
		return
	}
	if f.paused {
		f.secondary.Pause()
	}
}

func (f *Fallback) Play(from float64) error {
	f.live = false
	f.last = from
	if !f.failed {
		if err := f.primary.Play(from); nil != err {
			log.Println("falling back to the wall clock:", err)
			f.failed = true
		}
	}
	return f.secondary.Play(from)
}

func (f *Fallback) Pause() {
	f.paused = true
	if !f.failed {
		f.primary.Pause()
	}
	f.secondary.Pause()
}

func (f *Fallback) Resume() {
	f.paused = false
	if !f.failed {
		f.primary.Resume()
	}
	f.secondary.Resume()
}

func (f *Fallback) Close() error {
	var err error
	if nil != f.primary {
		err = f.primary.Close()
	}
	if serr := f.secondary.Close(); nil != serr && nil == err {
		err = serr
	}
	return errors.WithStack(err)
}
