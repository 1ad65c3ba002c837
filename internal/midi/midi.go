// Package midi decodes standard MIDI files into tempo events and per track
// note events.
package midi

import (
	"fmt"

	"git.lost.host/meutraa/strum/internal/lanes"
	"git.lost.host/meutraa/strum/internal/tempo"
)

const (
	headerMagic  = "MThd"
	trackMagic   = "MTrk"
	headerLength = 6

	metaTrackName  = 0x03
	metaEndOfTrack = 0x2F
	metaSetTempo   = 0x51
)

// Event is a note on or note off.
type Event struct {
	Tick     uint32
	Key      uint8
	Velocity uint8
	On       bool // False for note off, including note on with zero velocity
}

// Track is one decoded track chunk.
type Track struct {
	Name     string
	Events   []Event
	LastTick uint32
}

// TrackName returns the track's instrument identity.
func (t Track) TrackName() string {
	return t.Name
}

// Keys returns the note numbers of every event in the track.
func (t Track) Keys() []uint8 {
	keys := make([]uint8, len(t.Events))
	for i, e := range t.Events {
		keys[i] = e.Key
	}
	return keys
}

// File is a decoded MIDI file.
type File struct {
	Format     uint16
	Resolution uint16 // Ticks per beat
	Tempo      []tempo.Event
	Tracks     []Track

	options options
}

type options struct {
	sustainDivisor uint32
}

// Option configures decoding.
type Option func(*options)

// WithMinimumSustain sets the length given to a note whose note off arrives
// on the same tick as its note on, as a fraction 1/divisor of a beat.
func WithMinimumSustain(divisor uint32) Option {
	return func(o *options) {
		if divisor > 0 {
			o.sustainDivisor = divisor
		}
	}
}

// Decode parses a whole MIDI file.
func Decode(data []byte, opts ...Option) (*File, error) {
	f := &File{options: options{sustainDivisor: 8}}
	for _, opt := range opts {
		opt(&f.options)
	}

	c := &cursor{data: data, end: len(data)}
	count, err := f.header(c)
	if nil != err {
		return nil, err
	}

	// Anything after the declared tracks is ignored
	for i := 0; i < int(count) && c.remaining() > 0; i++ {
		if err := f.track(c, i); nil != err {
			return nil, err
		}
	}
	return f, nil
}

// header reads the header chunk and returns the declared track count.
func (f *File) header(c *cursor) (uint16, error) {
	magic, err := c.bytes(4)
	if nil != err || string(magic) != headerMagic {
		return 0, &FormatError{Offset: 0, Reason: "missing header chunk"}
	}
	length, err := c.uint32()
	if nil != err {
		return 0, err
	}
	if length != headerLength {
		return 0, &FormatError{Offset: 4, Reason: fmt.Sprintf("header length %d", length)}
	}
	if f.Format, err = c.uint16(); nil != err {
		return 0, err
	}
	count, err := c.uint16()
	if nil != err {
		return 0, err
	}
	division, err := c.uint16()
	if nil != err {
		return 0, err
	}
	if division&0x8000 != 0 {
		return 0, &FormatError{Offset: 12, Reason: "frame based timing is not supported"}
	}
	if division == 0 {
		return 0, &FormatError{Offset: 12, Reason: "zero ticks per beat"}
	}
	f.Resolution = division
	return count, nil
}

// track decodes the chunk at the cursor and leaves the cursor at the
// chunk's declared end, whatever the events consumed.
func (f *File) track(c *cursor, index int) error {
	start := c.pos
	magic, err := c.bytes(4)
	if nil != err || string(magic) != trackMagic {
		return &FormatError{Offset: start, Reason: "missing track chunk"}
	}
	length, err := c.uint32()
	if nil != err {
		return err
	}
	end := c.pos + int(length)
	if int(length) > c.remaining() {
		return &FormatError{Offset: start, Reason: "track extends past end of file"}
	}

	t, err := f.events(&cursor{data: c.data, pos: c.pos, end: end})
	if nil != err {
		return err
	}
	if t.Name == "" && len(t.Events) > 0 {
		t.Name = fmt.Sprintf("%s%d", lanes.SyntheticPrefix, index)
	}
	f.Tracks = append(f.Tracks, t)

	c.pos = end
	return nil
}

func (f *File) events(c *cursor) (Track, error) {
	var t Track
	var tick uint32

	for c.remaining() > 0 {
		delta, err := c.varlen()
		if nil != err {
			return t, err
		}
		tick += delta
		t.LastTick = tick

		status, err := c.byte()
		if nil != err {
			return t, err
		}
		if status < 0x80 {
			if c.status == 0 {
				return t, c.fail("data byte without running status")
			}
			// Running status, the byte belongs to the previous event type
			c.pos--
			status = c.status
		}

		switch {
		case status == 0xFF:
			typ, err := c.byte()
			if nil != err {
				return t, err
			}
			length, err := c.varlen()
			if nil != err {
				return t, err
			}
			payload, err := c.bytes(int(length))
			if nil != err {
				return t, err
			}
			switch typ {
			case metaSetTempo:
				if len(payload) == 3 {
					micros := uint32(payload[0])<<16 | uint32(payload[1])<<8 | uint32(payload[2])
					f.Tempo = append(f.Tempo, tempo.FromMicros(tick, micros))
				}
			case metaTrackName:
				if len(payload) > 0 {
					t.Name = string(payload)
				}
			case metaEndOfTrack:
				return t, nil
			}

		case status == 0xF0 || status == 0xF7:
			length, err := c.varlen()
			if nil != err {
				return t, err
			}
			if err := c.skip(int(length)); nil != err {
				return t, err
			}

		case status > 0xF0:
			if err := c.skip(systemLength(status)); nil != err {
				return t, err
			}

		default:
			c.status = status
			switch status & 0xF0 {
			case 0x80, 0x90:
				data, err := c.bytes(2)
				if nil != err {
					return t, err
				}
				t.Events = append(t.Events, Event{
					Tick:     tick,
					Key:      data[0] & 0x7F,
					Velocity: data[1] & 0x7F,
					On:       status&0xF0 == 0x90 && data[1] > 0,
				})
			case 0xC0, 0xD0:
				if err := c.skip(1); nil != err {
					return t, err
				}
			default:
				if err := c.skip(2); nil != err {
					return t, err
				}
			}
		}
	}
	return t, nil
}

func systemLength(status byte) int {
	switch status {
	case 0xF2:
		return 2
	case 0xF1, 0xF3:
		return 1
	}
	return 0
}
