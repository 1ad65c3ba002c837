package testdata

import (
	"bytes"
	"encoding/binary"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Pair is a note held on Key from Start for Length ticks.
type Pair struct {
	Key    uint8
	Start  uint32
	Length uint32
}

type pairEvent struct {
	tick  uint32
	order int // Offs sort before ons on the same tick, unless zero length
	msg   midi.Message
}

// MIDI encodes a format 1 file with a tempo track and a single named note
// track. Every other note off is written as a zero velocity note on.
func MIDI(resolution uint16, bpm float64, name string, pairs []Pair) ([]byte, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(bpm))
	conductor.Close(0)
	s.Tracks = append(s.Tracks, conductor)

	events := []pairEvent{}
	for i, p := range pairs {
		off := midi.NoteOff(0, p.Key)
		if i%2 == 1 {
			off = midi.NoteOn(0, p.Key, 0)
		}
		offOrder := 0
		if p.Length == 0 {
			offOrder = 2
		}
		events = append(events,
			pairEvent{tick: p.Start, order: 1, msg: midi.NoteOn(0, p.Key, 100)},
			pairEvent{tick: p.Start + p.Length, order: offOrder, msg: off},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick == events[j].tick {
			return events[i].order < events[j].order
		}
		return events[i].tick < events[j].tick
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	var last uint32
	for _, e := range events {
		track.Add(e.tick-last, e.msg)
		last = e.tick
	}
	track.Close(0)
	s.Tracks = append(s.Tracks, track)

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); nil != err {
		return nil, err
	}
	return buf.Bytes(), nil
}

// File assembles a header chunk and raw track chunk bodies.
func File(division uint16, tracks ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("MThd")
	binary.Write(&buf, binary.BigEndian, uint32(6))
	binary.Write(&buf, binary.BigEndian, uint16(1))
	binary.Write(&buf, binary.BigEndian, uint16(len(tracks)))
	binary.Write(&buf, binary.BigEndian, division)
	for _, t := range tracks {
		buf.WriteString("MTrk")
		binary.Write(&buf, binary.BigEndian, uint32(len(t)))
		buf.Write(t)
	}
	return buf.Bytes()
}

// RunningStatusTrack is a guitar track that leans on running status across
// a system exclusive block, closes a note on the tick it opened, repeats a
// note on without a note off and pads past its end of track event.
var RunningStatusTrack = []byte{
	0x00, 0xFF, 0x03, 0x0B, 'P', 'A', 'R', 'T', ' ', 'G', 'U', 'I', 'T', 'A', 'R',
	0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20, // 500000us per beat
	0x00, 0x90, 96, 100,
	0x00, 97, 100, // Running status note on
	0x60, 96, 0, // 96 ticks later, zero velocity
	0x00, 97, 0,
	0x00, 0xF0, 0x02, 0x01, 0xF7, // Does not reset running status
	0x00, 98, 100,
	0x00, 98, 0, // Same tick off
	0x83, 0x00, 0xB0, 0x07, 0x64, // Tick 480, control change
	0x00, 0x90, 99, 100,
	0x60, 99, 100, // Tick 576, second note on for 99
	0x30, 0xFF, 0x2F, 0x00, // Tick 624, end of track
	0x00, 0x00, 0x00,
}

// RunningStatusNotes are the expert guitar notes of RunningStatusTrack at a
// resolution of 192, as position, key and duration.
var RunningStatusNotes = [][3]uint32{
	{0, 96, 96},
	{0, 97, 96},
	{96, 98, 24},
	{480, 99, 96},
	{576, 99, 48},
}
