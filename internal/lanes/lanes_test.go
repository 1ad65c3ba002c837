package lanes

import (
	"testing"

	"git.lost.host/meutraa/strum/internal/game"
)

func TestLane(t *testing.T) {
	tests := []struct {
		Family     Family
		Difficulty game.Difficulty
		Key        uint8
		Lane       uint8
		Ok         bool
	}{
		{GuitarLike, game.Easy, 60, 0, true},
		{GuitarLike, game.Easy, 64, 4, true},
		{GuitarLike, game.Easy, 65, 0, false},
		{GuitarLike, game.Expert, 96, 0, true},
		{GuitarLike, game.Expert, 98, 2, true},
		{GuitarLike, game.Expert, 95, 0, false},
		{GuitarLike, game.Hard, 86, 2, true},
		{DrumLike, game.Expert, 96, 4, true},
		{DrumLike, game.Expert, 97, 0, true},
		{DrumLike, game.Medium, 77, 0, false},
		{DrumLike, game.Medium, 72, 4, true},
	}
	for _, test := range tests {
		lane, ok := Lane(test.Family, test.Difficulty, test.Key)
		if ok != test.Ok || (ok && lane != test.Lane) {
			t.Log("    Test:", test)
			t.Log("     Got:", lane, ok)
			t.Fail()
		}
	}
}

func TestKeysRoundTrip(t *testing.T) {
	for _, family := range []Family{GuitarLike, DrumLike} {
		for _, d := range game.Difficulties {
			for lane, key := range Keys(family, d) {
				got, ok := Lane(family, d, key)
				if !ok || int(got) != lane {
					t.Fatalf("family %v %v key %d: lane %d, want %d", family, d, key, got, lane)
				}
			}
		}
	}
}

func TestLookup(t *testing.T) {
	if name, family, ok := Lookup("PART DRUMS"); !ok || name != "Drums" || family != DrumLike {
		t.Fatalf("PART DRUMS = %v %v %v", name, family, ok)
	}
	if name, family, ok := Lookup("TRACK 3"); !ok || name != "Track 3" || family != GuitarLike {
		t.Fatalf("TRACK 3 = %v %v %v", name, family, ok)
	}
	if _, _, ok := Lookup("PART VOCALS"); ok {
		t.Fatal("vocals have no lanes")
	}
}

type track struct {
	name string
	keys []uint8
}

func (t track) TrackName() string { return t.name }
func (t track) Keys() []uint8     { return t.keys }

func TestAvailable(t *testing.T) {
	tracks := []track{
		{"PART GUITAR", []uint8{12, 97}},
		{"PART BASS", []uint8{103, 116}},
		{"PART VOCALS", []uint8{60, 61}},
		{"PART DRUMS", []uint8{}},
		{"TRACK 5", []uint8{62}},
		{"PART GUITAR", []uint8{96}},
	}
	available := Available(tracks)
	expected := []game.Instrument{{ID: "PART GUITAR", Name: "Guitar"}, {ID: "TRACK 5", Name: "Track 5"}}
	if len(available) != len(expected) {
		t.Fatalf("available = %v, want %v", available, expected)
	}
	for i := range expected {
		if available[i] != expected[i] {
			t.Fatalf("available[%d] = %v, want %v", i, available[i], expected[i])
		}
	}
}
