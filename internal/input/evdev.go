package input

import (
	"encoding/binary"
	"io"
	"log"
	"os"
	"syscall"

	"git.lost.host/meutraa/strum/internal/game"
	"github.com/pkg/errors"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey    = 0x01
	keyEsc   = 1
	keySpace = 57
)

var keyCodes = map[rune]uint16{
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38, ';': 39,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ',': 51, '.': 52, '/': 53,
	' ': keySpace,
}

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Evdev reads a Linux input device, which reports real key releases.
type Evdev struct {
	path  string
	codes map[uint16]game.Input
	file  *os.File
}

// NewEvdev creates a source reading the device at path, usually a file
// under /dev/input/by-id.
func NewEvdev(path string, keymap Keymap) (*Evdev, error) {
	e := &Evdev{path: path, codes: map[uint16]game.Input{}}
	for lane, r := range keymap.Keys() {
		code, ok := keyCodes[r]
		if !ok {
			return nil, errors.Errorf("%q has no key code", r)
		}
		e.codes[code] = game.Input{Lane: uint8(lane)}
	}
	e.codes[keyEsc] = game.Input{Kind: game.Quit}
	e.codes[keyCodes[QuitKey]] = game.Input{Kind: game.Quit}
	e.codes[keySpace] = game.Input{Kind: game.PauseToggled}
	return e, nil
}

func (e *Evdev) Start(push func(game.Input)) error {
	file, err := os.Open(e.path)
	if nil != err {
		return errors.Wrap(err, "unable to open input device")
	}
	e.file = file
	go func() {
		if err := e.read(file, push); nil != err {
			log.Println(err, "unable to read keyboard input")
		}
	}()
	return nil
}

// read forwards key events from r until it fails or ends.
func (e *Evdev) read(r io.Reader, push func(game.Input)) error {
	var ev keyEvent
	for {
		if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
		if ev.Type != evKey {
			continue
		}
		in, ok := e.codes[ev.Code]
		if !ok {
			continue
		}
		switch {
		case in.Kind != game.LanePressed:
			// Controls fire on press only
			if ev.Value == 1 {
				push(in)
			}
		case ev.Value == 1:
			push(in)
		case ev.Value == 0:
			push(game.Input{Kind: game.LaneReleased, Lane: in.Lane})
		}
	}
}

func (e *Evdev) Close() error {
	if nil == e.file {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return errors.WithStack(err)
}
