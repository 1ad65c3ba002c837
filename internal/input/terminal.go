package input

import (
	"log"
	"sync"
	"time"

	"git.lost.host/meutraa/strum/internal/game"
	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
)

// Terminal reads keys from the controlling terminal. Terminals do not
// report key releases, so a lane is released once its key stops repeating
// for the hold timeout.
type Terminal struct {
	keymap Keymap
	holds  holds
	done   chan struct{}
	wg     sync.WaitGroup
}

const (
	// DefaultHoldTimeout is longer than the usual key repeat delay.
	DefaultHoldTimeout = 550 * time.Millisecond
	// DefaultRepeatGap is longer than the usual key repeat interval.
	DefaultRepeatGap = 100 * time.Millisecond
)

// NewTerminal creates a terminal source.
func NewTerminal(keymap Keymap, holdTimeout, repeatGap time.Duration) *Terminal {
	if holdTimeout <= 0 {
		holdTimeout = DefaultHoldTimeout
	}
	if repeatGap <= 0 {
		repeatGap = DefaultRepeatGap
	}
	return &Terminal{keymap: keymap, holds: holds{timeout: holdTimeout, repeat: repeatGap}}
}

func (t *Terminal) Start(push func(game.Input)) error {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return errors.Wrap(err, "unable to open keyboard")
	}
	t.done = make(chan struct{})
	t.wg.Add(1)
	go t.run(keys, push)
	return nil
}

func (t *Terminal) run(keys <-chan keyboard.KeyEvent, push func(game.Input)) {
	defer t.wg.Done()
	ticker := time.NewTicker(t.holds.timeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case now := <-ticker.C:
			for _, lane := range t.holds.expire(now) {
				push(game.Input{Kind: game.LaneReleased, Lane: lane})
			}
		case key, ok := <-keys:
			if !ok {
				return
			}
			if nil != key.Err {
				log.Println("unable to read keyboard input", key.Err)
				continue
			}
			t.key(key, time.Now(), push)
		}
	}
}

func (t *Terminal) key(key keyboard.KeyEvent, now time.Time, push func(game.Input)) {
	r := key.Rune
	switch key.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		r = QuitKey
	case keyboard.KeySpace:
		r = PauseKey
	}
	if in, ok := Control(r); ok {
		push(in)
		return
	}
	lane, ok := t.keymap.Lane(r)
	if !ok {
		return
	}
	release, pressed := t.holds.press(lane, now)
	if release {
		push(game.Input{Kind: game.LaneReleased, Lane: lane})
	}
	if pressed {
		push(game.Input{Kind: game.LanePressed, Lane: lane})
	}
}

func (t *Terminal) Close() error {
	if nil == t.done {
		return nil
	}
	close(t.done)
	t.wg.Wait()
	t.done = nil
	return errors.WithStack(keyboard.Close())
}
