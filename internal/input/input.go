// Package input turns keyboard events into lane input.
package input

import (
	"strings"

	"git.lost.host/meutraa/strum/internal/game"
	"github.com/pkg/errors"
)

// Source delivers input to push until closed.
type Source interface {
	Start(push func(game.Input)) error
	Close() error
}

const (
	PauseKey = ' '
	QuitKey  = 'q'
)

// Keymap maps keys to lanes.
type Keymap struct {
	lanes map[rune]uint8
}

// NewKeymap creates a keymap from one key per lane, in lane order.
func NewKeymap(keys string) (Keymap, error) {
	runes := []rune(strings.ToLower(keys))
	if len(runes) != game.Lanes {
		return Keymap{}, errors.Errorf("expected %d keys, got %q", game.Lanes, keys)
	}
	km := Keymap{lanes: make(map[rune]uint8, game.Lanes)}
	for i, r := range runes {
		if r == PauseKey || r == QuitKey {
			return Keymap{}, errors.Errorf("%q is reserved", r)
		}
		if _, ok := km.lanes[r]; ok {
			return Keymap{}, errors.Errorf("%q is used twice", r)
		}
		km.lanes[r] = uint8(i)
	}
	return km, nil
}

// Lane returns the lane of a key.
func (k Keymap) Lane(r rune) (uint8, bool) {
	lane, ok := k.lanes[r]
	return lane, ok
}

// Keys returns the lane keys in lane order.
func (k Keymap) Keys() []rune {
	keys := make([]rune, game.Lanes)
	for r, lane := range k.lanes {
		keys[lane] = r
	}
	return keys
}

// Control returns the input a non lane key triggers.
func Control(r rune) (game.Input, bool) {
	switch r {
	case PauseKey:
		return game.Input{Kind: game.PauseToggled}, true
	case QuitKey:
		return game.Input{Kind: game.Quit}, true
	}
	return game.Input{}, false
}
