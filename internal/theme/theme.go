// Package theme decides how notes and judgements look on a terminal.
package theme

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/strum/internal/game"
)

type Theme interface {
	LaneColor(lane uint8) color.RGBA
	RenderNote(lane uint8, state game.NoteState) string
	RenderTail(lane uint8, held bool) string
	RenderHitField(lane uint8, held bool) string
	RenderJudgement(j game.Judgement) string
}

type DefaultTheme struct{}

const (
	noteSym = "⬤"
	tailSym = "┃"
	barSym  = "◯"
	heldSym = "◉"
)

var (
	laneColors = [game.Lanes]color.RGBA{
		{0, 190, 60, 255},  // green
		{236, 30, 0, 255},  // red
		{236, 195, 0, 255}, // yellow
		{0, 118, 236, 255}, // blue
		{236, 128, 0, 255}, // orange
	}
	judgementNames = [...]string{
		"\033[1;36mPerfect\033[0m",
		"   \033[1;32mGood\033[0m",
		"     \033[1;33mOk\033[0m",
		"   \033[1;31mMiss\033[0m",
	}
	white = color.RGBA{255, 255, 255, 255}
	grey  = color.RGBA{106, 106, 106, 255}
)

func paint(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

func (t *DefaultTheme) LaneColor(lane uint8) color.RGBA {
	if int(lane) < len(laneColors) {
		return laneColors[lane]
	}
	return white
}

func (t *DefaultTheme) RenderNote(lane uint8, state game.NoteState) string {
	if state == game.SustainActive {
		return paint(white, noteSym)
	}
	return paint(t.LaneColor(lane), noteSym)
}

func (t *DefaultTheme) RenderTail(lane uint8, held bool) string {
	if held {
		return paint(white, tailSym)
	}
	return paint(t.LaneColor(lane), tailSym)
}

func (t *DefaultTheme) RenderHitField(lane uint8, held bool) string {
	if held {
		return paint(t.LaneColor(lane), heldSym)
	}
	return paint(grey, barSym)
}

func (t *DefaultTheme) RenderJudgement(j game.Judgement) string {
	if int(j) < len(judgementNames) {
		return judgementNames[j]
	}
	return ""
}
