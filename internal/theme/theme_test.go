package theme

import (
	"strings"
	"testing"

	"git.lost.host/meutraa/strum/internal/game"
)

func TestRenderNote(t *testing.T) {
	th := &DefaultTheme{}
	note := th.RenderNote(1, game.Spawned)
	if !strings.HasPrefix(note, "\033[38;2;236;30;0m") || !strings.Contains(note, noteSym) {
		t.Log("Note", note)
		t.Fail()
	}
	if th.RenderNote(1, game.SustainActive) == note {
		t.Log("held note drawn like a spawned one")
		t.Fail()
	}
	if th.LaneColor(9) != white {
		t.Log("unexpected colour for an unknown lane")
		t.Fail()
	}
	if !strings.Contains(th.RenderJudgement(game.Miss), "Miss") || th.RenderJudgement(9) != "" {
		t.Log("unexpected judgement names")
		t.Fail()
	}
}
