package render

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/score"
	"git.lost.host/meutraa/strum/internal/theme"
)

// Playfield maps engine screen positions onto terminal cells.
type Playfield struct {
	Rows, Columns int
	top, hitRow   int
	cols          [game.Lanes]int
	side          int
}

// NewPlayfield lays out lanes centred in a terminal of the given size with
// the hit bar barRow rows above the bottom.
func NewPlayfield(columns, rows, spacing, barRow int) Playfield {
	p := Playfield{Rows: rows, Columns: columns, top: 1, hitRow: rows - barRow}
	if p.hitRow <= p.top {
		p.hitRow = rows
	}
	mid := columns / 2
	for i := range p.cols {
		p.cols[i] = mid + (i-game.Lanes/2)*spacing
	}
	p.side = p.cols[0] - 36
	if p.side < 2 {
		p.side = 2
	}
	return p
}

// Row returns the terminal row of a screen position, where hitLine is the
// position of the hit bar.
func (p Playfield) Row(position, hitLine float64) int {
	return p.top + int(math.Round(position/hitLine*float64(p.hitRow-p.top)))
}

// Column returns the terminal column of a lane.
func (p Playfield) Column(lane uint8) int {
	return p.cols[lane]
}

func (p Playfield) visible(row int) bool {
	return row >= p.top && row <= p.Rows
}

func (p Playfield) clear(r Renderer) {
	for row := p.top; row <= p.Rows; row++ {
		for _, col := range p.cols {
			r.Fill(uint16(row), uint16(col), " ")
		}
	}
}

// Draw renders one snapshot.
func (p Playfield) Draw(r Renderer, th theme.Theme, snap score.Snapshot, meta game.Metadata) {
	p.clear(r)

	for _, n := range snap.Notes {
		col := uint16(p.Column(n.Lane))
		head := p.Row(n.Position, snap.HitLine)
		if n.Tail != n.Position {
			tail := p.Row(n.Tail, snap.HitLine)
			if tail < p.top {
				tail = p.top
			}
			end := head
			if n.State == game.SustainActive {
				end = p.hitRow
			}
			for row := tail; row < end; row++ {
				if p.visible(row) {
					r.Fill(uint16(row), col, th.RenderTail(n.Lane, snap.Held[n.Lane]))
				}
			}
		}
		if n.State == game.Spawned && p.visible(head) {
			r.Fill(uint16(head), col, th.RenderNote(n.Lane, n.State))
		}
	}

	for lane := uint8(0); lane < game.Lanes; lane++ {
		r.Fill(uint16(p.hitRow), uint16(p.Column(lane)), th.RenderHitField(lane, snap.Held[lane]))
	}

	s := snap.Stats
	side := uint16(p.side)
	r.Fill(2, side, fmt.Sprintf("%v - %v", meta.Artist, meta.Name))
	r.Fill(3, side, fmt.Sprintf("%v  %5.1fs / %5.1fs", meta.Stars(), snap.Time, meta.Duration))
	r.Fill(10, side, fmt.Sprintf("      Score:  %8v", s.Score))
	r.Fill(11, side, fmt.Sprintf("      Combo:  %8v", s.Combo))
	r.Fill(12, side, fmt.Sprintf("  Max Combo:  %8v", s.MaxCombo))
	r.Fill(13, side, fmt.Sprintf("   Accuracy:  %7.2f%%", 100*s.Accuracy()))
	counts := [...]uint32{s.Perfects, s.Goods, s.Oks, s.Misses}
	for i, count := range counts {
		r.Fill(uint16(15+i), side, fmt.Sprintf("    %v:  %8v", th.RenderJudgement(game.Judgement(i)), count))
	}
	r.Fill(20, side, fmt.Sprintf("    Sustain:  %3v / %3v", s.SustainsComplete, s.SustainsHit))
}
