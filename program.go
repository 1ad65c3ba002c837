package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"git.lost.host/meutraa/strum/internal/clock"
	"git.lost.host/meutraa/strum/internal/config"
	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/history"
	"git.lost.host/meutraa/strum/internal/input"
	"git.lost.host/meutraa/strum/internal/midi"
	"git.lost.host/meutraa/strum/internal/render"
	"git.lost.host/meutraa/strum/internal/session"
	"git.lost.host/meutraa/strum/internal/song"
	"git.lost.host/meutraa/strum/internal/theme"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

type Program struct {
	Renderer *render.DefaultRenderer
	Theme    *theme.DefaultTheme

	song       *song.Song
	instrument string
	difficulty game.Difficulty
	timeline   *game.Timeline

	store   *history.Store
	session *session.Session
	source  input.Source
	field   render.Playfield
	last    game.Stats
}

func (p *Program) Init(dir string) error {
	// Ensure our Default implementations are used as interfaces
	var _ render.Renderer = &render.DefaultRenderer{}
	var _ theme.Theme = &theme.DefaultTheme{}
	p.Renderer = &render.DefaultRenderer{FramePeriod: *config.FramePeriod}
	p.Theme = &theme.DefaultTheme{}

	var err error
	p.song, err = song.Load(dir, midi.WithMinimumSustain(*config.MinSustain))
	if nil != err {
		return err
	}
	for _, w := range p.song.Warnings {
		log.Printf("%v:%v ignored %q\n", p.song.ChartPath, w.Line, w.Text)
	}

	p.instrument = *config.Instrument
	if len(p.song.Difficulties(p.instrument)) == 0 {
		instruments := p.song.Instruments()
		if len(instruments) == 0 {
			return errors.Wrap(game.ErrNoNotes, dir)
		}
		log.Printf("no %v part, playing %v\n", p.instrument, instruments[0].Name)
		p.instrument = instruments[0].ID
	}
	difficulties := p.song.Difficulties(p.instrument)
	if len(difficulties) == 0 {
		return errors.Wrap(game.ErrNoNotes, p.instrument)
	}
	difficulty := difficulties[len(difficulties)-1]
	if d, ok := config.ParseDifficulty(); ok {
		difficulty = d
	}

	p.store, err = history.Open(*config.Database)
	if nil != err {
		return err
	}

	keymap, err := input.NewKeymap(*config.Keys)
	if nil != err {
		return err
	}
	if *config.Device != "" {
		p.source, err = input.NewEvdev(*config.Device, keymap)
		if nil != err {
			return err
		}
	} else {
		p.source = input.NewTerminal(keymap, *config.HoldTimeout, *config.RepeatGap)
	}

	columns, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err {
		return errors.Wrap(err, "unable to get terminal size")
	}
	p.field = render.NewPlayfield(columns, rows, int(*config.Spacing), int(*config.BarRow))

	return p.SetDifficulty(difficulty)
}

// SetDifficulty rebuilds the timeline and session for a difficulty.
func (p *Program) SetDifficulty(d game.Difficulty) error {
	tl, err := p.song.Timeline(d, p.instrument)
	if nil != err {
		return errors.Wrapf(err, "unable to build %v", d)
	}
	if nil != p.session {
		p.session.Close()
		p.session = nil
	}

	var audio clock.Source
	if p.song.AudioPath != "" {
		a, err := clock.OpenAudio(p.song.AudioPath, *config.Rate)
		if nil != err {
			log.Println("playing without audio:", err)
		} else {
			audio = a
		}
	}
	wall := clock.NewWallClock(nil)
	wall.SetRate(*config.Rate)
	src := clock.NewCalibrated(clock.NewFallback(audio, wall), *config.Offset)

	s, err := session.New(tl, config.Engine(), src)
	if nil != err {
		src.Close()
		return err
	}
	p.difficulty = d
	p.timeline = tl
	p.session = s
	p.last = game.Stats{}
	return nil
}

// decorate flashes the grade of any judgement made since the last frame.
func (p *Program) decorate(stats game.Stats) {
	grades := [...]struct {
		judgement game.Judgement
		now, was  uint32
	}{
		{game.Perfect, stats.Perfects, p.last.Perfects},
		{game.Good, stats.Goods, p.last.Goods},
		{game.Ok, stats.Oks, p.last.Oks},
		{game.Miss, stats.Misses, p.last.Misses},
	}
	for _, g := range grades {
		if g.now > g.was {
			col := uint16(p.field.Column(game.Lanes/2) - 3)
			row := uint16(p.field.Rows / 2)
			p.Renderer.AddDecoration(col, row, p.Theme.RenderJudgement(g.judgement), 60)
		}
	}
	p.last = stats
}

func (p *Program) Run() error {
	if err := p.Renderer.Init(); nil != err {
		return err
	}
	restored := false
	restore := func() {
		if !restored {
			restored = true
			if err := p.Renderer.Deinit(); nil != err {
				log.Println("unable to restore terminal", err)
			}
		}
	}
	defer restore()

	if err := p.source.Start(p.session.Push); nil != err {
		return err
	}

	started := false
	var runErr error
	p.Renderer.RenderLoop(config.Start(), func(duration time.Duration) bool {
		if duration < 0 {
			p.Renderer.Fill(uint16(p.field.Rows/2), uint16(p.field.Column(0)), fmt.Sprintf("%.1f", -duration.Seconds()))
			return true
		}
		if !started {
			started = true
			if err := p.session.Start(0); nil != err {
				runErr = err
				return false
			}
		}
		snap, finished := p.session.Frame()
		p.decorate(snap.Stats)
		p.field.Draw(p.Renderer, p.Theme, snap, p.timeline.Metadata)
		return !finished
	})
	restore()
	if nil != runErr {
		return runErr
	}
	if p.session.Cancelled() {
		return nil
	}
	return p.finish(p.session.Stats())
}

func (p *Program) finish(stats game.Stats) error {
	best, hadBest, err := p.store.Best(p.song.Hash, p.instrument, p.difficulty)
	if nil != err {
		log.Println("unable to load scores", err)
	}
	if err := p.store.Save(history.Record{
		Hash:       p.song.Hash,
		Instrument: p.instrument,
		Difficulty: p.difficulty,
		Rate:       *config.Rate,
		PlayedAt:   time.Now(),
		Stats:      stats,
	}); nil != err {
		return err
	}

	m := p.timeline.Metadata
	fmt.Printf("%v - %v (%v)\n", m.Artist, m.Name, p.difficulty)
	fmt.Printf("      Score:  %v\n", humanize.Comma(int64(stats.Score)))
	fmt.Printf("  Max Combo:  %v / %v\n", stats.MaxCombo, m.TotalNotes)
	fmt.Printf("   Accuracy:  %.2f%%\n", 100*stats.Accuracy())
	fmt.Printf("    Sustain:  %v / %v\n", stats.SustainsComplete, stats.SustainsHit)
	if hadBest && stats.Score > best.Stats.Score {
		fmt.Printf("New best, beating %v from %v\n", humanize.Comma(int64(best.Stats.Score)), humanize.Time(best.PlayedAt))
	}
	return nil
}

func (p *Program) Deinit() {
	if nil != p.source {
		if err := p.source.Close(); nil != err {
			log.Println("unable to close input", err)
		}
	}
	if nil != p.session {
		if err := p.session.Close(); nil != err {
			log.Println("unable to close session", err)
		}
	}
	if nil != p.store {
		p.store.Close()
	}
}
