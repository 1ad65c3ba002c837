package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"git.lost.host/meutraa/strum/internal/config"
	"git.lost.host/meutraa/strum/internal/game"
	"git.lost.host/meutraa/strum/internal/history"
	"git.lost.host/meutraa/strum/internal/midi"
	"git.lost.host/meutraa/strum/internal/song"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

func main() {
	command, err := config.Parse(os.Args[1:])
	if nil != err {
		log.Fatalln(err)
	}
	switch command {
	case config.PlayCommand:
		err = play(*config.Directory)
	case config.ListCommand:
		err = list(*config.Library)
	case config.InfoCommand:
		err = info(*config.SongInfo)
	}
	if nil != err {
		log.Fatalln(err)
	}
}

func formatSeconds(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

func play(dir string) error {
	p := &Program{}
	if err := p.Init(dir); nil != err {
		return err
	}
	defer p.Deinit()
	return p.Run()
}

// hardest returns the hardest difficulty of the first instrument, if any.
func hardest(s *song.Song) (string, game.Difficulty, bool) {
	for _, in := range s.Instruments() {
		if ds := s.Difficulties(in.ID); len(ds) > 0 {
			return in.ID, ds[len(ds)-1], true
		}
	}
	return "", 0, false
}

func list(library string) error {
	songs, failures := song.Scan(library, *config.Jobs, midi.WithMinimumSustain(*config.MinSustain))
	for _, err := range failures {
		log.Println("skipping", err)
	}
	for _, s := range songs {
		m := s.Metadata()
		length := ""
		difficulties := []string{}
		if instrument, d, ok := hardest(s); ok {
			if tl, err := s.Timeline(d, instrument); nil == err {
				m = tl.Metadata
				length = formatSeconds(m.Duration)
			}
			for _, d := range s.Difficulties(instrument) {
				difficulties = append(difficulties, d.String()[:1])
			}
		}
		fmt.Printf("%v  %-32v  %-24v  %8v  %v\n", m.Stars(), m.Name, m.Artist, length, strings.Join(difficulties, ""))
	}
	fmt.Printf("%v songs\n", humanize.Comma(int64(len(songs))))
	return nil
}

func info(dir string) error {
	s, err := song.Load(dir, midi.WithMinimumSustain(*config.MinSustain))
	if nil != err {
		return err
	}
	store, err := history.Open(*config.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	m := s.Metadata()
	fmt.Printf("%v - %v (%v)\n", m.Artist, m.Name, m.Charter)
	fmt.Printf("%v\n", m.Stars())
	for _, w := range s.Warnings {
		fmt.Printf("  line %v ignored: %v\n", w.Line, w.Text)
	}

	title := cases.Title(language.English)
	for _, in := range s.Instruments() {
		fmt.Printf("\n%v (%v)\n", in.Name, in.ID)
		for _, d := range s.Difficulties(in.ID) {
			tl, err := s.Timeline(d, in.ID)
			if nil != err {
				log.Println("unable to build", d, err)
				continue
			}
			best := "-"
			if r, ok, err := store.Best(s.Hash, in.ID, d); nil != err {
				log.Println("unable to load scores", err)
			} else if ok {
				best = fmt.Sprintf("%v (%v)", humanize.Comma(int64(r.Stats.Score)), humanize.Time(r.PlayedAt))
			}
			fmt.Printf("  %-8v %7v notes  %8v  %5.1f nps avg  %5.1f nps max  best %v\n",
				title.String(d.String()),
				humanize.Comma(int64(tl.TotalNotes)),
				formatSeconds(tl.Duration),
				tl.AverageNPS,
				tl.MaxNPS,
				best,
			)
		}
	}
	if s.AudioPath != "" {
		if fi, err := os.Stat(s.AudioPath); nil == err {
			fmt.Printf("\nAudio %v (%v)\n", strings.TrimPrefix(s.AudioPath, dir+string(os.PathSeparator)), humanize.Bytes(uint64(fi.Size())))
		}
	}
	return nil
}
