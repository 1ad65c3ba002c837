package song

import (
	"io/fs"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"git.lost.host/meutraa/strum/internal/midi"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
)

// ScanError records a song directory that failed to load.
type ScanError struct {
	Dir string
	Err error
}

func (e *ScanError) Error() string {
	return e.Dir + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

func songDirs(root string) ([]string, error) {
	seen := map[string]bool{}
	dirs := []string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if nil != err {
			log.Println("unable to walk", p, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".chart", ".mid", ".midi":
			dir := filepath.Dir(p)
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
		return nil
	})
	return dirs, errors.Wrap(err, "unable to walk library")
}

// Scan loads every song directory below root using up to jobs goroutines.
// Songs are sorted by name; directories that fail to load are returned as
// ScanErrors alongside them.
func Scan(root string, jobs int, opts ...midi.Option) ([]*Song, []error) {
	dirs, err := songDirs(root)
	if nil != err {
		return nil, []error{err}
	}
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	var mu sync.Mutex
	songs := []*Song{}
	failures := []error{}

	wg := sizedwaitgroup.New(jobs)
	for _, dir := range dirs {
		wg.Add()
		go func(dir string) {
			defer wg.Done()
			s, err := Load(dir, opts...)
			mu.Lock()
			defer mu.Unlock()
			if nil != err {
				failures = append(failures, &ScanError{Dir: dir, Err: err})
				return
			}
			songs = append(songs, s)
		}(dir)
	}
	wg.Wait()

	sort.Slice(songs, func(i, j int) bool {
		a, b := songs[i].Metadata(), songs[j].Metadata()
		if a.Name == b.Name {
			return songs[i].Dir < songs[j].Dir
		}
		return a.Name < b.Name
	})
	return songs, failures
}
