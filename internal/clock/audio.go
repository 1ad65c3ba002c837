package clock

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// ErrUnsupportedAudio is returned for audio files with an unknown extension.
var ErrUnsupportedAudio = errors.New("unsupported audio format")

// AudioClock plays a song file and reports the playback position.
type AudioClock struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	rate     float64
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	return nil, beep.Format{}, errors.Wrap(ErrUnsupportedAudio, path)
}

// OpenAudio decodes the audio at path. Playback speed is scaled by rate,
// a rate of 1 plays at normal speed.
func OpenAudio(path string, rate float64) (*AudioClock, error) {
	if rate <= 0 {
		rate = 1
	}
	f, err := os.Open(path)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open audio")
	}
	streamer, format, err := decode(path, f)
	if nil != err {
		f.Close()
		return nil, errors.Wrapf(err, "unable to decode %v", path)
	}
	return &AudioClock{streamer: streamer, format: format, rate: rate}, nil
}

// Length returns the duration of the audio.
func (a *AudioClock) Length() time.Duration {
	return a.format.SampleRate.D(a.streamer.Len())
}

func (a *AudioClock) Seconds() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if nil == a.ctrl {
		return 0, false
	}
	speaker.Lock()
	position, length := a.streamer.Position(), a.streamer.Len()
	speaker.Unlock()
	if position >= length {
		// The stream has run out and no longer tracks song time
		return 0, false
	}
	return a.format.SampleRate.D(position).Seconds(), true
}

func (a *AudioClock) Play(from float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rate := beep.SampleRate(float64(a.format.SampleRate) * a.rate)
	if err := speaker.Init(rate, a.format.SampleRate.N(time.Second/60)); nil != err {
		return errors.Wrap(err, "unable to open audio device")
	}
	if from < 0 {
		from = 0
	}
	position := a.format.SampleRate.N(time.Duration(from * float64(time.Second)))
	if position >= a.streamer.Len() {
		return errors.Errorf("cannot play from %.3fs, audio is %v long", from, a.Length())
	}
	if err := a.streamer.Seek(position); nil != err {
		return errors.Wrap(err, "unable to seek audio")
	}
	a.ctrl = &beep.Ctrl{Streamer: a.streamer}
	speaker.Play(a.ctrl)
	return nil
}

func (a *AudioClock) setPaused(paused bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if nil == a.ctrl {
		return
	}
	speaker.Lock()
	a.ctrl.Paused = paused
	speaker.Unlock()
}

func (a *AudioClock) Pause() {
	a.setPaused(true)
}

func (a *AudioClock) Resume() {
	a.setPaused(false)
}

func (a *AudioClock) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if nil != a.ctrl {
		speaker.Clear()
		a.ctrl = nil
	}
	return a.streamer.Close()
}
