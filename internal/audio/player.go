package audio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// DefaultPlayer plays whole audio files through the speaker. Each stream
// closes its file when it runs out.
type DefaultPlayer struct {
	Log *slog.Logger

	mu          sync.Mutex
	initialized bool
	rate        beep.SampleRate
	playing     []*beep.Ctrl
	active      atomic.Int32 // Streams that have not run out
}

func NewPlayer(log *slog.Logger) *DefaultPlayer {
	if nil == log {
		log = slog.Default()
	}
	return &DefaultPlayer{Log: log}
}

// Play starts the file and returns immediately. Failures are logged.
func (p *DefaultPlayer) Play(filename string) {
	if err := p.play(filename); nil != err {
		p.Log.Error("unable to play audio", "file", filename, "err", err)
	}
}

func (p *DefaultPlayer) play(filename string) error {
	streamer, format, err := Open(filename)
	if nil != err {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/60)); nil != err {
			streamer.Close()
			return fmt.Errorf("unable to open speaker: %w", err)
		}
		p.rate = format.SampleRate
		p.initialized = true
	}

	var s beep.Streamer = streamer
	if format.SampleRate != p.rate {
		s = beep.Resample(4, format.SampleRate, p.rate, streamer)
	}
	p.Log.Info("playing audio", "file", filename, "rate", format.SampleRate)
	ctrl := &beep.Ctrl{Streamer: p.track(s, func() {
		if err := streamer.Close(); nil != err {
			p.Log.Warn("unable to close audio", "file", filename, "err", err)
		}
	})}
	p.playing = append(p.playing, ctrl)
	speaker.Play(ctrl)
	return nil
}

// track counts s as playing until it runs out, then calls done. The callback
// runs on the speaker goroutine with the speaker locked, so it must not take mu.
func (p *DefaultPlayer) track(s beep.Streamer, done func()) beep.Streamer {
	p.active.Add(1)
	return beep.Seq(s, beep.Callback(func() {
		p.active.Add(-1)
		done()
	}))
}

// Playing is true while a started file has audio left.
func (p *DefaultPlayer) Playing() bool {
	return p.active.Load() > 0
}

// Close stops everything that is still playing.
func (p *DefaultPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	for _, ctrl := range p.playing {
		ctrl.Paused = true
	}
	speaker.Unlock()
	p.playing = nil
	p.active.Store(0)
}

// Open decodes an audio file by its extension.
func Open(filename string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(filename)
	if nil != err {
		return nil, beep.Format{}, err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("unsupported audio format %q", ext)
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}
