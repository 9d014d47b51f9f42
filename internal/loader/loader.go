package loader

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/parser"
)

// AudioExtensions are picked up next to a chart that names no audio file
var AudioExtensions = []string{".ogg", ".mp3", ".wav"}

type Loader struct {
	Parser parser.Parser
	Log    *slog.Logger
}

func New(p parser.Parser) *Loader {
	return &Loader{Parser: p, Log: slog.Default()}
}

// Handle is a chart load in progress.
type Handle struct {
	path  string
	done  chan struct{}
	chart *game.Chart
	err   error
}

// BeginLoad starts reading the chart at path in the background.
func (l *Loader) BeginLoad(path string) *Handle {
	h := &Handle{path: path, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.chart, h.err = l.load(path)
	}()
	return h
}

// Poll never blocks. It returns nil, nil while the chart is still loading.
func (h *Handle) Poll() (*game.Chart, error) {
	select {
	case <-h.done:
		return h.chart, h.err
	default:
		return nil, nil
	}
}

// Wait blocks until the load has finished.
func (h *Handle) Wait() (*game.Chart, error) {
	<-h.done
	return h.chart, h.err
}

func (h *Handle) Path() string {
	return h.path
}

func (l *Loader) load(path string) (*game.Chart, error) {
	l.Log.Info("loading chart", "path", path)
	chart, err := l.Parser.Parse(path)
	if nil != err {
		return nil, err
	}
	if err := chart.Validate(); nil != err {
		var le *game.LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}

	audio, err := resolveAudio(filepath.Dir(path), chart.AudioFilename)
	if nil != err {
		return nil, &game.LoadError{Kind: game.ErrLoadIO, Path: path, Err: err}
	}
	if audio == "" {
		l.Log.Warn("no audio file found", "chart", path)
	}
	chart.AudioFilename = audio
	l.Log.Info("chart ready", "title", chart.Title, "notes", len(chart.Notes), "audio", audio)
	return chart, nil
}

// resolveAudio finds the audio file of a chart in dir. A named file must exist,
// otherwise the first audio file in the directory is used.
func resolveAudio(dir, name string) (string, error) {
	if name != "" {
		p := name
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, name)
		}
		if _, err := os.Stat(p); nil != err {
			return "", err
		}
		return p, nil
	}

	found := ""
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if nil != err {
			return err
		}
		if d.IsDir() {
			if p != dir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		for _, e := range AudioExtensions {
			if ext == e {
				found = p
				return filepath.SkipAll
			}
		}
		return nil
	})
	if nil != err {
		return "", err
	}
	return found, nil
}
