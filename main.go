package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"git.lost.host/meutraa/keyfall/internal/config"
	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/history"
	"git.lost.host/meutraa/keyfall/internal/parser"
	"git.lost.host/meutraa/keyfall/internal/render"
	"git.lost.host/meutraa/keyfall/internal/theme"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

// lockedBuffer holds the log output while the terminal is in raw mode.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.WriteTo(w)
}

// initLogger sets the default slog logger, which the log package also goes
// through.
func initLogger(debug bool, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func run(args []string) error {
	cfg, err := config.Parse(args)
	if nil != err {
		return err
	}

	// Logging to the terminal would tear the playfield, so a play without a
	// log file keeps the output until the terminal is restored.
	var out io.Writer = os.Stderr
	var held *lockedBuffer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if nil != err {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		defer f.Close()
		out = f
	} else if cfg.Command == config.CommandPlay {
		held = &lockedBuffer{}
		out = held
	}
	logger := initLogger(cfg.Debug, out)
	defer func() {
		if nil != held {
			held.WriteTo(os.Stderr)
		}
		initLogger(cfg.Debug, os.Stderr)
	}()
	logger.Debug("keyfall starting", "version", config.Version, "command", cfg.Command)

	switch cfg.Command {
	case config.CommandImport:
		return importMidi(cfg, logger)
	case config.CommandHistory:
		return showHistory(cfg, os.Stdout)
	}

	p := &Program{
		Config:   cfg,
		Log:      logger,
		Renderer: render.NewRenderer(),
		Theme:    &theme.DefaultTheme{},
	}
	if !cfg.NoHistory {
		recorder := &history.DefaultRecorder{}
		if err := recorder.Init(cfg.Database); nil != err {
			logger.Warn("play history disabled", "db", cfg.Database, "err", err)
		} else {
			defer recorder.Deinit()
			p.Recorder = recorder
		}
	}
	return p.Run()
}

func importMidi(cfg *config.Config, logger *slog.Logger) error {
	mp := parser.NewMidiParser()
	mp.Title = cfg.Title
	mp.Artist = cfg.Artist
	mp.Creator = cfg.Creator
	mp.Filename = cfg.AudioFile
	mp.Channel = cfg.Channel

	chart, err := mp.Parse(cfg.Midi)
	if nil != err {
		return err
	}
	if !parser.IsChart(cfg.Output) {
		return fmt.Errorf("output %v must end in one of %v", cfg.Output, strings.Join(parser.Extensions, ", "))
	}

	f, err := os.Create(cfg.Output)
	if nil != err {
		return fmt.Errorf("unable to create chart: %w", err)
	}
	defer f.Close()
	if err := parser.Encode(f, chart); nil != err {
		return fmt.Errorf("unable to write chart: %w", err)
	}
	logger.Info("chart written", "path", cfg.Output, "title", chart.Title, "notes", len(chart.Notes))
	return nil
}

func showHistory(cfg *config.Config, w io.Writer) error {
	p := &parser.DefaultParser{}
	chart, err := p.Parse(cfg.Chart)
	if nil != err {
		return err
	}

	recorder := &history.DefaultRecorder{}
	if err := recorder.Init(cfg.Database); nil != err {
		return fmt.Errorf("unable to open history: %w", err)
	}
	defer recorder.Deinit()

	plays, err := recorder.Load(chart)
	if nil != err {
		return err
	}
	fmt.Fprintf(w, "%v (%v notes)\n", displayTitle(chart, cfg.Chart), chart.TapCount())
	if len(plays) == 0 {
		fmt.Fprintln(w, "no plays recorded")
		return nil
	}
	for i, play := range plays {
		fmt.Fprintf(w, "%3v) %v  lead-in %-5v ", i, play.PlayedAt.Format("2006-01-02 15:04"), play.LeadIn)
		for j, judgement := range cfg.Judgements {
			if j < len(play.Counts) {
				fmt.Fprintf(w, " %v %v", judgement.Name, play.Counts[j])
			}
		}
		fmt.Fprintf(w, "  inputs %v\n", len(play.Inputs))
	}
	return nil
}

func displayTitle(chart *game.Chart, path string) string {
	if chart.Title != "" {
		return chart.Title
	}
	return filepath.Base(path)
}
