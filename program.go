package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"git.lost.host/meutraa/keyfall/internal/audio"
	"git.lost.host/meutraa/keyfall/internal/config"
	"git.lost.host/meutraa/keyfall/internal/engine"
	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/history"
	"git.lost.host/meutraa/keyfall/internal/input"
	"git.lost.host/meutraa/keyfall/internal/loader"
	"git.lost.host/meutraa/keyfall/internal/parser"
	"git.lost.host/meutraa/keyfall/internal/render"
	"git.lost.host/meutraa/keyfall/internal/theme"
)

const (
	columnSpacing   = 6
	sideWidth       = 36
	judgementLength = 300 * time.Millisecond
	// Time the last judgements stay on screen once the chart and song are over
	tail = 2 * time.Second
)

var errNoTerminal = errors.New("terminal is too small to draw the playfield")

// Player is the audio the program starts and waits for.
type Player interface {
	engine.Audio
	Playing() bool
	Close()
}

type Program struct {
	Config   *config.Config
	Log      *slog.Logger
	Renderer render.Renderer
	Theme    theme.Theme
	Recorder history.Recorder // nil when plays are not recorded

	input   *input.DefaultInput
	player  Player
	session *engine.Session
	proj    render.Projection
	sideCol int

	finishedAt time.Duration // Negative until the play is over

	// Stats for the current chart, offsets in ms
	totalHits             int
	sumOffset, sumSquares float64
	mean, stdev           float64
}

// Run plays the configured chart until it ends or the player quits.
func (p *Program) Run() error {
	cfg := p.Config
	p.finishedAt = -1

	in, err := input.Open(cfg.KeyLane, cfg.Hold)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	p.input = in
	defer func() {
		if err := in.Close(); nil != err {
			p.Log.Error("unable to close keyboard", "err", err)
		}
	}()

	player := audio.NewPlayer(p.Log)
	p.player = player
	defer player.Close()

	l := loader.New(&parser.DefaultParser{})
	l.Log = p.Log
	handle := l.BeginLoad(cfg.Chart)

	opts := cfg.SessionOptions()
	opts.Logger = p.Log
	p.session = engine.NewSession(opts, handle, p.player, p.input)

	if err := p.Renderer.Init(); nil != err {
		return fmt.Errorf("unable to set up terminal: %w", err)
	}
	loopErr := p.layout()
	if nil == loopErr {
		p.Renderer.RenderLoop(cfg.FramePeriod, func(now, elapsed time.Duration) bool {
			p.input.Poll(now)
			if p.input.Quit() {
				return false
			}
			if err := p.session.Tick(elapsed); nil != err {
				loopErr = err
				return false
			}
			p.collect()
			p.render()
			return !p.over(now)
		})
	}
	if err := p.Renderer.Deinit(); nil != err {
		p.Log.Error("unable to restore terminal", "err", err)
	}

	if nil != loopErr {
		return loopErr
	}
	if err := p.input.Err(); nil != err {
		return fmt.Errorf("keyboard failed: %w", err)
	}
	p.save()
	return nil
}

// over is true tail after every note is judged and the song has run out.
func (p *Program) over(now time.Duration) bool {
	if !p.session.Finished() || (nil != p.player && p.player.Playing()) {
		p.finishedAt = -1
		return false
	}
	if p.finishedAt < 0 {
		p.finishedAt = now
	}
	return now-p.finishedAt >= tail
}

func (p *Program) layout() error {
	rows, cols, err := p.Renderer.Size()
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}
	p.proj = render.Projection{
		Rows:          rows,
		Cols:          cols,
		BarRow:        int(p.Config.BarRow),
		UnitsPerRow:   p.Config.UnitsPerRow,
		ColumnSpacing: columnSpacing,
		Geometry:      p.Config.Geometry(),
	}
	if p.proj.HitRow() < 2 || cols < columnSpacing*game.NLanes {
		return errNoTerminal
	}
	p.sideCol = p.laneCol(game.Lane1) - sideWidth
	if p.sideCol < 2 {
		p.sideCol = 2
	}
	return nil
}

func (p *Program) laneCol(lane game.Lane) int {
	_, col := p.proj.Cell(p.proj.Geometry.LaneX(lane), 0)
	return col
}

// collect turns the judgements of the last tick into stats and decorations.
func (p *Program) collect() {
	judgements := p.session.Judgements()
	frames := int(judgementLength / p.Config.FramePeriod)
	row := p.proj.HitRow() - 3
	col := p.proj.MiddleCol() - 5

	for _, hit := range p.session.Hits() {
		p.Renderer.AddDecoration(row, col, p.Theme.RenderJudgement(hit.Judgement, judgements[hit.Judgement].Name), frames)

		ms := float64(hit.Offset) / float64(time.Millisecond)
		p.totalHits++
		p.sumOffset += ms
		p.sumSquares += ms * ms
		p.mean = p.sumOffset / float64(p.totalHits)
		if p.totalHits > 1 {
			n := float64(p.totalHits)
			p.stdev = math.Sqrt(math.Max(0, (p.sumSquares-n*p.mean*p.mean)/(n-1)))
		}
	}

	miss := len(judgements) - 1
	for _, note := range p.session.Missed() {
		p.Renderer.AddDecoration(row, col, p.Theme.RenderJudgement(miss, judgements[miss].Name), frames)
		lc := p.laneCol(note.Lane)
		p.Renderer.AddDecoration(p.proj.HitRow()-1, lc-1, "\033[1;31m╭", frames)
		p.Renderer.AddDecoration(p.proj.HitRow()-1, lc+1, "\033[1;31m╮", frames)
		p.Renderer.AddDecoration(p.proj.HitRow()+1, lc-1, "\033[1;31m╰", frames)
		p.Renderer.AddDecoration(p.proj.HitRow()+1, lc+1, "\033[1;31m╯\033[0m", frames)
	}
}

func (p *Program) render() {
	r, th, s := p.Renderer, p.Theme, p.session
	hitRow := p.proj.HitRow()

	// Hit bar and keys
	keys := s.Keys()
	for _, lane := range game.Lanes {
		col := p.laneCol(lane)
		r.Fill(hitRow+1, col, th.RenderHitField(lane))
		r.Fill(hitRow, col, th.RenderKey(lane.Skin(), keys[lane].Scale))
	}

	// Notes
	for _, pl := range s.Positions() {
		row, col := p.proj.Cell(pl.X, pl.Y)
		if !p.proj.Visible(row, col) {
			continue
		}
		r.FillColor(row, col, th.NoteColor(pl.Skin), th.RenderNote(pl.Skin))
	}

	switch s.State() {
	case engine.AwaitingChart:
		r.Fill(p.proj.Rows>>1, p.proj.MiddleCol()-5, "loading...")
	case engine.AudioCountdown:
		r.Fill(p.proj.Rows>>1, p.proj.MiddleCol()-2, fmt.Sprintf("%4.1f", s.Countdown().Seconds()))
	}

	if chart := s.Chart(); nil != chart {
		r.Fill(2, p.sideCol, chart.Title)
		r.Fill(3, p.sideCol, chart.Artist)
		r.Fill(13, p.sideCol, fmt.Sprintf("      Total:  %6v", chart.TapCount()))
	}
	r.Fill(10, p.sideCol, fmt.Sprintf("       Time:  %6.1f", s.ChartTime().Seconds()))
	r.Fill(11, p.sideCol, fmt.Sprintf("      Stdev:  %6.2f", p.stdev))
	r.Fill(12, p.sideCol, fmt.Sprintf("       Mean:  %6.2f", p.mean))
	counts := s.Counts()
	for i, judgement := range s.Judgements() {
		r.Fill(18+i, p.sideCol, fmt.Sprintf("%10v:  %6v", judgement.Name, counts[i]))
	}
}

func (p *Program) save() {
	s := p.session
	if nil == p.Recorder || nil == s.Chart() {
		return
	}
	if !s.Finished() {
		p.Log.Info("play abandoned, not recorded")
		return
	}
	play := &history.Play{
		LeadIn: p.Config.LeadIn,
		Counts: append([]int(nil), s.Counts()...),
		Inputs: append([]game.Input(nil), s.Inputs()...),
	}
	if err := p.Recorder.Save(s.Chart(), play); nil != err {
		p.Log.Error("unable to save play", "err", err)
		return
	}
	p.Log.Info("play saved", "id", play.ID, "counts", play.Counts)
}
