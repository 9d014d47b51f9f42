package engine

import (
	"log/slog"
	"time"

	"git.lost.host/meutraa/keyfall/internal/game"
)

// ChartSource is a chart that is being loaded. Poll returns nil, nil until the
// chart is ready.
type ChartSource interface {
	Poll() (*game.Chart, error)
}

// Audio starts playback of a file and cleans up after itself.
type Audio interface {
	Play(filename string)
}

// Input reports whether the key of a lane is currently held.
type Input interface {
	IsHeld(lane game.Lane) bool
}

// PressCounter is implemented by inputs that see discrete key presses. Each
// press is judged, even one that arrives while the lane is still held.
type PressCounter interface {
	Presses(lane game.Lane) int
}

type State uint8

const (
	AwaitingChart State = iota
	NotesSpawned
	AudioCountdown
	Playing
)

func (s State) String() string {
	switch s {
	case AwaitingChart:
		return "awaiting chart"
	case NotesSpawned:
		return "notes spawned"
	case AudioCountdown:
		return "audio countdown"
	case Playing:
		return "playing"
	}
	return "unknown"
}

type Options struct {
	Geometry   Geometry
	LeadIn     time.Duration // Delay between spawning the notes and starting the audio
	Judgements []game.Judgement
	Logger     *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Geometry:   DefaultGeometry(),
		LeadIn:     2 * time.Second,
		Judgements: game.DefaultJudgements(),
	}
}

// Session is one play of one chart, from loading until the process stops.
type Session struct {
	opts   Options
	source ChartSource
	audio  Audio
	input  Input
	log    *slog.Logger

	state     State
	chart     *game.Chart
	audioFile string
	countdown time.Duration

	field *Field
	judge *Judge

	counts []int
	inputs []game.Input
	hits   []Hit
	missed []NoteInstance
}

func NewSession(opts Options, source ChartSource, audio Audio, input Input) *Session {
	if len(opts.Judgements) == 0 {
		opts.Judgements = game.DefaultJudgements()
	}
	log := opts.Logger
	if nil == log {
		log = slog.Default()
	}
	judge := NewJudge(opts.Judgements)
	return &Session{
		opts:   opts,
		source: source,
		audio:  audio,
		input:  input,
		log:    log,
		state:  AwaitingChart,
		field:  NewField(opts.Geometry, judge.Window()),
		judge:  judge,
		counts: make([]int, len(opts.Judgements)),
	}
}

// Tick runs one frame: advance the notes, evaluate the input, then step the
// state machine. Positions are derived afterwards by the renderer. The only
// error is a failed chart load, which ends the session.
func (s *Session) Tick(elapsed time.Duration) error {
	if elapsed < 0 {
		elapsed = 0
	}

	s.missed = s.missed[:0]
	if s.field.Spawned() {
		s.missed = append(s.missed, s.field.Advance(elapsed)...)
		s.counts[s.judge.MissIndex()] += len(s.missed)
	}

	s.hits = s.hits[:0]
	for _, lane := range s.judge.Update(s.input) {
		if !s.field.Spawned() {
			continue
		}
		s.inputs = append(s.inputs, game.Input{Lane: lane, HitTime: s.ChartTime()})
		if hit, ok := s.judge.Apply(s.field, lane); ok {
			s.counts[hit.Judgement]++
			s.hits = append(s.hits, hit)
		}
	}

	return s.step()
}

func (s *Session) step() error {
	switch s.state {
	case AwaitingChart:
		chart, err := s.source.Poll()
		if nil != err {
			return err
		}
		if nil == chart {
			s.log.Debug("still loading chart")
			return nil
		}
		n := s.field.SpawnAll(chart, s.opts.LeadIn)
		s.chart = chart
		s.audioFile = chart.AudioFilename
		s.log.Info("chart loaded", "title", chart.Title, "artist", chart.Artist, "notes", n)
		s.enter(NotesSpawned)
		fallthrough
	case NotesSpawned:
		s.enter(AudioCountdown)
		fallthrough
	case AudioCountdown:
		s.countdown = s.opts.LeadIn - s.field.Clock()
		if s.countdown > 0 {
			return nil
		}
		s.countdown = 0
		if s.audioFile == "" {
			s.log.Warn("chart has no audio file")
		} else if nil != s.audio {
			s.audio.Play(s.audioFile)
		}
		s.enter(Playing)
	case Playing:
	}
	return nil
}

func (s *Session) enter(state State) {
	s.log.Debug("session state", "from", s.state, "to", state)
	s.state = state
}

// Positions is the render view of the current tick.
func (s *Session) Positions() []Placement {
	return s.field.Positions()
}

func (s *Session) State() State {
	return s.state
}

// Countdown is the time left until the audio starts.
func (s *Session) Countdown() time.Duration {
	if s.state == AudioCountdown {
		return s.countdown
	}
	return 0
}

// ChartTime is the current position in the song, negative during the lead-in.
func (s *Session) ChartTime() time.Duration {
	return s.field.Clock() - s.opts.LeadIn
}

// Finished is true once the audio has started and no note is left to judge.
func (s *Session) Finished() bool {
	return s.state == Playing && s.field.Pending() == 0
}

func (s *Session) Chart() *game.Chart {
	return s.chart
}

func (s *Session) Field() *Field {
	return s.field
}

func (s *Session) Keys() [game.NLanes]KeyState {
	return s.judge.Keys()
}

func (s *Session) Judgements() []game.Judgement {
	return s.judge.Judgements()
}

// Counts holds the number of notes per judgement, misses last.
func (s *Session) Counts() []int {
	return s.counts
}

func (s *Session) Inputs() []game.Input {
	return s.inputs
}

// Hits are the notes consumed during the last tick.
func (s *Session) Hits() []Hit {
	return s.hits
}

// Missed are the notes whose grace ran out during the last tick.
func (s *Session) Missed() []NoteInstance {
	return s.missed
}
