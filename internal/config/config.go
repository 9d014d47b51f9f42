package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"git.lost.host/meutraa/keyfall/internal/engine"
	"git.lost.host/meutraa/keyfall/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

const (
	CommandPlay    = "play"
	CommandImport  = "import"
	CommandHistory = "history"
)

type Config struct {
	Command string

	// play
	Chart       string
	LeadIn      time.Duration
	ScrollSpeed float64
	HitLine     float64
	NoteWidth   float64
	NoteHeight  float64
	Keys        string
	Hold        time.Duration
	FramePeriod time.Duration
	BarRow      uint
	UnitsPerRow float64
	NoHistory   bool

	// import
	Midi      string
	Output    string
	Title     string
	Artist    string
	Creator   string
	AudioFile string
	Channel   int

	// shared
	Database string
	LogFile  string
	Debug    bool

	Judgements []game.Judgement
}

// Parse reads the command line, without the program name.
func Parse(args []string) (*Config, error) {
	c := &Config{}
	app := kingpin.New("keyfall", "Four lane rhythm game for the terminal")
	app.Version(Version)
	app.Flag("db", "Play history database").Default("keyfall.db").StringVar(&c.Database)
	app.Flag("log-file", "Write logs to this file instead of stderr").StringVar(&c.LogFile)
	app.Flag("debug", "Log at debug level").BoolVar(&c.Debug)

	play := app.Command(CommandPlay, "Play a chart").Default()
	play.Arg("chart", "Chart file (.yml/.yaml)").Required().ExistingFileVar(&c.Chart)
	play.Flag("lead-in", "Delay before the audio starts").Default("2s").Short('d').DurationVar(&c.LeadIn)
	play.Flag("scroll-speed", "Note speed in units per second").Default("800").Short('s').Float64Var(&c.ScrollSpeed)
	play.Flag("hit-line", "Height of the hit line in units").Default("-300").Float64Var(&c.HitLine)
	play.Flag("note-width", "Lane spacing in units").Default("64").Float64Var(&c.NoteWidth)
	play.Flag("note-height", "Note height in units").Default("102").Float64Var(&c.NoteHeight)
	play.Flag("keys", "Keys for the four lanes").Default("dfjk").Short('k').StringVar(&c.Keys)
	play.Flag("hold", "How long a key counts as held after a press").Default("120ms").DurationVar(&c.Hold)
	play.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&c.FramePeriod)
	play.Flag("bar-row", "Console rows between the hit bar and the bottom").Default("4").UintVar(&c.BarRow)
	play.Flag("units-per-row", "Units covered by one console row").Default("40").Float64Var(&c.UnitsPerRow)
	play.Flag("no-history", "Do not record the play").BoolVar(&c.NoHistory)

	imp := app.Command(CommandImport, "Convert a MIDI file into a chart")
	imp.Arg("midi", "Standard MIDI file").Required().ExistingFileVar(&c.Midi)
	imp.Arg("output", "Chart file to write").Required().StringVar(&c.Output)
	imp.Flag("title", "Song title").StringVar(&c.Title)
	imp.Flag("artist", "Song artist").StringVar(&c.Artist)
	imp.Flag("creator", "Chart creator").StringVar(&c.Creator)
	imp.Flag("filename", "Audio file of the song").StringVar(&c.AudioFile)
	imp.Flag("channel", "Only import this MIDI channel").Default("-1").IntVar(&c.Channel)

	history := app.Command(CommandHistory, "List recorded plays of a chart")
	history.Arg("chart", "Chart file (.yml/.yaml)").Required().ExistingFileVar(&c.Chart)

	cmd, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	c.Command = cmd
	c.Judgements = game.DefaultJudgements()

	if cmd == CommandPlay {
		if err := c.Validate(); nil != err {
			return nil, err
		}
	}
	return c, nil
}

// Validate checks the play settings the engine relies on.
func (c *Config) Validate() error {
	if c.ScrollSpeed <= 0 {
		return fmt.Errorf("scroll speed must be positive, got %v", c.ScrollSpeed)
	}
	if c.LeadIn < 0 {
		return fmt.Errorf("lead-in must not be negative, got %v", c.LeadIn)
	}
	if c.NoteWidth <= 0 || c.NoteHeight <= 0 || c.UnitsPerRow <= 0 {
		return errors.New("note width, note height and units per row must be positive")
	}
	if c.FramePeriod <= 0 {
		return fmt.Errorf("frame period must be positive, got %v", c.FramePeriod)
	}
	if utf8.RuneCountInString(c.Keys) != game.NLanes {
		return fmt.Errorf("expected %d keys, got %q", game.NLanes, c.Keys)
	}
	for i, r := range c.Keys {
		if strings.IndexRune(c.Keys[i+utf8.RuneLen(r):], r) >= 0 {
			return fmt.Errorf("key %q is bound twice", r)
		}
	}
	return nil
}

func (c *Config) Geometry() engine.Geometry {
	return engine.Geometry{
		HitLineY:    c.HitLine,
		NoteWidth:   c.NoteWidth,
		NoteHeight:  c.NoteHeight,
		ScrollSpeed: c.ScrollSpeed,
	}
}

func (c *Config) SessionOptions() engine.Options {
	return engine.Options{
		Geometry:   c.Geometry(),
		LeadIn:     c.LeadIn,
		Judgements: c.Judgements,
	}
}

// KeyLane returns the lane bound to r.
func (c *Config) KeyLane(r rune) (game.Lane, bool) {
	i := 0
	for _, k := range c.Keys {
		if k == r {
			return game.Lane(i), true
		}
		i++
	}
	return 0, false
}
