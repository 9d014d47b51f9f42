package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.lost.host/meutraa/keyfall/internal/game"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MidiParser turns every note-on of a standard MIDI file into a tap. The lane
// is the key modulo the lane count, so a chromatic run walks across the lanes.
type MidiParser struct {
	Title    string // Defaults to the file name
	Artist   string
	Creator  string
	Filename string // Audio file written into the chart
	Channel  int    // Only read this channel, -1 for all
}

func NewMidiParser() *MidiParser {
	return &MidiParser{Channel: -1}
}

func (p *MidiParser) Parse(file string) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, &game.LoadError{Kind: game.ErrLoadIO, Path: file, Err: err}
	}
	notes, err := p.decode(data)
	if nil != err {
		return nil, &game.LoadError{Kind: game.ErrLoadParse, Path: file, Err: err}
	}

	title := p.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return &game.Chart{
		Title:         title,
		Artist:        p.Artist,
		Creator:       p.Creator,
		AudioFilename: p.Filename,
		Notes:         notes,
	}, nil
}

func (p *MidiParser) decode(data []byte) ([]game.Note, error) {
	rd, err := smf.ReadFrom(bytes.NewReader(data))
	if nil != err {
		return nil, errors.Wrap(err, "reading midi")
	}
	if _, ok := rd.TimeFormat.(smf.MetricTicks); !ok {
		return nil, errors.Errorf("unsupported time format %v", rd.TimeFormat)
	}

	type key struct {
		lane game.Lane
		ms   int64
	}
	seen := map[key]bool{}
	notes := []game.Note{}
	for _, track := range rd.Tracks {
		var ticks int64
		for _, ev := range track {
			ticks += int64(ev.Delta)
			var ch, k, vel uint8
			if !midi.Message(ev.Message).GetNoteStart(&ch, &k, &vel) {
				continue
			}
			if p.Channel >= 0 && int(ch) != p.Channel {
				continue
			}
			ms := (rd.TimeAt(ticks) + 500) / 1000
			lane := game.Lane(k % game.NLanes)
			// Chords on one key collapse into one tap
			if seen[key{lane, ms}] {
				continue
			}
			seen[key{lane, ms}] = true
			notes = append(notes, game.NewTap(lane, uint32(ms)))
		}
	}
	if len(notes) == 0 {
		return nil, errors.New("no notes found")
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Time != notes[j].Time {
			return notes[i].Time < notes[j].Time
		}
		return notes[i].Lane < notes[j].Lane
	})
	return notes, nil
}
