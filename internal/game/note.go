package game

import (
	"time"
)

type NoteKind uint8

const (
	Tap  NoteKind = iota // A single hit
	Long                 // A sustained hit, reserved
)

func (k NoteKind) String() string {
	if k == Long {
		return "L"
	}
	return "S"
}

type Note struct {
	Kind    NoteKind
	Lane    Lane          // The chart column
	Time    time.Duration // The time the note should be hit
	TimeEnd time.Duration // The time a long note should be released
}

// NewTap creates a tap note at ms milliseconds of chart time.
func NewTap(lane Lane, ms uint32) Note {
	return Note{Kind: Tap, Lane: lane, Time: time.Duration(ms) * time.Millisecond}
}

// NewLong creates a long note spanning start to end milliseconds.
func NewLong(lane Lane, start, end uint32) Note {
	return Note{
		Kind:    Long,
		Lane:    lane,
		Time:    time.Duration(start) * time.Millisecond,
		TimeEnd: time.Duration(end) * time.Millisecond,
	}
}

func (n Note) IsLong() bool {
	return n.Kind == Long
}
