package parser

import (
	"errors"
	"reflect"
	"testing"

	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/testdata"
)

func writeSong(t *testing.T, keys ...uint8) string {
	p, err := testdata.WriteSong(t.TempDir(), keys...)
	if nil != err {
		t.Fatal(err)
	}
	return p
}

func TestMidiParse(t *testing.T) {
	p := NewMidiParser()
	p.Artist = "A"
	chart, err := p.Parse(writeSong(t, 60, 61, 62, 63))
	if nil != err {
		t.Fatal(err)
	}
	expected := []game.Note{
		game.NewTap(game.Lane1, 500),
		game.NewTap(game.Lane2, 1000),
		game.NewTap(game.Lane3, 1500),
		game.NewTap(game.Lane4, 2000),
	}
	if !reflect.DeepEqual(chart.Notes, expected) {
		t.Log("notes   ", chart.Notes)
		t.Log("expected", expected)
		t.Fail()
	}
	if chart.Title != "song" || chart.Artist != "A" {
		t.Errorf("metadata = %+v", chart)
	}
}

func TestMidiChannelFilter(t *testing.T) {
	p := NewMidiParser()
	p.Channel = 9
	_, err := p.Parse(writeSong(t, 60))
	if !errors.Is(err, game.ErrLoadParse) {
		t.Errorf("err = %v", err)
	}
}

func TestMidiNotMidi(t *testing.T) {
	path, err := testdata.WriteLevel(t.TempDir())
	if nil != err {
		t.Fatal(err)
	}
	if _, err := NewMidiParser().Parse(path); !errors.Is(err, game.ErrLoadParse) {
		t.Errorf("err = %v", err)
	}
}
