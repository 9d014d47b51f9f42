package game

import (
	"errors"
	"testing"
)

func TestValidateRejectsLong(t *testing.T) {
	c := &Chart{Notes: []Note{NewTap(Lane1, 0), NewLong(Lane2, 100, 400)}}
	err := c.Validate()
	if !errors.Is(err, ErrUnsupportedNoteKind) {
		t.Errorf("err = %v", err)
	}
	if errors.Is(err, ErrLoadParse) {
		t.Errorf("long note reported as a parse error")
	}
}

func TestValidateRejectsBadLane(t *testing.T) {
	c := &Chart{Notes: []Note{{Kind: Tap, Lane: Lane(7)}}}
	if err := c.Validate(); !errors.Is(err, ErrLoadParse) {
		t.Errorf("err = %v", err)
	}
}

func TestValidateTaps(t *testing.T) {
	c := &Chart{Notes: []Note{NewTap(Lane1, 0), NewTap(Lane4, 10)}}
	if err := c.Validate(); nil != err {
		t.Error(err)
	}
	if c.TapCount() != 2 {
		t.Errorf("taps = %v", c.TapCount())
	}
}

func TestHashDependsOnContent(t *testing.T) {
	a := &Chart{Title: "a", Notes: []Note{NewTap(Lane1, 0)}}
	b := &Chart{Title: "a", Notes: []Note{NewTap(Lane1, 0)}, AudioFilename: "elsewhere.ogg"}
	c := &Chart{Title: "a", Notes: []Note{NewTap(Lane2, 0)}}
	if a.Hash() != b.Hash() {
		t.Errorf("audio location changed the hash")
	}
	if a.Hash() == c.Hash() {
		t.Errorf("different notes share a hash")
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := &LoadError{Kind: ErrLoadIO, Path: "levels/level.yml", Err: errors.New("no such file")}
	if err.Error() != "unable to read chart levels/level.yml: no such file" {
		t.Errorf("message = %q", err.Error())
	}
}
