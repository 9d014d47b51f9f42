package game

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Chart is a loaded song. It is never modified after the loader hands it over.
type Chart struct {
	Title         string
	Artist        string
	Creator       string
	AudioFilename string
	Notes         []Note
}

func (c *Chart) TapCount() int {
	n := 0
	for _, note := range c.Notes {
		if note.Kind == Tap {
			n++
		}
	}
	return n
}

// Validate rejects notes this player cannot schedule.
func (c *Chart) Validate() error {
	for i, note := range c.Notes {
		if !note.Lane.Valid() {
			return &LoadError{Kind: ErrLoadParse, Err: fmt.Errorf("note %d: lane %d out of range", i, note.Lane)}
		}
		if note.IsLong() {
			return &LoadError{
				Kind: ErrUnsupportedNoteKind,
				Err:  fmt.Errorf("note %d: long note in %v at %v", i, note.Lane, note.Time),
			}
		}
	}
	return nil
}

// Hash identifies the chart content independent of where it was loaded from.
func (c *Chart) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00", c.Title, c.Artist, c.Creator)
	for _, n := range c.Notes {
		fmt.Fprintf(h, "%v:%v:%d:%d;", n.Kind, n.Lane, n.Time.Milliseconds(), n.TimeEnd.Milliseconds())
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
