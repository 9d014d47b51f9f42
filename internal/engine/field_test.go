package engine

import (
	"reflect"
	"testing"
	"time"

	"git.lost.host/meutraa/keyfall/internal/game"
)

func chartOf(notes ...game.Note) *game.Chart {
	return &game.Chart{Title: "test", Artist: "test", Creator: "test", Notes: notes}
}

func TestSpawnAllOffsetsByLeadIn(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	n := f.SpawnAll(chartOf(game.NewTap(game.Lane1, 5000)), 2*time.Second)
	if n != 1 {
		t.Fatalf("spawned %v notes", n)
	}
	remaining, ok := f.Remaining(0)
	if !ok || remaining != 7*time.Second {
		t.Errorf("remaining = %v %v, expected 7s", remaining, ok)
	}
}

func TestSpawnAllOnce(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	chart := chartOf(game.NewTap(game.Lane1, 100), game.NewTap(game.Lane2, 200))
	f.SpawnAll(chart, 0)
	if n := f.SpawnAll(chart, 0); n != 0 {
		t.Errorf("second spawn created %v notes", n)
	}
	if f.Len() != 2 {
		t.Errorf("len = %v", f.Len())
	}
}

func TestSpawnAllSkipsLong(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	f.SpawnAll(chartOf(game.NewTap(game.Lane1, 100), game.NewLong(game.Lane2, 200, 400)), 0)
	if f.Len() != 1 {
		t.Errorf("len = %v", f.Len())
	}
}

func TestSpawnAllSkipsBadLane(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	f.SpawnAll(chartOf(game.NewTap(game.Lane4, 100), game.NewTap(game.Lane(game.NLanes), 100)), 0)
	if f.Len() != 1 {
		t.Fatalf("len = %v", f.Len())
	}
	if p := f.Positions(); len(p) != 1 || p[0].Lane != game.Lane4 {
		t.Errorf("positions = %v", p)
	}
}

// Scenario: one tap at 5000ms with a 2000ms lead-in is gone after 7000ms.
func TestAdvanceExpiresAtHitLine(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	f.SpawnAll(chartOf(game.NewTap(game.Lane1, 5000)), 2*time.Second)
	for i := 0; i < 6; i++ {
		f.Advance(time.Second)
	}
	if f.Len() != 1 {
		t.Fatalf("note expired early, len = %v", f.Len())
	}
	f.Advance(time.Second)
	if f.Len() != 0 {
		t.Errorf("note still live after 7s")
	}
}

func TestAdvanceBoundaryRemovesSameTick(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	f.SpawnAll(chartOf(game.NewTap(game.Lane3, 1000)), 0)
	f.Advance(999 * time.Millisecond)
	if f.Len() != 1 {
		t.Fatalf("expired before reaching the line")
	}
	f.Advance(time.Millisecond)
	if f.Len() != 0 {
		t.Errorf("note with 0ms remaining survived the tick")
	}
}

var advanceSequences = [][]time.Duration{
	{3 * time.Second},
	{time.Second, time.Second, time.Second},
	{16 * time.Millisecond, 2984 * time.Millisecond},
	{2984 * time.Millisecond, 16 * time.Millisecond},
	{7 * time.Millisecond, 0, 1993 * time.Millisecond, 1000 * time.Millisecond},
}

func TestAdvanceAdditive(t *testing.T) {
	for _, seq := range advanceSequences {
		f := NewField(DefaultGeometry(), 0)
		f.SpawnAll(chartOf(game.NewTap(game.Lane2, 8000)), 2*time.Second)
		for _, d := range seq {
			f.Advance(d)
		}
		remaining, ok := f.Remaining(0)
		if !ok || remaining != 7*time.Second {
			t.Log("sequence ", seq)
			t.Log("remaining", remaining)
			t.Fail()
		}
	}
}

func TestAdvanceNegativeIsZero(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	f.SpawnAll(chartOf(game.NewTap(game.Lane2, 1000)), 0)
	f.Advance(-time.Second)
	if f.Clock() != 0 {
		t.Errorf("clock = %v", f.Clock())
	}
}

func TestPositionsIdempotent(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	f.SpawnAll(chartOf(game.NewTap(game.Lane1, 500), game.NewTap(game.Lane4, 900)), time.Second)
	f.Advance(123 * time.Millisecond)
	a, b := f.Positions(), f.Positions()
	if !reflect.DeepEqual(a, b) {
		t.Log(a)
		t.Log(b)
		t.Fail()
	}
}

// Scenario: taps in lanes 2 and 3 at the same time share a skin and a height.
func TestPairedLanesMoveTogether(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	f.SpawnAll(chartOf(game.NewTap(game.Lane2, 3000), game.NewTap(game.Lane3, 3000)), 2*time.Second)
	for tick := 0; tick < 300; tick++ {
		ps := f.Positions()
		if len(ps) != 2 {
			t.Fatalf("tick %v: %v placements", tick, len(ps))
		}
		if ps[0].Skin != ps[1].Skin || ps[0].Y != ps[1].Y || ps[0].X == ps[1].X {
			t.Fatalf("tick %v: %+v %+v", tick, ps[0], ps[1])
		}
		f.Advance(16 * time.Millisecond)
	}
}

func TestGraceReportsMiss(t *testing.T) {
	f := NewField(DefaultGeometry(), 100*time.Millisecond)
	f.SpawnAll(chartOf(game.NewTap(game.Lane1, 1000)), 0)
	if missed := f.Advance(time.Second); len(missed) != 0 || f.Len() != 0 {
		t.Fatalf("missed %v, len %v", missed, f.Len())
	}
	if f.Pending() != 1 {
		t.Fatalf("note not kept for grace")
	}
	if missed := f.Advance(100 * time.Millisecond); len(missed) != 0 {
		t.Fatalf("missed inside grace")
	}
	missed := f.Advance(time.Millisecond)
	if len(missed) != 1 || missed[0].ID != 0 || f.Pending() != 0 {
		t.Errorf("missed %v, pending %v", missed, f.Pending())
	}
}

func TestConsumeClosest(t *testing.T) {
	f := NewField(DefaultGeometry(), 200*time.Millisecond)
	f.SpawnAll(chartOf(
		game.NewTap(game.Lane1, 1000),
		game.NewTap(game.Lane1, 1100),
		game.NewTap(game.Lane2, 1000),
	), 0)
	f.Advance(1080 * time.Millisecond)

	note, offset, ok := f.Consume(game.Lane1, 150*time.Millisecond)
	if !ok || note.ID != 1 || offset != 20*time.Millisecond {
		t.Fatalf("note %+v offset %v ok %v", note, offset, ok)
	}
	note, offset, ok = f.Consume(game.Lane1, 150*time.Millisecond)
	if !ok || note.ID != 0 || offset != -80*time.Millisecond {
		t.Fatalf("note %+v offset %v ok %v", note, offset, ok)
	}
	if _, _, ok := f.Consume(game.Lane1, 150*time.Millisecond); ok {
		t.Errorf("consumed a note twice")
	}
	if f.Pending() != 1 {
		t.Errorf("pending = %v", f.Pending())
	}
}

func TestConsumeOutsideWindow(t *testing.T) {
	f := NewField(DefaultGeometry(), 0)
	f.SpawnAll(chartOf(game.NewTap(game.Lane4, 1000)), 0)
	if _, _, ok := f.Consume(game.Lane4, 135*time.Millisecond); ok {
		t.Errorf("consumed a note one second early")
	}
	if f.Len() != 1 {
		t.Errorf("len = %v", f.Len())
	}
}
