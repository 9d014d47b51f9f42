package engine

import (
	"sort"
	"time"

	"git.lost.host/meutraa/keyfall/internal/game"
)

// NoteID is the index of the chart event an instance was spawned from.
type NoteID int

type NoteInstance struct {
	ID     NoteID
	Lane   game.Lane
	Skin   game.Skin
	Target time.Duration // When the note is due on the field clock
}

// Placement is one note as the renderer sees it for the current tick.
type Placement struct {
	ID   NoteID
	Lane game.Lane
	Skin game.Skin
	X, Y float64
}

// Field owns every live note instance of a session.
//
// All instances share one clock, the elapsed time since spawn. The time left on
// a note is always Target - clock, so frame deltas never accumulate rounding.
type Field struct {
	geometry Geometry
	grace    time.Duration

	clock   time.Duration
	spawned bool

	live     []NoteInstance // ordered by Target, then lane
	expiring []NoteInstance // passed the hit line, still judgeable
}

// NewField creates an empty field. Notes that pass the hit line unhit stay
// judgeable for grace before they are reported as missed.
func NewField(g Geometry, grace time.Duration) *Field {
	if grace < 0 {
		grace = 0
	}
	return &Field{geometry: g, grace: grace}
}

// SpawnAll creates one instance per tap in a valid lane, due leadIn after its
// authored time. Only the first call has an effect.
func (f *Field) SpawnAll(chart *game.Chart, leadIn time.Duration) int {
	if f.spawned || nil == chart {
		return 0
	}
	f.spawned = true

	f.live = make([]NoteInstance, 0, len(chart.Notes))
	for i, note := range chart.Notes {
		// Long notes and bad lanes are rejected by Chart.Validate before they
		// reach here
		if note.Kind != game.Tap || !note.Lane.Valid() {
			continue
		}
		f.live = append(f.live, NoteInstance{
			ID:     NoteID(i),
			Lane:   note.Lane,
			Skin:   note.Lane.Skin(),
			Target: f.clock + note.Time + leadIn,
		})
	}
	sort.SliceStable(f.live, func(i, j int) bool {
		if f.live[i].Target != f.live[j].Target {
			return f.live[i].Target < f.live[j].Target
		}
		return f.live[i].Lane < f.live[j].Lane
	})
	return len(f.live)
}

// Advance moves the clock forward. Every instance whose remaining time is no
// longer positive leaves the visible set in this call. Instances whose grace
// ran out without a hit are returned as misses.
func (f *Field) Advance(elapsed time.Duration) []NoteInstance {
	if elapsed < 0 {
		elapsed = 0
	}
	f.clock += elapsed

	// live is ordered, so the expired instances form a prefix
	n := 0
	for n < len(f.live) && f.live[n].Target <= f.clock {
		n++
	}
	if n > 0 {
		f.expiring = append(f.expiring, f.live[:n]...)
		f.live = append(f.live[:0], f.live[n:]...)
	}

	var missed []NoteInstance
	kept := f.expiring[:0]
	for _, note := range f.expiring {
		if f.clock-note.Target > f.grace {
			missed = append(missed, note)
			continue
		}
		kept = append(kept, note)
	}
	f.expiring = kept
	return missed
}

// Consume removes the note in lane closest to the hit line whose offset is
// within window, from either the visible or the expiring set. The offset is
// positive when the note was still early.
func (f *Field) Consume(lane game.Lane, window time.Duration) (NoteInstance, time.Duration, bool) {
	best := -1
	bestLive := false
	var bestOffset time.Duration

	consider := func(i int, note NoteInstance, live bool) {
		if note.Lane != lane {
			return
		}
		offset := note.Target - f.clock
		if abs(offset) > window {
			return
		}
		if best < 0 || abs(offset) < abs(bestOffset) {
			best, bestLive, bestOffset = i, live, offset
		}
	}
	for i, note := range f.expiring {
		consider(i, note, false)
	}
	for i, note := range f.live {
		if note.Target-f.clock > window {
			break
		}
		consider(i, note, true)
	}

	if best < 0 {
		return NoteInstance{}, 0, false
	}
	var note NoteInstance
	if bestLive {
		note = f.live[best]
		f.live = append(f.live[:best], f.live[best+1:]...)
	} else {
		note = f.expiring[best]
		f.expiring = append(f.expiring[:best], f.expiring[best+1:]...)
	}
	return note, bestOffset, true
}

// Positions projects every visible instance through the scroll mapper.
func (f *Field) Positions() []Placement {
	out := make([]Placement, 0, len(f.live))
	for _, note := range f.live {
		x, y := f.geometry.Position(note.Target-f.clock, note.Lane)
		out = append(out, Placement{
			ID:   note.ID,
			Lane: note.Lane,
			Skin: note.Skin,
			X:    x,
			Y:    y,
		})
	}
	return out
}

// Remaining reports the time left on a visible instance.
func (f *Field) Remaining(id NoteID) (time.Duration, bool) {
	for _, note := range f.live {
		if note.ID == id {
			return note.Target - f.clock, true
		}
	}
	return 0, false
}

// Live returns a copy of the visible instances.
func (f *Field) Live() []NoteInstance {
	out := make([]NoteInstance, len(f.live))
	copy(out, f.live)
	return out
}

func (f *Field) Len() int {
	return len(f.live)
}

// Pending counts visible and still judgeable instances.
func (f *Field) Pending() int {
	return len(f.live) + len(f.expiring)
}

func (f *Field) Clock() time.Duration {
	return f.clock
}

func (f *Field) Spawned() bool {
	return f.spawned
}

func (f *Field) Geometry() Geometry {
	return f.geometry
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}
