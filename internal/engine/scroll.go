package engine

import (
	"time"

	"git.lost.host/meutraa/keyfall/internal/game"
)

// Geometry describes the playfield in world units, y growing upwards.
type Geometry struct {
	HitLineY    float64 // Vertical position of the hit line
	NoteWidth   float64 // Horizontal spacing between lanes
	NoteHeight  float64
	ScrollSpeed float64 // World units travelled per second, must be positive
}

func DefaultGeometry() Geometry {
	return Geometry{
		HitLineY:    -300,
		NoteWidth:   64,
		NoteHeight:  102,
		ScrollSpeed: 800,
	}
}

func (g Geometry) LaneX(lane game.Lane) float64 {
	return lane.Offset() * g.NoteWidth
}

// Position maps the time left until a note is due onto the screen. Notes travel
// at a constant speed and their edge touches the hit line at remaining == 0.
func (g Geometry) Position(remaining time.Duration, lane game.Lane) (x, y float64) {
	x = g.LaneX(lane)
	y = remaining.Seconds()*g.ScrollSpeed + g.HitLineY + g.NoteHeight*0.5
	return x, y
}
