package render

import (
	"math"

	"git.lost.host/meutraa/keyfall/internal/engine"
)

// Projection maps playfield coordinates onto 1-based terminal cells.
type Projection struct {
	Rows, Cols    int
	BarRow        int     // Rows between the hit bar and the bottom edge
	UnitsPerRow   float64 // World units covered by one row
	ColumnSpacing int     // Columns between neighbouring lanes
	Geometry      engine.Geometry
}

func (p Projection) HitRow() int {
	return p.Rows - p.BarRow
}

func (p Projection) MiddleCol() int {
	return p.Cols >> 1
}

// Cell returns the cell of a note whose centre is at x, y. A note at the hit
// line lands on the hit row.
func (p Projection) Cell(x, y float64) (row, col int) {
	g := p.Geometry
	above := (y - g.HitLineY - g.NoteHeight*0.5) / p.UnitsPerRow
	row = p.HitRow() - int(math.Round(above))
	col = p.MiddleCol() + int(math.Round(x/g.NoteWidth*float64(p.ColumnSpacing)))
	return row, col
}

func (p Projection) Visible(row, col int) bool {
	return row >= 1 && row <= p.Rows && col >= 1 && col <= p.Cols
}
