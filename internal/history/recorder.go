package history

import (
	"time"

	"git.lost.host/meutraa/keyfall/internal/game"
)

type Recorder interface {
	Init(path string) error
	Deinit()

	// Save the result of a finished play
	Save(chart *game.Chart, play *Play) error

	// Load previous plays of the chart, newest first
	Load(chart *game.Chart) ([]Play, error)
}

type Play struct {
	ID       string
	Sum      string // Chart hash
	Title    string
	PlayedAt time.Time
	LeadIn   time.Duration
	Counts   []int // Notes per judgement, misses last
	Inputs   []game.Input
}
