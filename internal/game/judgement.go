package game

import (
	"time"
)

type Judgement struct {
	Time time.Duration // Widest absolute offset that earns this judgement
	Name string
}

// DefaultJudgements are ordered narrowest first, the last entry is the miss.
func DefaultJudgements() []Judgement {
	return []Judgement{
		{Time: 22 * time.Millisecond, Name: "Marvelous"},
		{Time: 45 * time.Millisecond, Name: "Perfect"},
		{Time: 90 * time.Millisecond, Name: "Great"},
		{Time: 135 * time.Millisecond, Name: "Good"},
		{Time: -1, Name: "Miss"},
	}
}

// Judge returns the index of the first window containing the absolute offset d,
// or the miss index when none does.
func Judge(judgements []Judgement, d time.Duration) int {
	if d < 0 {
		d = -d
	}
	for i := 0; i < len(judgements)-1; i++ {
		if d <= judgements[i].Time {
			return i
		}
	}
	return len(judgements) - 1
}

// HitWindow is the widest window that still counts as a hit.
func HitWindow(judgements []Judgement) time.Duration {
	if len(judgements) < 2 {
		return 0
	}
	return judgements[len(judgements)-2].Time
}

// Input is a single key press in chart time.
type Input struct {
	Lane    Lane
	HitTime time.Duration
}
