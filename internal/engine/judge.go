package engine

import (
	"time"

	"git.lost.host/meutraa/keyfall/internal/game"
)

const (
	ScaleReleased = 1.0
	ScalePressed  = 0.9 // Key indicator is drawn compressed while held
)

// KeyState is the visual state of one lane's key indicator.
type KeyState struct {
	Held  bool
	Scale float64
}

// Hit is a note consumed by a key press.
type Hit struct {
	Note      NoteInstance
	Offset    time.Duration // Positive when pressed early
	Judgement int           // Index into the judgement table
}

// Judge samples the input collaborator and matches press edges against the field.
type Judge struct {
	judgements []game.Judgement
	window     time.Duration
	keys       [game.NLanes]KeyState
}

func NewJudge(judgements []game.Judgement) *Judge {
	j := &Judge{
		judgements: judgements,
		window:     game.HitWindow(judgements),
	}
	for i := range j.keys {
		j.keys[i].Scale = ScaleReleased
	}
	return j
}

// Update refreshes every key indicator and returns one entry per press the
// input reports. Inputs without a PressCounter press a lane when it goes from
// released to held.
func (j *Judge) Update(in Input) []game.Lane {
	var pressed []game.Lane
	counter, counts := in.(PressCounter)
	for _, lane := range game.Lanes {
		held := nil != in && in.IsHeld(lane)
		key := &j.keys[lane]
		switch {
		case counts:
			for n := counter.Presses(lane); n > 0; n-- {
				pressed = append(pressed, lane)
			}
		case held && !key.Held:
			pressed = append(pressed, lane)
		}
		key.Held = held
		if held {
			key.Scale = ScalePressed
		} else {
			key.Scale = ScaleReleased
		}
	}
	return pressed
}

// Apply consumes the note closest to the hit line in lane, if one is in reach.
func (j *Judge) Apply(f *Field, lane game.Lane) (Hit, bool) {
	note, offset, ok := f.Consume(lane, j.window)
	if !ok {
		return Hit{}, false
	}
	return Hit{
		Note:      note,
		Offset:    offset,
		Judgement: game.Judge(j.judgements, offset),
	}, true
}

func (j *Judge) Keys() [game.NLanes]KeyState {
	return j.keys
}

func (j *Judge) Window() time.Duration {
	return j.window
}

func (j *Judge) Judgements() []game.Judgement {
	return j.judgements
}

func (j *Judge) MissIndex() int {
	return len(j.judgements) - 1
}
