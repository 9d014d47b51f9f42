package input

import (
	"time"

	"git.lost.host/meutraa/keyfall/internal/game"
	"github.com/eiannone/keyboard"
)

// KeyMap resolves a typed rune to a lane.
type KeyMap func(r rune) (game.Lane, bool)

// DefaultInput turns terminal key presses into held lanes. Terminals report no
// key releases, so a lane counts as held while its last press, or the key
// repeat that follows it, is younger than hold.
type DefaultInput struct {
	events <-chan keyboard.KeyEvent
	keys   KeyMap
	hold   time.Duration

	now      time.Duration
	pressed  [game.NLanes]bool
	presses  [game.NLanes]int // Since the last Poll
	lastSeen [game.NLanes]time.Duration
	quit     bool
	err      error
}

func NewInput(events <-chan keyboard.KeyEvent, keys KeyMap, hold time.Duration) *DefaultInput {
	return &DefaultInput{events: events, keys: keys, hold: hold}
}

// Open starts reading the terminal keyboard.
func Open(keys KeyMap, hold time.Duration) (*DefaultInput, error) {
	events, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, err
	}
	return NewInput(events, keys, hold), nil
}

func (i *DefaultInput) Close() error {
	return keyboard.Close()
}

// Poll takes every pending key event without blocking. now is the monotonic
// time of the current frame.
func (i *DefaultInput) Poll(now time.Duration) {
	i.now = now
	i.presses = [game.NLanes]int{}
	for {
		select {
		case ev, ok := <-i.events:
			if !ok {
				i.quit = true
				return
			}
			i.handle(ev)
		default:
			return
		}
	}
}

func (i *DefaultInput) handle(ev keyboard.KeyEvent) {
	if nil != ev.Err {
		i.err = ev.Err
		i.quit = true
		return
	}
	switch ev.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		i.quit = true
		return
	case keyboard.KeySpace:
		ev.Rune = ' '
	}
	lane, ok := i.keys(ev.Rune)
	if !ok {
		return
	}
	i.pressed[lane] = true
	i.presses[lane]++
	i.lastSeen[lane] = i.now
}

func (i *DefaultInput) IsHeld(lane game.Lane) bool {
	return i.pressed[lane] && i.now-i.lastSeen[lane] < i.hold
}

// Presses is the number of key events for lane taken by the last Poll. A
// press during the hold window of the previous one still counts.
func (i *DefaultInput) Presses(lane game.Lane) int {
	return i.presses[lane]
}

// Quit is true once escape was pressed or the keyboard failed.
func (i *DefaultInput) Quit() bool {
	return i.quit
}

func (i *DefaultInput) Err() error {
	return i.err
}
