package theme

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/keyfall/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) NoteColor(skin game.Skin) color.RGBA {
	return skinColors[skin]
}

func (t *DefaultTheme) RenderNote(skin game.Skin) string {
	return noteSyms[skin]
}

// RenderKey draws the key indicator, shrunk while the key is held.
func (t *DefaultTheme) RenderKey(skin game.Skin, scale float64) string {
	c := skinColors[skin]
	sym := keySyms[skin]
	if scale < 1 {
		sym = heldKeySyms[skin]
	}
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, sym)
}

func (t *DefaultTheme) RenderHitField(lane game.Lane) string {
	return barSym
}

func (t *DefaultTheme) RenderJudgement(index int, name string) string {
	code, ok := judgementColors[index]
	if !ok {
		code = judgementColors[-1]
	}
	return fmt.Sprintf("\033[%sm%10v\033[0m", code, name)
}

const (
	barSym = "─"
)

var (
	noteSyms    = [...]string{game.SkinA: "◆", game.SkinB: "●"}
	keySyms     = [...]string{game.SkinA: "◇", game.SkinB: "○"}
	heldKeySyms = [...]string{game.SkinA: "◈", game.SkinB: "◉"}
	skinColors  = [...]color.RGBA{
		game.SkinA: {236, 128, 0, 255}, // orange
		game.SkinB: {0, 118, 236, 255}, // blue
	}
	judgementColors = map[int]string{
		0:  "38;5;153", // light blue
		1:  "1;35",     // magenta
		2:  "1;36",     // cyan
		3:  "1;32",     // green
		-1: "1;31",     // red, the miss and anything past it
	}
)
