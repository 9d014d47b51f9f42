package theme

import (
	"image/color"

	"git.lost.host/meutraa/keyfall/internal/game"
)

type Theme interface {
	NoteColor(skin game.Skin) color.RGBA
	RenderNote(skin game.Skin) string
	RenderKey(skin game.Skin, scale float64) string
	RenderHitField(lane game.Lane) string
	RenderJudgement(index int, name string) string
}
