package parser

import "git.lost.host/meutraa/keyfall/internal/game"

type Parser interface {
	Parse(file string) (*game.Chart, error)
}
