package render

import (
	"image/color"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (rows, cols int, err error)
	AddDecoration(row, col int, content string, frames int)
	RenderLoop(period time.Duration, frame func(now, elapsed time.Duration) bool)
	Fill(row, col int, message string)
	FillColor(row, col int, c color.RGBA, message string)
}
