package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	Out io.Writer
	fd  int

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
	drawn        []cell // cells written last frame, blanked before the next
}

type decoration struct {
	Row, Col int
	Content  string
	Frames   int // remaining frames until removed
}

type cell struct {
	row, col, width int
}

func NewRenderer() *DefaultRenderer {
	return &DefaultRenderer{Out: os.Stdout, fd: int(os.Stdout.Fd())}
}

func (r *DefaultRenderer) Init() error {
	if term.IsTerminal(r.fd) {
		state, err := term.MakeRaw(r.fd)
		if nil != err {
			return err
		}
		r.restoreState = state
	}

	fmt.Fprintf(r.Out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[2J",     // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.Out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.fd, r.restoreState)
}

func (r *DefaultRenderer) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(r.fd)
	if nil != err {
		return 0, 0, fmt.Errorf("unable to get terminal size: %w", err)
	}
	return rows, cols, nil
}

func (r *DefaultRenderer) AddDecoration(row, col int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		Row:     row,
		Col:     col,
		Content: content,
		Frames:  frames,
	})
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames <= 0 {
			continue
		}
		r.Fill(d.Row, d.Col, d.Content)
		d.Frames--
		nd = append(nd, d)
	}
	r.decorations = nd
}

// RenderLoop calls frame once per period until it returns false. now is the
// time since the loop started and elapsed the time since the previous frame,
// both from the monotonic clock, so the elapsed values always sum to now.
func (r *DefaultRenderer) RenderLoop(period time.Duration, frame func(now, elapsed time.Duration) bool) {
	start := time.Now()
	last := start
	for {
		t := time.Now()
		deadline := t.Add(period)
		elapsed := t.Sub(last)
		last = t

		r.erase()
		if !frame(t.Sub(start), elapsed) {
			r.flush()
			return
		}
		r.tickDecorations()
		r.flush()

		time.Sleep(time.Until(deadline))
	}
}

// Fill writes message at a 1-based row and column. It is blanked again at the
// start of the next frame.
func (r *DefaultRenderer) Fill(row, col int, message string) {
	r.moveTo(row, col)
	r.buffer.WriteString(message)
	r.drawn = append(r.drawn, cell{row: row, col: col, width: VisibleWidth(message)})
}

func (r *DefaultRenderer) FillColor(row, col int, c color.RGBA, message string) {
	r.moveTo(row, col)
	r.buffer.WriteString("\033[38;2;")
	r.buffer.WriteString(strconv.FormatInt(int64(c.R), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.G), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.B), 10))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
	r.drawn = append(r.drawn, cell{row: row, col: col, width: VisibleWidth(message)})
}

func (r *DefaultRenderer) moveTo(row, col int) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(col), 10))
	r.buffer.WriteString("H")
}

func (r *DefaultRenderer) erase() {
	for _, c := range r.drawn {
		r.moveTo(c.row, c.col)
		r.buffer.WriteString(strings.Repeat(" ", c.width))
	}
	r.drawn = r.drawn[:0]
}

func (r *DefaultRenderer) flush() {
	io.WriteString(r.Out, r.buffer.String())
	r.buffer.Reset()
}

// VisibleWidth counts the runes of s that are not part of an escape sequence.
func VisibleWidth(s string) int {
	n := 0
	for i := 0; i < len(s); {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n++
	}
	return n
}
