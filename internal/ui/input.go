package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Input is a single-line text prompt shown at the bottom of the screen.
type Input struct {
	prompt string
	runes  []rune
	cursor int
}

// NewInput creates an empty prompt with the given label.
func NewInput(prompt string) *Input {
	return &Input{prompt: prompt}
}

// Value returns the entered text.
func (in *Input) Value() string {
	return string(in.runes)
}

// HandleKey applies one key event. Editing keys are consumed here; enter
// and escape are left to the caller.
func (in *Input) HandleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		in.runes = append(in.runes[:in.cursor], append([]rune{ev.Rune()}, in.runes[in.cursor:]...)...)
		in.cursor++
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if in.cursor > 0 {
			in.runes = append(in.runes[:in.cursor-1], in.runes[in.cursor:]...)
			in.cursor--
		}
	case tcell.KeyDelete:
		if in.cursor < len(in.runes) {
			in.runes = append(in.runes[:in.cursor], in.runes[in.cursor+1:]...)
		}
	case tcell.KeyLeft:
		if in.cursor > 0 {
			in.cursor--
		}
	case tcell.KeyRight:
		if in.cursor < len(in.runes) {
			in.cursor++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		in.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		in.cursor = len(in.runes)
	case tcell.KeyCtrlU:
		in.runes = in.runes[:0]
		in.cursor = 0
	}
}

// Draw renders the prompt into r and places the hardware cursor.
func (in *Input) Draw(s tcell.Screen, r Rect) {
	DrawBorder(s, r, in.prompt, tcell.StyleDefault)
	inner := r.Inner()
	if inner.W <= 0 || inner.H <= 0 {
		return
	}
	Clear(s, inner)
	DrawText(s, inner.X, inner.Y, inner.W, tcell.StyleDefault, string(in.runes))

	cursorCol := 0
	for _, r := range in.runes[:in.cursor] {
		cursorCol += runewidth.RuneWidth(r)
	}
	if cursorCol < inner.W {
		s.ShowCursor(inner.X+cursorCol, inner.Y)
	}
}
