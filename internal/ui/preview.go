package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Preview renders command output or file contents in the right pane.
type Preview struct {
	lines  []string
	scroll int
}

// SetContent replaces the pane's text and resets the scroll position.
func (p *Preview) SetContent(text string) {
	p.lines = strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	p.scroll = 0
}

// Empty reports whether there is nothing to show.
func (p *Preview) Empty() bool {
	return len(p.lines) == 0
}

// ScrollDown moves the view down by n lines, stopping at the end.
func (p *Preview) ScrollDown(n int) {
	p.scroll += n
	if max := len(p.lines) - 1; p.scroll > max {
		p.scroll = max
	}
	if p.scroll < 0 {
		p.scroll = 0
	}
}

// ScrollUp moves the view up by n lines.
func (p *Preview) ScrollUp(n int) {
	p.ScrollDown(-n)
}

// Draw renders the pane into r.
func (p *Preview) Draw(s tcell.Screen, r Rect, title string) {
	DrawBorder(s, r, title, tcell.StyleDefault)
	inner := r.Inner()
	if inner.W <= 0 || inner.H <= 0 {
		return
	}
	Clear(s, inner)
	for y := 0; y < inner.H; y++ {
		i := p.scroll + y
		if i >= len(p.lines) {
			break
		}
		DrawText(s, inner.X, inner.Y+y, inner.W, tcell.StyleDefault, expandTabs(p.lines[i]))
	}
}

func expandTabs(line string) string {
	return strings.ReplaceAll(line, "\t", "    ")
}
