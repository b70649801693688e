// Package ui renders the panes of the interface onto a tcell screen. It
// holds no application state, every component draws from what it is given.
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Rect is the screen region a component draws into.
type Rect struct {
	X, Y, W, H int
}

// DrawText writes text at (x, y), clipped to maxWidth display cells, and
// returns the number of cells used.
func DrawText(s tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) int {
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if col+w > maxWidth {
			break
		}
		s.SetContent(x+col, y, r, nil, style)
		col += w
	}
	return col
}

// FillLine paints a horizontal run of cells with one rune.
func FillLine(s tcell.Screen, x, y, w int, r rune, style tcell.Style) {
	for i := 0; i < w; i++ {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// DrawBorder draws a single-line box around r with an optional title.
func DrawBorder(s tcell.Screen, r Rect, title string, style tcell.Style) {
	if r.W < 2 || r.H < 2 {
		return
	}
	FillLine(s, r.X+1, r.Y, r.W-2, tcell.RuneHLine, style)
	FillLine(s, r.X+1, r.Y+r.H-1, r.W-2, tcell.RuneHLine, style)
	for y := r.Y + 1; y < r.Y+r.H-1; y++ {
		s.SetContent(r.X, y, tcell.RuneVLine, nil, style)
		s.SetContent(r.X+r.W-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, style)
	s.SetContent(r.X+r.W-1, r.Y, tcell.RuneURCorner, nil, style)
	s.SetContent(r.X, r.Y+r.H-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(r.X+r.W-1, r.Y+r.H-1, tcell.RuneLRCorner, nil, style)
	if title != "" && r.W > 4 {
		DrawText(s, r.X+2, r.Y, r.W-4, style.Bold(true), " "+title+" ")
	}
}

// Clear blanks the interior of r.
func Clear(s tcell.Screen, r Rect) {
	for y := r.Y; y < r.Y+r.H; y++ {
		FillLine(s, r.X, y, r.W, ' ', tcell.StyleDefault)
	}
}

// Inner returns r shrunk by its border.
func (r Rect) Inner() Rect {
	return Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
}

// Centered returns a w-by-h rect centered inside r, clamped to fit.
func (r Rect) Centered(w, h int) Rect {
	if w > r.W {
		w = r.W
	}
	if h > r.H {
		h = r.H
	}
	return Rect{
		X: r.X + (r.W-w)/2,
		Y: r.Y + (r.H-h)/2,
		W: w,
		H: h,
	}
}
