package ui

import (
	"github.com/gdamore/tcell/v2"
)

// List is a selectable popup list used for marks, fuzzy matches, and the
// special-command picker.
type List struct {
	title    string
	items    []string
	selected int
	scroll   int
}

// NewList creates a list popup.
func NewList(title string, items []string) *List {
	return &List{title: title, items: items}
}

// SetItems replaces the entries, keeping the selection in range.
func (l *List) SetItems(items []string) {
	l.items = items
	if l.selected >= len(items) {
		l.selected = len(items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.items)
}

// Selected returns the highlighted entry.
func (l *List) Selected() (string, bool) {
	if len(l.items) == 0 {
		return "", false
	}
	return l.items[l.selected], true
}

// Next moves the highlight down, wrapping at the end.
func (l *List) Next() {
	if len(l.items) == 0 {
		return
	}
	l.selected = (l.selected + 1) % len(l.items)
}

// Prev moves the highlight up, wrapping at the start.
func (l *List) Prev() {
	if len(l.items) == 0 {
		return
	}
	l.selected = (l.selected + len(l.items) - 1) % len(l.items)
}

// Draw renders the popup centered inside bounds.
func (l *List) Draw(s tcell.Screen, bounds Rect) {
	h := len(l.items) + 2
	if h < 3 {
		h = 3
	}
	if h > bounds.H-2 {
		h = bounds.H - 2
	}
	r := bounds.Centered(bounds.W*2/3, h)
	Clear(s, r)
	DrawBorder(s, r, l.title, tcell.StyleDefault)
	inner := r.Inner()
	if inner.W <= 0 || inner.H <= 0 {
		return
	}

	if l.selected < l.scroll {
		l.scroll = l.selected
	}
	if l.selected >= l.scroll+inner.H {
		l.scroll = l.selected - inner.H + 1
	}
	for y := 0; y < inner.H; y++ {
		i := l.scroll + y
		if i >= len(l.items) {
			break
		}
		style := tcell.StyleDefault
		if i == l.selected {
			style = style.Reverse(true)
		}
		used := DrawText(s, inner.X, inner.Y+y, inner.W, style, l.items[i])
		if i == l.selected {
			FillLine(s, inner.X+used, inner.Y+y, inner.W-used, ' ', style)
		}
	}
}

// Confirm is a yes/no popup.
type Confirm struct {
	question string
}

// NewConfirm creates a confirmation popup.
func NewConfirm(question string) *Confirm {
	return &Confirm{question: question}
}

// Draw renders the popup centered inside bounds.
func (c *Confirm) Draw(s tcell.Screen, bounds Rect) {
	r := bounds.Centered(len(c.question)+6, 5)
	Clear(s, r)
	DrawBorder(s, r, "confirm", tcell.StyleDefault)
	inner := r.Inner()
	DrawText(s, inner.X+1, inner.Y, inner.W-2, tcell.StyleDefault, c.question)
	DrawText(s, inner.X+1, inner.Y+2, inner.W-2, tcell.StyleDefault.Dim(true), "y: confirm   n/esc: cancel")
}
