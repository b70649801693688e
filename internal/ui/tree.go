package ui

import (
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"projectable/internal/git"
	"projectable/internal/listing"
)

// Tree renders the file listing pane.
type Tree struct {
	scroll int
}

// TreeRow is one visible entry prepared for drawing.
type TreeRow struct {
	Depth    int
	Name     string
	IsDir    bool
	Folded   bool
	Selected bool
	Marked   bool
	State    git.State
}

var stateStyles = map[git.State]tcell.Style{
	git.StateNone:     tcell.StyleDefault,
	git.StateNew:      tcell.StyleDefault.Foreground(tcell.ColorGreen),
	git.StateModified: tcell.StyleDefault.Foreground(tcell.ColorYellow),
	git.StateStaged:   tcell.StyleDefault.Foreground(tcell.ColorTeal),
}

// Rows prepares the drawable rows for the current listing state.
func Rows(l *listing.FileListing, status *git.Status, marked func(string) bool) []TreeRow {
	root := l.Items().Root()
	visible := l.Visible()
	selected := l.Selected()

	rows := make([]TreeRow, 0, len(visible))
	for i, entry := range visible {
		rel, err := filepath.Rel(root, entry.Item.Path())
		if err != nil {
			rel = entry.Item.Path()
		}
		depth := strings.Count(rel, string(filepath.Separator))
		folded := false
		if entry.Item.IsDir() {
			folded, _ = l.IsFolded(i)
		}
		rows = append(rows, TreeRow{
			Depth:    depth,
			Name:     entry.Item.Name(),
			IsDir:    entry.Item.IsDir(),
			Folded:   folded,
			Selected: i == selected,
			Marked:   marked != nil && marked(entry.Item.Path()),
			State:    status.State(entry.Item.Path()),
		})
	}
	return rows
}

// Draw renders rows into r, keeping the selected row in view.
func (t *Tree) Draw(s tcell.Screen, r Rect, title string, rows []TreeRow) {
	DrawBorder(s, r, title, tcell.StyleDefault)
	inner := r.Inner()
	if inner.W <= 0 || inner.H <= 0 {
		return
	}
	Clear(s, inner)

	selected := 0
	for i, row := range rows {
		if row.Selected {
			selected = i
			break
		}
	}
	t.follow(selected, len(rows), inner.H)

	for y := 0; y < inner.H; y++ {
		i := t.scroll + y
		if i >= len(rows) {
			break
		}
		row := rows[i]
		style := stateStyles[row.State]
		if row.Selected {
			style = style.Reverse(true)
		}

		label := treeLabel(row)
		x := inner.X + row.Depth*2
		max := inner.W - row.Depth*2
		if max <= 0 {
			continue
		}
		used := DrawText(s, x, inner.Y+y, max, style, label)
		if row.Selected {
			// extend the highlight across the rest of the line
			FillLine(s, x+used, inner.Y+y, max-used, ' ', style)
		}
	}
}

func treeLabel(row TreeRow) string {
	var b strings.Builder
	switch {
	case !row.IsDir:
		b.WriteString("  ")
	case row.Folded:
		b.WriteString("▸ ")
	default:
		b.WriteString("▾ ")
	}
	b.WriteString(row.Name)
	if row.IsDir {
		b.WriteString("/")
	}
	if row.Marked {
		b.WriteString(" *")
	}
	return b.String()
}

// follow adjusts the scroll offset so the selected row stays visible.
func (t *Tree) follow(selected, total, height int) {
	if total == 0 || height <= 0 {
		t.scroll = 0
		return
	}
	if selected < t.scroll {
		t.scroll = selected
	}
	if selected >= t.scroll+height {
		t.scroll = selected - height + 1
	}
	if t.scroll > total-1 {
		t.scroll = total - 1
	}
	if t.scroll < 0 {
		t.scroll = 0
	}
}
