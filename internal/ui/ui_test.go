package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectable/internal/listing"
)

func simScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func screenLine(s tcell.SimulationScreen, y, w int) string {
	out := make([]rune, 0, w)
	for x := 0; x < w; x++ {
		ch, _, _, _ := s.GetContent(x, y)
		out = append(out, ch)
	}
	return string(out)
}

func TestRowsDepthAndFoldMarkers(t *testing.T) {
	l, err := listing.NewFileListing([]string{
		"/r/a.txt",
		"/r/sub/inner.txt",
	})
	require.NoError(t, err)

	rows := Rows(l, nil, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, TreeRow{Depth: 0, Name: "a.txt", Selected: true}, rows[0])
	assert.Equal(t, "sub", rows[1].Name)
	assert.True(t, rows[1].IsDir)
	assert.False(t, rows[1].Folded)
	assert.Equal(t, 1, rows[2].Depth)

	require.True(t, l.FoldPath("/r/sub"))
	rows = Rows(l, nil, nil)
	require.Len(t, rows, 2)
	assert.True(t, rows[1].Folded)
}

func TestRowsMarked(t *testing.T) {
	l, err := listing.NewFileListing([]string{"/r/a.txt", "/r/b.txt"})
	require.NoError(t, err)

	rows := Rows(l, nil, func(p string) bool { return p == "/r/a.txt" })
	assert.True(t, rows[0].Marked)
	assert.False(t, rows[1].Marked)
}

func TestTreeDrawShowsEntries(t *testing.T) {
	s := simScreen(t, 30, 10)
	l, err := listing.NewFileListing([]string{"/r/a.txt", "/r/sub/inner.txt"})
	require.NoError(t, err)

	var tree Tree
	tree.Draw(s, Rect{X: 0, Y: 0, W: 30, H: 10}, "files", Rows(l, nil, nil))
	s.Show()

	assert.Contains(t, screenLine(s, 1, 30), "a.txt")
	assert.Contains(t, screenLine(s, 2, 30), "sub/")
	assert.Contains(t, screenLine(s, 3, 30), "inner.txt")
}

func TestTreeFollowScrollsToSelection(t *testing.T) {
	var tree Tree
	tree.follow(0, 100, 10)
	assert.Equal(t, 0, tree.scroll)
	tree.follow(50, 100, 10)
	assert.Equal(t, 41, tree.scroll)
	tree.follow(45, 100, 10)
	assert.Equal(t, 41, tree.scroll)
	tree.follow(10, 100, 10)
	assert.Equal(t, 10, tree.scroll)
}

func TestInputEditing(t *testing.T) {
	in := NewInput("new file")
	for _, r := range "abd" {
		in.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	in.HandleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	in.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	assert.Equal(t, "abcd", in.Value())

	in.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	assert.Equal(t, "abd", in.Value())

	in.HandleKey(tcell.NewEventKey(tcell.KeyCtrlU, 0, tcell.ModNone))
	assert.Equal(t, "", in.Value())
}

func TestListNavigationWraps(t *testing.T) {
	l := NewList("marks", []string{"a", "b", "c"})
	sel, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", sel)

	l.Prev()
	sel, _ = l.Selected()
	assert.Equal(t, "c", sel)

	l.Next()
	sel, _ = l.Selected()
	assert.Equal(t, "a", sel)
}

func TestListEmpty(t *testing.T) {
	l := NewList("marks", nil)
	_, ok := l.Selected()
	assert.False(t, ok)
	l.Next() // must not panic
	l.Prev()
}

func TestPreviewScrollClamps(t *testing.T) {
	var p Preview
	p.SetContent("one\ntwo\nthree")
	p.ScrollDown(10)
	assert.Equal(t, 2, p.scroll)
	p.ScrollUp(10)
	assert.Equal(t, 0, p.scroll)
}
