package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path()
	}
	return out
}

func TestHumanCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"plain less", "abc", "abd", -1},
		{"equal", "same", "same", 0},
		{"numeric runs by value", "a2", "a10", -1},
		{"numeric before longer run", "test2.txt", "test10.txt", -1},
		{"leading zeros", "a02", "a2", 0},
		{"prefix first", "test", "test2", -1},
		{"case sensitive", "B", "a", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanCompare(tt.a, tt.b))
			assert.Equal(t, -tt.want, HumanCompare(tt.b, tt.a))
		})
	}
}

func TestNewItemsFlatOrdering(t *testing.T) {
	// S1: numeric-aware ordering of a flat directory.
	items, err := NewItems([]string{"/r/test2.txt", "/r/test10.txt", "/r/test1.txt"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/r/test1.txt", "/r/test2.txt", "/r/test10.txt"}, paths(items.All()))
	for _, it := range items.All() {
		assert.True(t, it.IsFile())
	}
}

func TestNewItemsDirectoryDemotion(t *testing.T) {
	// S2: an input that is an ancestor of another input becomes a Dir.
	items, err := NewItems([]string{"/r/test/test.txt", "/r/test"})
	require.NoError(t, err)

	require.Equal(t, 2, items.Len())
	assert.Equal(t, NewDir("/r/test"), items.All()[0])
	assert.Equal(t, NewFile("/r/test/test.txt"), items.All()[1])
}

func TestNewItemsDemotionInBothDirections(t *testing.T) {
	items, err := NewItems([]string{"/test", "/test/test/test/test.txt", "/test2.txt"})
	require.NoError(t, err)

	assert.Equal(t, []Item{
		NewFile("/test2.txt"),
		NewDir("/test"),
		NewDir("/test/test"),
		NewDir("/test/test/test"),
		NewFile("/test/test/test/test.txt"),
	}, items.All())
}

func TestNewItemsBuildsAncestorDirs(t *testing.T) {
	items, err := NewItems([]string{"/test/test/test/test.txt", "/test2.txt"})
	require.NoError(t, err)

	assert.Equal(t, []Item{
		NewFile("/test2.txt"),
		NewDir("/test"),
		NewDir("/test/test"),
		NewDir("/test/test/test"),
		NewFile("/test/test/test/test.txt"),
	}, items.All())
	assert.Equal(t, "/", items.Root())
}

func TestNewItemsMergesUnderParent(t *testing.T) {
	items, err := NewItems([]string{"/test.txt", "/test/test.txt", "/test2.txt", "/test/test2.txt"})
	require.NoError(t, err)

	assert.Equal(t, []Item{
		NewFile("/test.txt"),
		NewFile("/test2.txt"),
		NewDir("/test"),
		NewFile("/test/test.txt"),
		NewFile("/test/test2.txt"),
	}, items.All())
}

func TestNewItemsSubtreesAreContiguous(t *testing.T) {
	items, err := NewItems([]string{
		"/r/b/one.txt",
		"/r/a/two.txt",
		"/r/top.txt",
		"/r/a/sub/three.txt",
	})
	require.NoError(t, err)

	// Every Dir must be immediately followed by the block of its
	// descendants and nothing else.
	all := items.All()
	for i, it := range all {
		if !it.IsDir() {
			continue
		}
		j := i + 1
		for ; j < len(all) && hasPathPrefix(all[j].Path(), it.Path()); j++ {
		}
		for ; j < len(all); j++ {
			assert.False(t, hasPathPrefix(all[j].Path(), it.Path()),
				"subtree of %s is not contiguous", it.Path())
		}
	}
}

func TestNewItemsRejectsBadInput(t *testing.T) {
	_, err := NewItems([]string{"relative.txt"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewItems([]string{"/", "/test.txt"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewItemsEmptyInput(t *testing.T) {
	items, err := NewItems(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, items.Len())
	assert.Equal(t, "", items.Root())
}

func TestItemsGet(t *testing.T) {
	items, err := NewItems([]string{"/r/a.txt", "/r/b.txt"})
	require.NoError(t, err)

	it, ok := items.Get(0)
	require.True(t, ok)
	assert.Equal(t, "/r/a.txt", it.Path())

	_, ok = items.Get(5)
	assert.False(t, ok)

	it, ok = items.GetPath("/r/b.txt")
	require.True(t, ok)
	assert.Equal(t, "/r/b.txt", it.Path())

	_, ok = items.GetPath("/r/missing.txt")
	assert.False(t, ok)
}

func TestItemsAddKeepsOrder(t *testing.T) {
	items, err := NewItems([]string{"/r/test.txt", "/r/test/test.txt"})
	require.NoError(t, err)

	require.NoError(t, items.Add(NewFile("/r/test/test2.txt")))
	assert.Equal(t, []Item{
		NewFile("/r/test.txt"),
		NewDir("/r/test"),
		NewFile("/r/test/test.txt"),
		NewFile("/r/test/test2.txt"),
	}, items.All())
}

func TestItemsAddDuplicate(t *testing.T) {
	items, err := NewItems([]string{"/r/test.txt"})
	require.NoError(t, err)

	err = items.Add(NewFile("/r/test.txt"))
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, items.Len())
}

func TestItemsRemoveFile(t *testing.T) {
	items, err := NewItems([]string{"/r/test.txt", "/r/test2.txt"})
	require.NoError(t, err)

	removed, n, ok := items.Remove(0)
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, NewFile("/r/test.txt"), removed)
	assert.Equal(t, []string{"/r/test2.txt"}, paths(items.All()))
}

func TestItemsRemoveDirRemovesSubtree(t *testing.T) {
	// S5: removing a Dir removes exactly its subtree.
	items, err := NewItems([]string{"/r/a.txt", "/r/t/a.txt", "/r/t/b.txt", "/r/b.txt"})
	require.NoError(t, err)

	removed, n, ok := items.RemovePath("/r/t")
	require.True(t, ok)
	assert.Equal(t, NewDir("/r/t"), removed)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"/r/a.txt", "/r/b.txt"}, paths(items.All()))
}

func TestItemsRemoveDirAtEnd(t *testing.T) {
	items, err := NewItems([]string{
		"/root/test.txt",
		"/root/test",
		"/root/test/test.txt",
		"/root/test/test2.txt",
	})
	require.NoError(t, err)

	_, n, ok := items.RemovePath("/root/test")
	require.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"/root/test.txt"}, paths(items.All()))
}

func TestItemsRemoveDirDoesNotTouchSiblingPrefix(t *testing.T) {
	// "/r/test2" shares a string prefix with "/r/test" but is a sibling.
	items, err := NewItems([]string{"/r/test/a.txt", "/r/test2/b.txt"})
	require.NoError(t, err)

	_, n, ok := items.RemovePath("/r/test")
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"/r/test2", "/r/test2/b.txt"}, paths(items.All()))
}

func TestItemsAddThenRemoveRestores(t *testing.T) {
	items, err := NewItems([]string{"/r/a.txt", "/r/t/b.txt"})
	require.NoError(t, err)
	before := append([]Item(nil), items.All()...)

	require.NoError(t, items.Add(NewFile("/r/t/c.txt")))
	_, _, ok := items.RemovePath("/r/t/c.txt")
	require.True(t, ok)
	assert.Equal(t, before, items.All())
}

type globMatcher func(string) bool

func (m globMatcher) IsIgnored(path string) bool { return m(path) }

func TestItemsIgnore(t *testing.T) {
	items, err := NewItems([]string{"/r/keep.txt", "/r/skip.txt", "/r/t/skip2.txt"})
	require.NoError(t, err)

	items.Ignore(globMatcher(func(path string) bool {
		return path != "/r/keep.txt"
	}))
	assert.Equal(t, []string{"/r/keep.txt"}, paths(items.All()))
}

func TestItemsDirsFirst(t *testing.T) {
	items, err := NewItems([]string{"/r/b.txt", "/r/t/a.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/b.txt", "/r/t", "/r/t/a.txt"}, paths(items.All()))

	items.SetDirsFirst(true)
	assert.Equal(t, []string{"/r/t", "/r/t/a.txt", "/r/b.txt"}, paths(items.All()))

	items.SetDirsFirst(false)
	assert.Equal(t, []string{"/r/b.txt", "/r/t", "/r/t/a.txt"}, paths(items.All()))
}
