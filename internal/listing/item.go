// Package listing implements the flat, fold-aware file listing that backs the
// tree view. Paths are stored absolutely in a single ordered slice; the tree
// shape is recovered from path prefixes rather than a node graph.
package listing

import (
	"path/filepath"
	"strings"
)

// Item is one element of a listing, either a file or a directory. A Dir's
// descendants follow it contiguously in the stored order.
type Item struct {
	path string
	dir  bool
}

// NewFile creates a file item.
func NewFile(path string) Item {
	return Item{path: path}
}

// NewDir creates a directory item.
func NewDir(path string) Item {
	return Item{path: path, dir: true}
}

// Path returns the item's absolute path.
func (it Item) Path() string {
	return it.path
}

// IsFile reports whether the item is a file.
func (it Item) IsFile() bool {
	return !it.dir
}

// IsDir reports whether the item is a directory.
func (it Item) IsDir() bool {
	return it.dir
}

// Name returns the last path component.
func (it Item) Name() string {
	return filepath.Base(it.path)
}

// HumanCompare orders two strings with numeric runs compared by value, so
// "test2" sorts before "test10". Non-numeric runs compare byte-wise,
// case-sensitively. Returns -1, 0, or 1.
func HumanCompare(a, b string) int {
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, restA := splitNum(a)
			nb, restB := splitNum(b)
			if c := compareNum(na, nb); c != 0 {
				return c
			}
			a, b = restA, restB
			continue
		}
		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// splitNum splits off the leading digit run.
func splitNum(s string) (num, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// compareNum compares two digit runs by numeric value without parsing, so
// arbitrarily long runs are safe.
func compareNum(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// hasPathPrefix reports whether p equals prefix or lives underneath it.
// Matching is component-wise: "/r/test2" is not under "/r/test".
func hasPathPrefix(p, prefix string) bool {
	if prefix == "" {
		return false
	}
	if p == prefix {
		return true
	}
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}

// splitComponents breaks an absolute path into its components, excluding the
// leading separator.
func splitComponents(p string) []string {
	p = strings.TrimPrefix(p, string(filepath.Separator))
	if p == "" {
		return nil
	}
	return strings.Split(p, string(filepath.Separator))
}

// compareItems is the listing's total order: walk both paths component-wise
// and, at the first difference, an ancestor sorts before its descendants and
// file entries sort apart from directory entries at the same level (files
// first by default, directories first when dirsFirst is set). Ties within a
// level break by human comparison, which keeps every directory's subtree
// contiguous after its Dir entry.
func compareItems(a, b Item, dirsFirst bool) int {
	ca := splitComponents(a.path)
	cb := splitComponents(b.path)
	for i := 0; ; i++ {
		switch {
		case i >= len(ca) && i >= len(cb):
			return 0
		case i >= len(ca):
			return -1
		case i >= len(cb):
			return 1
		}
		if ca[i] == cb[i] {
			continue
		}
		// aDir is whether a's entry at this level is a directory: either
		// the path continues past it, or it is the item itself and a Dir.
		aDir := i < len(ca)-1 || a.dir
		bDir := i < len(cb)-1 || b.dir
		if aDir != bDir {
			if aDir == dirsFirst {
				return -1
			}
			return 1
		}
		return HumanCompare(ca[i], cb[i])
	}
}
