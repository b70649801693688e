package listing

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// Errors reported by listing mutations. Callers match with errors.Is.
var (
	// ErrInvalidInput marks relative paths or the filesystem root being
	// passed where an absolute, non-root path is required.
	ErrInvalidInput = errors.New("invalid input path")
	// ErrDuplicate marks an Add of a path that is already present.
	ErrDuplicate = errors.New("duplicate item")
	// ErrCorruptInvariant marks a re-sort that found two items with the
	// same path. It indicates a caller bug, not a recoverable condition.
	ErrCorruptInvariant = errors.New("listing invariant corrupted")
)

// Items is the canonical ordered sequence of files and directories under a
// common root. Every directory entry is immediately followed by its subtree;
// siblings are human-sorted. See NewItems for how the sequence is derived.
type Items struct {
	items     []Item
	root      string
	dirsFirst bool
}

// NewItems builds the canonical sequence from a flat list of absolute paths.
// The root becomes the deepest common ancestor of the inputs. Every proper
// ancestor of an input shows up as a Dir entry, and inputs that turn out to
// be ancestors of other inputs are demoted from files to directories.
func NewItems(paths []string) (*Items, error) {
	if len(paths) == 0 {
		return &Items{}, nil
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidInput, p)
		}
		if filepath.Dir(p) == p {
			return nil, fmt.Errorf("%w: %q has no parent", ErrInvalidInput, p)
		}
	}

	// The root is the deepest proper ancestor shared by every input. It has
	// to be proper: an input that is itself the common prefix (a directory
	// passed alongside its children) must stay in the listing as a Dir.
	root := filepath.Dir(paths[0])
	for _, p := range paths {
		for p == root || !hasPathPrefix(p, root) {
			if filepath.Dir(root) == root {
				break
			}
			root = filepath.Dir(root)
		}
	}

	// Collect every proper ancestor of every input. Anything in this set is
	// a directory, no matter how it was passed in.
	dirs := make(map[string]struct{})
	for _, p := range paths {
		for anc := filepath.Dir(p); ; anc = filepath.Dir(anc) {
			dirs[anc] = struct{}{}
			if filepath.Dir(anc) == anc {
				break
			}
		}
	}

	seen := make(map[string]struct{}, len(paths))
	var items []Item
	for _, p := range paths {
		if _, isDir := dirs[p]; isDir {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if p != root && hasPathPrefix(p, root) {
			items = append(items, NewFile(p))
		}
	}
	for d := range dirs {
		if d != root && hasPathPrefix(d, root) {
			items = append(items, NewDir(d))
		}
	}

	it := &Items{items: items, root: root}
	it.sort()
	return it, nil
}

// Len returns the number of stored items.
func (s *Items) Len() int {
	return len(s.items)
}

// Root returns the common ancestor all items live under.
func (s *Items) Root() string {
	return s.root
}

// All returns the items in stored order. The slice is shared; callers must
// not mutate it.
func (s *Items) All() []Item {
	return s.items
}

// Get returns the item at an absolute position.
func (s *Items) Get(i int) (Item, bool) {
	if i < 0 || i >= len(s.items) {
		return Item{}, false
	}
	return s.items[i], true
}

// GetPath returns the item with the given path, if present.
func (s *Items) GetPath(path string) (Item, bool) {
	i, ok := s.IndexOf(path)
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

// IndexOf returns the absolute position of the item with the given path.
func (s *Items) IndexOf(path string) (int, bool) {
	for i, it := range s.items {
		if it.path == path {
			return i, true
		}
	}
	return 0, false
}

// Add inserts an item and restores the canonical order. Adding a path that
// is already present fails with ErrDuplicate. If the re-sort uncovers two
// items sharing a path the listing is corrupt and ErrCorruptInvariant is
// returned.
func (s *Items) Add(item Item) error {
	for _, it := range s.items {
		if it.path == item.path {
			return fmt.Errorf("%w: %s", ErrDuplicate, item.path)
		}
	}
	s.items = append(s.items, item)
	s.sort()
	for i := 1; i < len(s.items); i++ {
		if s.items[i].path == s.items[i-1].path {
			return fmt.Errorf("%w: %s appears twice", ErrCorruptInvariant, s.items[i].path)
		}
	}
	return nil
}

// Remove deletes the item at an absolute position. Removing a directory
// also removes its entire contiguous subtree. It returns the removed item
// and how many items were deleted in total.
func (s *Items) Remove(i int) (Item, int, bool) {
	if i < 0 || i >= len(s.items) {
		return Item{}, 0, false
	}
	item := s.items[i]
	end := i + 1
	if item.IsDir() {
		for end < len(s.items) && hasPathPrefix(s.items[end].path, item.path) {
			end++
		}
	}
	n := end - i
	s.items = append(s.items[:i], s.items[end:]...)
	return item, n, true
}

// RemovePath deletes the item with the given path, subtree included.
func (s *Items) RemovePath(path string) (Item, int, bool) {
	i, ok := s.IndexOf(path)
	if !ok {
		return Item{}, 0, false
	}
	return s.Remove(i)
}

// Matcher decides whether a path is excluded from the listing.
type Matcher interface {
	IsIgnored(path string) bool
}

// Ignore drops every item the matcher excludes and returns the receiver.
func (s *Items) Ignore(m Matcher) *Items {
	kept := s.items[:0]
	for _, it := range s.items {
		if !m.IsIgnored(it.path) {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s
}

// SetDirsFirst switches between the default files-before-directories
// sibling order and directories-first, re-sorting in place.
func (s *Items) SetDirsFirst(v bool) {
	if s.dirsFirst == v {
		return
	}
	s.dirsFirst = v
	s.sort()
}

func (s *Items) sort() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return compareItems(s.items[i], s.items[j], s.dirsFirst) < 0
	})
}
