package listing

// FileListing wraps Items with a parallel fold bitmap and a cursor. The fold
// bitmap has exactly one bit per item; a set bit on a directory hides its
// subtree from the visible sequence while the directory itself stays
// visible. The cursor is stored as an absolute index and projected to a
// visible position on demand.
type FileListing struct {
	items    *Items
	folded   []bool
	selected int
}

// NewFileListing builds a listing from a flat list of absolute paths.
func NewFileListing(paths []string) (*FileListing, error) {
	items, err := NewItems(paths)
	if err != nil {
		return nil, err
	}
	return &FileListing{
		items:  items,
		folded: make([]bool, items.Len()),
	}, nil
}

// Items exposes the underlying collection. Mutate it only through the
// FileListing methods, or the fold bitmap falls out of step.
func (l *FileListing) Items() *Items {
	return l.items
}

// Len returns the number of visible items.
func (l *FileListing) Len() int {
	n := 0
	for it := l.visible(); ; {
		if _, _, ok := it.next(); !ok {
			return n
		}
		n++
	}
}

// IsEmpty reports whether the listing holds no items at all.
func (l *FileListing) IsEmpty() bool {
	return l.items.Len() == 0
}

// Visible returns the visible items in order, along with their absolute
// indices.
func (l *FileListing) Visible() []IndexedItem {
	var out []IndexedItem
	for it := l.visible(); ; {
		i, item, ok := it.next()
		if !ok {
			return out
		}
		out = append(out, IndexedItem{Index: i, Item: item})
	}
}

// IndexedItem pairs a visible item with its absolute position.
type IndexedItem struct {
	Index int
	Item  Item
}

// Fold hides the subtree of the directory at the given visible position.
// Folding a file succeeds as a no-op. If the selection was inside the
// folded subtree it moves to the folded directory itself.
func (l *FileListing) Fold(rel int) bool {
	abs, ok := l.relativeToAbsolute(rel)
	if !ok {
		return false
	}
	return l.foldAbs(abs)
}

// FoldPath folds the visible directory with the given path.
func (l *FileListing) FoldPath(path string) bool {
	abs, ok := l.pathToAbsolute(path)
	if !ok {
		return false
	}
	return l.foldAbs(abs)
}

func (l *FileListing) foldAbs(abs int) bool {
	item, ok := l.items.Get(abs)
	if !ok {
		return false
	}
	if item.IsFile() {
		return true
	}
	l.folded[abs] = true
	l.clampSelection()
	return true
}

// Unfold reveals the subtree of the directory at the given visible
// position. Fold bits of nested directories are preserved, so an inner fold
// survives its parent being folded and unfolded.
func (l *FileListing) Unfold(rel int) bool {
	abs, ok := l.relativeToAbsolute(rel)
	if !ok {
		return false
	}
	l.folded[abs] = false
	return true
}

// UnfoldPath unfolds the visible directory with the given path.
func (l *FileListing) UnfoldPath(path string) bool {
	abs, ok := l.pathToAbsolute(path)
	if !ok {
		return false
	}
	l.folded[abs] = false
	return true
}

// ToggleFold flips the fold state of the selected item. Selecting a file is
// a no-op.
func (l *FileListing) ToggleFold() {
	item, ok := l.items.Get(l.selected)
	if !ok || item.IsFile() {
		return
	}
	if l.folded[l.selected] {
		l.folded[l.selected] = false
	} else {
		l.foldAbs(l.selected)
	}
}

// FoldAll folds every directory in the listing.
func (l *FileListing) FoldAll() {
	for i, it := range l.items.All() {
		if it.IsDir() {
			l.folded[i] = true
		}
	}
	l.clampSelection()
}

// IsFolded reports the fold bit of the item at the given visible position.
func (l *FileListing) IsFolded(rel int) (bool, bool) {
	abs, ok := l.relativeToAbsolute(rel)
	if !ok {
		return false, false
	}
	return l.folded[abs], true
}

// IsFoldedPath reports the fold bit of the visible item with the given path.
func (l *FileListing) IsFoldedPath(path string) (bool, bool) {
	abs, ok := l.pathToAbsolute(path)
	if !ok {
		return false, false
	}
	return l.folded[abs], true
}

// Select moves the cursor to the given visible position.
func (l *FileListing) Select(rel int) (Item, bool) {
	abs, ok := l.relativeToAbsolute(rel)
	if !ok {
		return Item{}, false
	}
	l.selected = abs
	item, _ := l.items.Get(abs)
	return item, true
}

// SelectPath moves the cursor to the visible item with the given path.
func (l *FileListing) SelectPath(path string) (Item, bool) {
	abs, ok := l.pathToAbsolute(path)
	if !ok {
		return Item{}, false
	}
	l.selected = abs
	item, _ := l.items.Get(abs)
	return item, true
}

// SelectFirst jumps to the first visible item.
func (l *FileListing) SelectFirst() {
	l.selected = 0
}

// SelectLast jumps to the last visible item.
func (l *FileListing) SelectLast() {
	last := l.selected
	for it := l.visible(); ; {
		i, _, ok := it.next()
		if !ok {
			break
		}
		last = i
	}
	l.selected = last
}

// SelectNext advances the selection by one visible step.
func (l *FileListing) SelectNext() {
	l.SelectNextN(1)
}

// SelectPrev retreats the selection by one visible step.
func (l *FileListing) SelectPrev() {
	l.SelectPrevN(1)
}

// SelectNextN advances the selection by n visible steps, stopping at the
// last visible item.
func (l *FileListing) SelectNextN(n int) {
	if l.IsEmpty() {
		return
	}
	target := l.Selected() + n
	abs, ok := l.relativeToAbsolute(target)
	if !ok {
		l.SelectLast()
		return
	}
	l.selected = abs
}

// SelectPrevN retreats the selection by n visible steps, stopping at the
// first visible item.
func (l *FileListing) SelectPrevN(n int) {
	if l.IsEmpty() {
		return
	}
	target := l.Selected() - n
	if target < 0 {
		target = 0
	}
	if abs, ok := l.relativeToAbsolute(target); ok {
		l.selected = abs
	}
}

// Selected returns the 0-based position of the cursor in the visible
// sequence.
func (l *FileListing) Selected() int {
	for rel, it := 0, l.visible(); ; rel++ {
		abs, _, ok := it.next()
		if !ok {
			return 0
		}
		if abs == l.selected {
			return rel
		}
	}
}

// SelectedItem returns the item under the cursor.
func (l *FileListing) SelectedItem() (Item, bool) {
	return l.items.Get(l.selected)
}

// Add inserts an item, keeping fold state and the selection attached to
// their paths across the re-sort.
func (l *FileListing) Add(item Item) error {
	foldedPaths := l.foldedPaths()
	selPath := ""
	if sel, ok := l.items.Get(l.selected); ok {
		selPath = sel.Path()
	}
	if err := l.items.Add(item); err != nil {
		return err
	}
	l.rebuildFolded(foldedPaths)
	l.restoreSelection(selPath)
	return nil
}

// RemovePath deletes the item with the given path, subtree included, and
// reports the removed root item. The path does not need to be visible.
func (l *FileListing) RemovePath(path string) (Item, bool) {
	i, ok := l.items.IndexOf(path)
	if !ok {
		return Item{}, false
	}
	item, n, _ := l.items.Remove(i)
	l.folded = append(l.folded[:i], l.folded[i+n:]...)
	switch {
	case l.selected >= i+n:
		l.selected -= n
	case l.selected >= i:
		l.selected = i
	}
	if l.selected >= l.items.Len() {
		l.selected = l.items.Len() - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.clampSelection()
	return item, true
}

// SetDirsFirst re-sorts siblings with directories first (or back to files
// first), carrying fold state and the selection across the re-sort.
func (l *FileListing) SetDirsFirst(v bool) {
	foldedPaths := l.foldedPaths()
	selPath := ""
	if sel, ok := l.items.Get(l.selected); ok {
		selPath = sel.Path()
	}
	l.items.SetDirsFirst(v)
	l.rebuildFolded(foldedPaths)
	l.restoreSelection(selPath)
}

// Ignore drops every item the matcher rejects, carrying fold state and
// the selection across the filter.
func (l *FileListing) Ignore(m Matcher) {
	foldedPaths := l.foldedPaths()
	selPath := ""
	if sel, ok := l.items.Get(l.selected); ok {
		selPath = sel.Path()
	}
	l.items.Ignore(m)
	l.rebuildFolded(foldedPaths)
	l.restoreSelection(selPath)
}

// RemoveSelected deletes the item under the cursor, subtree included.
func (l *FileListing) RemoveSelected() (Item, bool) {
	item, ok := l.items.Get(l.selected)
	if !ok {
		return Item{}, false
	}
	return l.RemovePath(item.Path())
}

type visibleIter struct {
	l    *FileListing
	idx  int
	fold string
}

func (l *FileListing) visible() *visibleIter {
	return &visibleIter{l: l}
}

// next walks the stored order, skipping everything underneath the most
// recent folded directory. The folded directory itself is emitted.
func (v *visibleIter) next() (int, Item, bool) {
	for v.idx < v.l.items.Len() {
		i := v.idx
		item := v.l.items.items[i]
		v.idx++
		if v.fold != "" {
			if hasPathPrefix(item.path, v.fold) {
				continue
			}
			v.fold = ""
		}
		if v.l.folded[i] {
			v.fold = item.path
		}
		return i, item, true
	}
	return 0, Item{}, false
}

// relativeToAbsolute resolves the n-th visible position to an absolute
// index.
func (l *FileListing) relativeToAbsolute(rel int) (int, bool) {
	if rel < 0 {
		return 0, false
	}
	for n, it := 0, l.visible(); ; n++ {
		abs, _, ok := it.next()
		if !ok {
			return 0, false
		}
		if n == rel {
			return abs, true
		}
	}
}

// pathToAbsolute resolves a path among the visible items.
func (l *FileListing) pathToAbsolute(path string) (int, bool) {
	for it := l.visible(); ; {
		abs, item, ok := it.next()
		if !ok {
			return 0, false
		}
		if item.path == path {
			return abs, true
		}
	}
}

// clampSelection moves a selection hidden by a fold to its nearest visible
// ancestor, which is the folded directory itself.
func (l *FileListing) clampSelection() {
	if l.items.Len() == 0 {
		l.selected = 0
		return
	}
	nearest := 0
	for it := l.visible(); ; {
		abs, _, ok := it.next()
		if !ok {
			break
		}
		if abs == l.selected {
			return
		}
		if abs > l.selected {
			break
		}
		nearest = abs
	}
	l.selected = nearest
}

func (l *FileListing) foldedPaths() map[string]bool {
	out := make(map[string]bool)
	for i, folded := range l.folded {
		if folded {
			out[l.items.items[i].path] = true
		}
	}
	return out
}

func (l *FileListing) rebuildFolded(foldedPaths map[string]bool) {
	l.folded = make([]bool, l.items.Len())
	for i, it := range l.items.All() {
		l.folded[i] = foldedPaths[it.path]
	}
}

func (l *FileListing) restoreSelection(path string) {
	if path == "" {
		l.selected = 0
		return
	}
	if i, ok := l.items.IndexOf(path); ok {
		l.selected = i
	}
	l.clampSelection()
}
