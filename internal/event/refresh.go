package event

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"projectable/internal/log"
)

// debounceWindow groups bursts of filesystem changes into one refresh.
const debounceWindow = 2 * time.Second

// FsWatch watches root and every directory below it, batching create and
// remove events over a debounce window into a single PartialRefresh. While
// suspended is true, changes are diverted into buf instead of ch so the
// consumer can replay them later. The returned func stops the watch.
func FsWatch(root string, ch *Channel, suspended *atomic.Bool, buf *ChangeBuffer) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// fsnotify does not recurse on its own
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.Warnf("watch: skipping %s: %v", p, walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && p != root {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			log.Warnf("watch: cannot watch %s: %v", p, err)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}
	go fsWatchLoop(watcher, ch, suspended, buf)
	return watcher.Close, nil
}

func fsWatchLoop(watcher *fsnotify.Watcher, ch *Channel, suspended *atomic.Bool, buf *ChangeBuffer) {
	timer := time.NewTimer(debounceWindow)
	if !timer.Stop() {
		<-timer.C
	}
	var batch []RefreshData
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				if len(batch) > 0 {
					deliver(batch, ch, suspended, buf)
				}
				return
			}
			data, relevant := translate(ev)
			if !relevant {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				// new directories need their own watch
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						log.Warnf("watch: cannot watch %s: %v", ev.Name, err)
					}
				}
			}
			if len(batch) == 0 {
				timer.Reset(debounceWindow)
			}
			batch = append(batch, data)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %v", err)
			ch.Send(Error{Err: err})
		case <-timer.C:
			deliver(batch, ch, suspended, buf)
			batch = nil
		}
	}
}

// translate maps an fsnotify event onto a refresh change. Writes and
// permission changes do not alter the listing and are dropped.
func translate(ev fsnotify.Event) (RefreshData, bool) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		return Added(ev.Name), true
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		return Deleted(ev.Name), true
	default:
		return RefreshData{}, false
	}
}

func deliver(batch []RefreshData, ch *Channel, suspended *atomic.Bool, buf *ChangeBuffer) {
	if len(batch) == 0 {
		return
	}
	if suspended.Load() {
		for _, d := range batch {
			buf.Add(d)
		}
		return
	}
	ch.Send(PartialRefresh{Data: batch})
}

// ChangeBuffer holds filesystem changes that arrived while event delivery
// was suspended. Flush replays them as one PartialRefresh per change kind,
// adds before deletes, so a resumed consumer sees the same net effect.
type ChangeBuffer struct {
	mu      sync.Mutex
	created []string
	removed []string
}

// Add records one change.
func (b *ChangeBuffer) Add(d RefreshData) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch d.Kind {
	case RefreshAdd:
		b.created = append(b.created, d.Path)
	case RefreshDelete:
		b.removed = append(b.removed, d.Path)
	}
}

// Len returns the number of buffered changes.
func (b *ChangeBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.created) + len(b.removed)
}

// Flush drains the buffer into ch.
func (b *ChangeBuffer) Flush(ch *Channel) {
	b.mu.Lock()
	created, removed := b.created, b.removed
	b.created, b.removed = nil, nil
	b.mu.Unlock()

	if len(created) > 0 {
		data := make([]RefreshData, 0, len(created))
		for _, p := range created {
			data = append(data, Added(p))
		}
		ch.Send(PartialRefresh{Data: data})
	}
	if len(removed) > 0 {
		data := make([]RefreshData, 0, len(removed))
		for _, p := range removed {
			data = append(data, Deleted(p))
		}
		ch.Send(PartialRefresh{Data: data})
	}
}
