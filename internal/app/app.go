// Package app wires the panes, the event producers, and the listing into
// a running application. All state changes happen on the event loop
// goroutine; producers only ever send events.
package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"projectable/internal/config"
	"projectable/internal/event"
	"projectable/internal/git"
	"projectable/internal/ignore"
	"projectable/internal/listing"
	"projectable/internal/log"
	"projectable/internal/marks"
	"projectable/internal/ui"
)

// Mode is the input mode the application is in.
type Mode int

const (
	// ModeTree routes keys to the file tree.
	ModeTree Mode = iota
	// ModeInput routes keys to the bottom prompt.
	ModeInput
	// ModeConfirm waits for a yes/no answer.
	ModeConfirm
	// ModeList routes keys to a popup list.
	ModeList
)

const cmdPollInterval = 50 * time.Millisecond

// App holds the whole application state.
type App struct {
	cfg    *config.Config
	root   string
	screen tcell.Screen

	ch          *event.Channel
	src         chan tcell.Event
	inputStop   *atomic.Bool
	fsStop      func() error
	fsSuspended atomic.Bool
	changeBuf   event.ChangeBuffer

	listing *listing.FileListing
	matcher *ignore.Ignore
	status  *git.Status
	marks   *marks.Marks
	msgBuf  *log.Buffer

	tree    ui.Tree
	preview ui.Preview

	mode     Mode
	input    *ui.Input
	onInput  func(string)
	confirm  *ui.Confirm
	onYes    func()
	list     *ui.List
	onPick   func(string)
	onRemove func(string)

	filter       string
	hideDotfiles bool
	previewStop  *atomic.Bool
	cmdStops     []*atomic.Bool

	quit bool
}

// New builds the application for the project at root.
func New(cfg *config.Config, root string, screen tcell.Screen) (*App, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	a := &App{
		cfg:       cfg,
		root:      root,
		screen:    screen,
		ch:        event.NewChannel(),
		inputStop: &atomic.Bool{},
		msgBuf:    log.NewBuffer(100),
	}
	log.AddHook(a.msgBuf)

	a.matcher = ignore.NewBuilder(root).
		Globs(cfg.Filetree.Ignore).
		UseGitignore(cfg.Filetree.UseGitignore).
		Build()

	if err := a.buildListing(); err != nil {
		return nil, err
	}
	a.listing.FoldAll()
	a.reloadGit()
	a.marks = marks.Load(root)
	return a, nil
}

// Run starts the producers and spins the event loop until quit.
func (a *App) Run() error {
	a.src = make(chan tcell.Event, 16)
	quitSrc := make(chan struct{})
	go a.screen.ChannelEvents(a.src, quitSrc)
	defer close(quitSrc)

	event.InputWatch(a.src, a.ch, a.inputStop)
	stop, err := event.FsWatch(a.root, a.ch, &a.fsSuspended, &a.changeBuf)
	if err != nil {
		log.Errorf("file watch unavailable: %v", err)
	} else {
		a.fsStop = stop
		defer a.fsStop()
	}

	for !a.quit {
		a.draw()
		a.handle(a.ch.Recv())
		// drain anything that queued up while handling, one paint per burst
		for {
			ev, ok := a.ch.TryRecv()
			if !ok {
				break
			}
			a.handle(ev)
		}
	}
	a.stopCommands()
	return nil
}

// buildListing scans the project tree into a fresh listing.
func (a *App) buildListing() error {
	files, emptyDirs, err := scan(a.root, a.matcher, a.hideDotfiles)
	if err != nil {
		return err
	}
	l, err := listing.NewFileListing(files)
	if err != nil {
		return err
	}
	for _, d := range emptyDirs {
		if err := l.Add(listing.NewDir(d)); err != nil {
			log.Warnf("listing %s: %v", d, err)
		}
	}
	if a.cfg.Filetree.DirsFirst {
		l.SetDirsFirst(true)
	}
	if a.filter != "" {
		dirs := map[string]bool{}
		for _, it := range l.Items().All() {
			if it.IsDir() {
				dirs[it.Path()] = true
			}
		}
		query := a.filter
		l.Ignore(matcherFunc(func(p string) bool {
			return !dirs[p] && !fuzzyMatch(query, filepath.Base(p))
		}))
	}
	a.listing = l
	return nil
}

type matcherFunc func(string) bool

func (m matcherFunc) IsIgnored(path string) bool { return m(path) }

// scan walks root and returns the regular files plus any directories that
// contain nothing, so they still get an entry.
func scan(root string, matcher *ignore.Ignore, hideDotfiles bool) (files, emptyDirs []string, err error) {
	children := map[string]int{}
	var dirs []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.Warnf("scan: skipping %s: %v", p, walkErr)
			return nil
		}
		if p != root {
			hidden := hideDotfiles && strings.HasPrefix(d.Name(), ".")
			if hidden || matcher.IsIgnored(p) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			children[filepath.Dir(p)]++
		}
		if d.IsDir() {
			if p != root {
				dirs = append(dirs, p)
			}
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for _, d := range dirs {
		if children[d] == 0 {
			emptyDirs = append(emptyDirs, d)
		}
	}
	return files, emptyDirs, nil
}

func (a *App) reloadGit() {
	if !a.cfg.Filetree.UseGit {
		return
	}
	status, err := git.Load(a.root)
	if err != nil {
		log.Warnf("git status: %v", err)
		return
	}
	a.status = status
}

// Root returns the project root the application was opened on.
func (a *App) Root() string {
	return a.root
}

// Listing exposes the file listing.
func (a *App) Listing() *listing.FileListing {
	return a.listing
}

func (a *App) stopCommands() {
	if a.previewStop != nil {
		a.previewStop.Store(true)
		a.previewStop = nil
	}
	for _, s := range a.cmdStops {
		s.Store(true)
	}
	a.cmdStops = nil
}

func (a *App) draw() {
	a.screen.HideCursor()
	w, h := a.screen.Size()
	full := ui.Rect{X: 0, Y: 0, W: w, H: h}

	body := ui.Rect{X: 0, Y: 0, W: w, H: h - 1}
	if a.mode == ModeInput {
		body.H -= 3
	}
	treeW := w * 2 / 5
	a.tree.Draw(a.screen, ui.Rect{X: 0, Y: 0, W: treeW, H: body.H},
		filepath.Base(a.root),
		ui.Rows(a.listing, a.status, a.marks.Contains))
	a.preview.Draw(a.screen, ui.Rect{X: treeW, Y: 0, W: w - treeW, H: body.H}, "preview")

	ui.StatusBar(a.screen, ui.Rect{X: 0, Y: h - 1, W: w, H: 1},
		a.msgBuf, len(a.cmdStops), a.filter)

	switch a.mode {
	case ModeInput:
		a.input.Draw(a.screen, ui.Rect{X: 0, Y: h - 4, W: w, H: 3})
	case ModeConfirm:
		a.confirm.Draw(a.screen, full)
	case ModeList:
		a.list.Draw(a.screen, full)
	}
	a.screen.Show()
}
