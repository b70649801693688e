package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"projectable/internal/config"
	"projectable/internal/event"
	"projectable/internal/listing"
	"projectable/internal/log"
	"projectable/internal/ui"
)

func (a *App) handleInput(ev event.TerminalInput) {
	switch tev := ev.Event.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		switch a.mode {
		case ModeTree:
			a.treeKey(tev)
		case ModeInput:
			a.inputKey(tev)
		case ModeConfirm:
			a.confirmKey(tev)
		case ModeList:
			a.listKey(tev)
		}
	}
}

func (a *App) treeKey(ev *tcell.EventKey) {
	k := a.cfg.Keys
	moved := true
	switch {
	case config.MatchesBinding(k.Down, ev):
		a.listing.SelectNext()
	case config.MatchesBinding(k.Up, ev):
		a.listing.SelectPrev()
	case config.MatchesBinding(k.DownThree, ev):
		a.listing.SelectNextN(3)
	case config.MatchesBinding(k.UpThree, ev):
		a.listing.SelectPrevN(3)
	case config.MatchesBinding(k.AllDown, ev):
		a.listing.SelectLast()
	case config.MatchesBinding(k.AllUp, ev):
		a.listing.SelectFirst()
	default:
		moved = false
	}
	if moved {
		a.updatePreview()
		return
	}

	switch {
	case config.MatchesBinding(k.Quit, ev):
		a.quit = true
	case config.MatchesBinding(k.Help, ev):
		a.openHelp()
	case config.MatchesBinding(k.Open, ev):
		a.openSelected()
	case config.MatchesBinding(k.ToggleFold, ev):
		a.listing.ToggleFold()
	case config.MatchesBinding(k.CloseAll, ev):
		a.listing.FoldAll()
	case config.MatchesBinding(k.Refresh, ev):
		a.ch.Send(event.RefreshFiletree{})
	case config.MatchesBinding(k.Delete, ev):
		a.deleteSelected()
	case config.MatchesBinding(k.NewFile, ev):
		a.promptNewPath(false)
	case config.MatchesBinding(k.NewDir, ev):
		a.promptNewPath(true)
	case config.MatchesBinding(k.ExecCmd, ev):
		a.promptExec()
	case config.MatchesBinding(k.SpecialCommand, ev):
		a.openSpecialCommands()
	case config.MatchesBinding(k.Search, ev):
		a.openSearch()
	case config.MatchesBinding(k.Filter, ev):
		a.promptFilter()
	case config.MatchesBinding(k.Clear, ev):
		a.preview.SetContent("")
		if a.filter != "" {
			a.filter = ""
			a.refresh()
		}
	case config.MatchesBinding(k.Mark, ev):
		a.toggleMark()
	case config.MatchesBinding(k.OpenMarks, ev):
		a.openMarks()
	case config.MatchesBinding(k.ToggleHidden, ev):
		a.hideDotfiles = !a.hideDotfiles
		a.refresh()
	case config.MatchesBinding(k.KillProcesses, ev):
		a.stopCommands()
		log.Infof("killed running commands")
	}
}

func (a *App) inputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		value := a.input.Value()
		done := a.onInput
		a.closeInput()
		if done != nil {
			done(value)
		}
	case tcell.KeyEscape:
		a.closeInput()
	default:
		a.input.HandleKey(ev)
	}
}

func (a *App) closeInput() {
	a.mode = ModeTree
	a.input = nil
	a.onInput = nil
	a.screen.HideCursor()
}

func (a *App) confirmKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'y':
		yes := a.onYes
		a.mode = ModeTree
		a.confirm, a.onYes = nil, nil
		if yes != nil {
			yes()
		}
	case ev.Key() == tcell.KeyEscape,
		ev.Key() == tcell.KeyRune && ev.Rune() == 'n':
		a.mode = ModeTree
		a.confirm, a.onYes = nil, nil
	}
}

func (a *App) listKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyDown, tcell.KeyTab:
		a.list.Next()
	case tcell.KeyUp, tcell.KeyBacktab:
		a.list.Prev()
	case tcell.KeyEnter:
		picked, ok := a.list.Selected()
		pick := a.onPick
		a.closeList()
		if ok && pick != nil {
			pick(picked)
		}
	case tcell.KeyEscape:
		a.closeList()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			a.list.Next()
		case 'k':
			a.list.Prev()
		case 'd':
			a.removeListEntry()
		}
	}
}

func (a *App) removeListEntry() {
	if a.onRemove == nil {
		return
	}
	picked, ok := a.list.Selected()
	if !ok {
		return
	}
	a.onRemove(picked)
	if a.list.Len() == 0 {
		a.closeList()
	}
}

func (a *App) closeList() {
	a.mode = ModeTree
	a.list, a.onPick, a.onRemove = nil, nil, nil
}

func (a *App) prompt(label string, done func(string)) {
	a.mode = ModeInput
	a.input = ui.NewInput(label)
	a.onInput = done
}

func (a *App) ask(question string, yes func()) {
	a.mode = ModeConfirm
	a.confirm = ui.NewConfirm(question)
	a.onYes = yes
}

func (a *App) popup(list *ui.List, pick func(string)) {
	a.mode = ModeList
	a.list = list
	a.onPick = pick
}

func (a *App) deleteSelected() {
	item, ok := a.listing.SelectedItem()
	if !ok {
		return
	}
	a.ask(fmt.Sprintf("delete %s?", item.Path()), func() {
		if err := os.RemoveAll(item.Path()); err != nil {
			log.Errorf("deleting %s: %v", item.Path(), err)
			return
		}
		a.listing.RemovePath(item.Path())
		log.Infof("deleted %s", item.Path())
	})
}

// promptNewPath asks for a name and creates a file or directory next to
// the selection (inside it when a directory is selected).
func (a *App) promptNewPath(dir bool) {
	base := a.root
	if item, ok := a.listing.SelectedItem(); ok {
		if item.IsDir() {
			base = item.Path()
		} else {
			base = filepath.Dir(item.Path())
		}
	}
	label := "new file"
	if dir {
		label = "new directory"
	}
	a.prompt(label, func(name string) {
		if name == "" {
			return
		}
		path := filepath.Join(base, name)
		if err := createPath(path, dir); err != nil {
			log.Errorf("creating %s: %v", path, err)
			return
		}
		item := listing.NewFile(path)
		if dir {
			item = listing.NewDir(path)
		}
		if err := a.listing.Add(item); err != nil && !errors.Is(err, listing.ErrDuplicate) {
			log.Errorf("listing %s: %v", path, err)
			return
		}
		a.listing.SelectPath(path)
		log.Infof("created %s", path)
	})
}

func createPath(path string, dir bool) error {
	if dir {
		return os.MkdirAll(path, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

func (a *App) promptFilter() {
	a.prompt("filter", func(value string) {
		a.filter = value
		a.refresh()
	})
}

func (a *App) toggleMark() {
	item, ok := a.listing.SelectedItem()
	if !ok {
		return
	}
	if a.marks.Contains(item.Path()) {
		a.marks.Remove(item.Path())
	} else {
		a.marks.Add(item.Path())
	}
	if err := a.marks.Write(); err != nil {
		log.Errorf("saving marks: %v", err)
	}
}

func (a *App) openMarks() {
	paths := a.marks.Paths()
	if len(paths) == 0 {
		log.Infof("no marks yet")
		return
	}
	a.popup(ui.NewList("marks (d removes)", paths), a.jumpTo)
	a.onRemove = func(path string) {
		a.marks.Remove(path)
		if err := a.marks.Write(); err != nil {
			log.Errorf("saving marks: %v", err)
		}
		a.list.SetItems(a.marks.Paths())
	}
}

func (a *App) openHelp() {
	k := a.cfg.Keys
	lines := []string{
		k.Down + "/" + k.Up + "  move",
		k.AllUp + "/" + k.AllDown + "  jump to top/bottom",
		k.Open + "  open in editor",
		k.ToggleFold + "  fold/unfold directory",
		k.CloseAll + "  fold everything",
		k.Refresh + "  rescan project",
		k.NewFile + "/" + k.NewDir + "  create file/directory",
		k.Delete + "  delete selection",
		k.ExecCmd + "  run shell command",
		k.SpecialCommand + "  file-specific commands",
		k.Search + "  fuzzy search",
		k.Filter + "  filter tree",
		k.Mark + "/" + k.OpenMarks + "  mark / open marks",
		k.ToggleHidden + "  show or hide dotfiles",
		k.KillProcesses + "  kill running commands",
		k.Quit + "  quit",
	}
	a.popup(ui.NewList("help", lines), nil)
}
