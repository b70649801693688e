package app

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/gobwas/glob"
	"github.com/sahilm/fuzzy"

	"projectable/internal/event"
	"projectable/internal/git"
	"projectable/internal/log"
	"projectable/internal/ui"
)

// promptToken matches a "{ask the user}" placeholder; the empty "{}" form
// is the selected path and is substituted without asking.
var promptToken = regexp.MustCompile(`\{([^{}]+)\}`)

// updatePreview re-runs the preview command for the current selection.
// Modified files show their diff instead of their contents.
func (a *App) updatePreview() {
	item, ok := a.listing.SelectedItem()
	if !ok || item.IsDir() {
		return
	}
	tmpl := a.cfg.Preview.Command
	if a.status.State(item.Path()) == git.StateModified {
		tmpl = a.cfg.Preview.GitPager
	}
	if tmpl == "" {
		return
	}

	if a.previewStop != nil {
		a.previewStop.Store(true)
	}
	stop := &atomic.Bool{}
	cmd := substitutePath(tmpl, item.Path())
	if err := event.RunCmd(cmd, a.ch, cmdPollInterval, stop); err != nil {
		log.Errorf("preview: %v", err)
		return
	}
	a.previewStop = stop
}

// openSelected toggles directories and opens files in the user's editor.
func (a *App) openSelected() {
	item, ok := a.listing.SelectedItem()
	if !ok {
		return
	}
	if item.IsDir() {
		a.listing.ToggleFold()
		return
	}
	a.openEditor(item.Path())
}

// openEditor hands the terminal to $EDITOR. Filesystem events raised while
// the editor owns the screen are buffered and replayed on return.
func (a *App) openEditor(path string) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	a.fsSuspended.Store(true)
	a.inputStop.Store(true)
	if err := a.screen.Suspend(); err != nil {
		log.Errorf("suspending terminal: %v", err)
		a.fsSuspended.Store(false)
		return
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	runErr := cmd.Run()

	if err := a.screen.Resume(); err != nil {
		log.Errorf("resuming terminal: %v", err)
	}
	a.inputStop = &atomic.Bool{}
	event.InputWatch(a.src, a.ch, a.inputStop)
	a.fsSuspended.Store(false)
	a.changeBuf.Flush(a.ch)

	if runErr != nil {
		log.Errorf("%s: %v", editor, runErr)
	}
	a.reloadGit()
}

func (a *App) promptExec() {
	a.prompt("command", func(value string) {
		if value == "" {
			return
		}
		a.runWithPrompts(value)
	})
}

// runWithPrompts asks the user for every "{...}" placeholder in turn, then
// starts the command.
func (a *App) runWithPrompts(tmpl string) {
	if item, ok := a.listing.SelectedItem(); ok {
		tmpl = substitutePath(tmpl, item.Path())
	}
	m := promptToken.FindStringSubmatchIndex(tmpl)
	if m == nil {
		a.runShell(tmpl)
		return
	}
	question := tmpl[m[2]:m[3]]
	a.prompt(question, func(answer string) {
		a.runWithPrompts(tmpl[:m[0]] + shellQuote(answer) + tmpl[m[1]:])
	})
}

func (a *App) runShell(cmd string) {
	stop := &atomic.Bool{}
	if err := event.RunCmd(cmd, a.ch, cmdPollInterval, stop); err != nil {
		log.Errorf("%v", err)
		return
	}
	a.cmdStops = append(a.cmdStops, stop)
	log.Infof("running: %s", cmd)
}

// openSpecialCommands offers the configured commands whose glob matches
// the selected file's name.
func (a *App) openSpecialCommands() {
	item, ok := a.listing.SelectedItem()
	if !ok {
		return
	}
	name := item.Name()

	var patterns []string
	for pattern := range a.cfg.Filetree.SpecialCommands {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	var cmds []string
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			log.Warnf("special command pattern %q: %v", pattern, err)
			continue
		}
		if g.Match(name) {
			cmds = append(cmds, a.cfg.Filetree.SpecialCommands[pattern]...)
		}
	}
	if len(cmds) == 0 {
		log.Infof("no special commands for %s", name)
		return
	}
	a.popup(ui.NewList("commands", cmds), func(cmd string) {
		a.runWithPrompts(cmd)
	})
}

// openSearch fuzzy-matches over every path in the project and jumps to
// the picked one, unfolding whatever hides it.
func (a *App) openSearch() {
	a.prompt("search", func(query string) {
		if query == "" {
			return
		}
		items := a.listing.Items().All()
		targets := make([]string, len(items))
		for i, item := range items {
			rel, err := filepath.Rel(a.listing.Items().Root(), item.Path())
			if err != nil {
				rel = item.Path()
			}
			targets[i] = rel
		}
		matches := fuzzy.Find(query, targets)
		if len(matches) == 0 {
			log.Infof("no matches for %q", query)
			return
		}
		results := make([]string, len(matches))
		for i, m := range matches {
			results[i] = m.Str
		}
		a.popup(ui.NewList(fmt.Sprintf("results for %q", query), results),
			func(rel string) {
				a.jumpTo(filepath.Join(a.listing.Items().Root(), rel))
			})
	})
}

// jumpTo unfolds every ancestor of path and selects it. Ancestors are
// unfolded outermost-first: an inner directory is only addressable once
// the fold hiding it is open.
func (a *App) jumpTo(path string) {
	root := a.listing.Items().Root()
	var dirs []string
	for dir := filepath.Dir(path); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
		dirs = append(dirs, dir)
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		a.listing.UnfoldPath(dirs[i])
	}
	if _, ok := a.listing.SelectPath(path); !ok {
		log.Warnf("cannot select %s", path)
		return
	}
	a.updatePreview()
}

func fuzzyMatch(pattern, s string) bool {
	return len(fuzzy.Find(pattern, []string{s})) > 0
}

// shellQuote wraps s so the shell takes it literally: double quotes for
// cmd.exe, single quotes for sh.
func shellQuote(s string) string {
	if runtime.GOOS == "windows" {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// substitutePath replaces every "{}" with the quoted path.
func substitutePath(tmpl, path string) string {
	return strings.ReplaceAll(tmpl, "{}", shellQuote(path))
}
