package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"projectable/internal/event"
	"projectable/internal/listing"
	"projectable/internal/log"
)

func (a *App) handle(ev event.ExternalEvent) {
	switch ev := ev.(type) {
	case event.TerminalInput:
		a.handleInput(ev)
	case event.RefreshFiletree:
		a.refresh()
	case event.PartialRefresh:
		a.partialRefresh(ev.Data)
	case event.CommandOutput:
		a.preview.SetContent(ev.Output)
		a.commandDone()
	case event.Error:
		log.Errorf("%v", ev.Err)
	}
}

// refresh rebuilds the listing from disk, carrying fold state and the
// selection over to the new tree. Refreshing twice in a row lands on the
// same result.
func (a *App) refresh() {
	old := a.listing
	if err := a.buildListing(); err != nil {
		log.Errorf("refresh: %v", err)
		a.listing = old
		return
	}
	selPath := ""
	if item, ok := old.SelectedItem(); ok {
		selPath = item.Path()
	}
	for _, item := range old.Items().All() {
		if !item.IsDir() {
			continue
		}
		if folded, ok := old.IsFoldedPath(item.Path()); ok && folded {
			a.listing.FoldPath(item.Path())
		}
	}
	if selPath != "" {
		a.listing.SelectPath(selPath)
	}
	a.reloadGit()
	log.Debugf("refreshed %d items", a.listing.Items().Len())
}

// partialRefresh applies individual filesystem changes without a rescan.
// Ignored paths are dropped, deletes of unknown paths are no-ops, and a
// duplicate add means the tree already caught up.
func (a *App) partialRefresh(data []event.RefreshData) {
	for _, d := range data {
		switch d.Kind {
		case event.RefreshAdd:
			if a.matcher.IsIgnored(d.Path) {
				continue
			}
			if a.hideDotfiles && strings.HasPrefix(filepath.Base(d.Path), ".") {
				continue
			}
			item := listing.NewFile(d.Path)
			if info, err := os.Stat(d.Path); err == nil && info.IsDir() {
				item = listing.NewDir(d.Path)
			}
			if err := a.listing.Add(item); err != nil {
				if errors.Is(err, listing.ErrDuplicate) {
					continue
				}
				log.Errorf("adding %s: %v", d.Path, err)
			}
		case event.RefreshDelete:
			a.listing.RemovePath(d.Path)
		}
	}
	a.reloadGit()
}

// commandDone drops the stop flags of finished commands. RunCmd marks a
// flag spent when its process exits, so only the commands that actually
// completed are released and a still-running one keeps its flag.
func (a *App) commandDone() {
	if a.previewStop != nil && a.previewStop.Load() {
		a.previewStop = nil
	}
	kept := a.cmdStops[:0]
	for _, stop := range a.cmdStops {
		if !stop.Load() {
			kept = append(kept, stop)
		}
	}
	a.cmdStops = kept
}
