// Package git reports the working-tree status of project files so the
// tree can colour new and modified entries.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"projectable/internal/log"
)

// State classifies one path's git status.
type State int

const (
	// StateNone is a tracked, unchanged path (or no repository at all).
	StateNone State = iota
	// StateNew is an untracked path.
	StateNew
	// StateModified is a tracked path with unstaged changes.
	StateModified
	// StateStaged is a path whose changes are staged.
	StateStaged
)

// Status holds the change states of a repository's files.
type Status struct {
	states map[string]State
}

// Load collects the status of the repository containing root. It returns
// nil when root is not inside a repository, which is not an error.
func Load(root string) (*Status, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("repository worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("repository status: %w", err)
	}

	repoRoot := wt.Filesystem.Root()
	states := make(map[string]State, len(status))
	for rel, fs := range status {
		abs := filepath.Join(repoRoot, filepath.FromSlash(rel))
		if s := classify(fs); s != StateNone {
			states[abs] = s
		}
	}
	log.Debugf("git: %d changed paths under %s", len(states), repoRoot)
	return &Status{states: states}, nil
}

func classify(fs *gogit.FileStatus) State {
	switch fs.Staging {
	case gogit.Added, gogit.Modified, gogit.Renamed, gogit.Deleted, gogit.Copied:
		if fs.Worktree == gogit.Modified {
			return StateModified
		}
		return StateStaged
	}
	switch fs.Worktree {
	case gogit.Untracked:
		return StateNew
	case gogit.Modified:
		return StateModified
	}
	return StateNone
}

// State returns the change state of path. Directories take on the most
// urgent state of their descendants, so a collapsed directory still shows
// that something inside it changed.
func (s *Status) State(path string) State {
	if s == nil {
		return StateNone
	}
	if st, ok := s.states[path]; ok {
		return st
	}
	prefix := path + string(filepath.Separator)
	best := StateNone
	for p, st := range s.states {
		if strings.HasPrefix(p, prefix) && st > best {
			best = st
		}
	}
	return best
}

// Changed reports whether anything under path differs from HEAD.
func (s *Status) Changed(path string) bool {
	return s.State(path) != StateNone
}
