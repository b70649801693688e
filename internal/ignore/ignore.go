// Package ignore decides which paths are excluded from the file listing,
// combining user-supplied globs, the repository's .gitignore, and the global
// gitignore.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	gitignore "github.com/sabhiram/go-gitignore"

	"projectable/internal/log"
)

// Builder configures an Ignore. User globs use gitignore syntax; directory
// patterns also hide their contents.
type Builder struct {
	root         string
	useGitignore bool
	globs        []string
}

// NewBuilder starts a builder rooted at the project directory.
func NewBuilder(root string) *Builder {
	return &Builder{root: root, useGitignore: true}
}

// Globs sets the user-supplied ignore patterns.
func (b *Builder) Globs(globs []string) *Builder {
	b.globs = globs
	return b
}

// UseGitignore toggles whether .gitignore files are consulted.
func (b *Builder) UseGitignore(yes bool) *Builder {
	b.useGitignore = yes
	return b
}

// Build compiles the matcher. Problems loading gitignore files are logged
// and skipped; only a malformed user glob set aborts.
func (b *Builder) Build() *Ignore {
	// Register both the pattern and its recursive form so ignoring a
	// directory hides everything under it, plus the implicit .git
	// exclusion.
	lines := make([]string, 0, len(b.globs)*2+1)
	for _, g := range b.globs {
		lines = append(lines, g, strings.TrimSuffix(g, "/")+"/**")
	}
	lines = append(lines, "/.git")

	ig := &Ignore{
		root:      b.root,
		overrides: gitignore.CompileIgnoreLines(lines...),
	}
	if !b.useGitignore {
		return ig
	}

	local := filepath.Join(b.root, ".gitignore")
	if _, err := os.Stat(local); err == nil {
		compiled, err := gitignore.CompileIgnoreFile(local)
		if err != nil {
			log.Warnf("problem adding gitignore file: %v", err)
		} else {
			ig.gitignore = compiled
		}
	}
	if global := globalGitignore(); global != nil {
		ig.global = global
	}
	return ig
}

// globalGitignore loads the user's global ignore file from git's default
// location. A missing or unreadable file is not an error.
func globalGitignore() *gitignore.GitIgnore {
	path := filepath.Join(xdg.ConfigHome, "git", "ignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	compiled, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		log.Warnf("problem building global gitignore: %v", err)
		return nil
	}
	return compiled
}

// Ignore answers whether a path is excluded. The zero value ignores
// nothing except nothing at all; use NewBuilder for the implicit .git rule.
type Ignore struct {
	root      string
	overrides *gitignore.GitIgnore
	gitignore *gitignore.GitIgnore
	global    *gitignore.GitIgnore
}

// IsIgnored reports whether the path is excluded by the user globs, the
// implicit .git rule, or (when enabled) a gitignore. Paths outside the root
// are never ignored.
func (ig *Ignore) IsIgnored(path string) bool {
	rel := ig.relative(path)
	if rel == "" {
		return false
	}
	if ig.overrides != nil && ig.overrides.MatchesPath(rel) {
		return true
	}
	if ig.gitignore != nil && ig.gitignore.MatchesPath(rel) {
		return true
	}
	return ig.global != nil && ig.global.MatchesPath(rel)
}

func (ig *Ignore) relative(path string) string {
	if ig.root == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(ig.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}
