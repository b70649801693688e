// Package marks persists per-project path bookmarks across sessions. The
// store is one JSON file keyed by project root, so marks for one project
// never disturb another's.
package marks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"projectable/internal/log"
)

// EnvDataDir overrides the directory the marks file is stored in.
const EnvDataDir = "PROJECTABLE_DATA_DIR"

// File returns the path of the marks file.
func File() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return filepath.Join(dir, "projectable", "marks.json")
	}
	return filepath.Join(xdg.DataHome, "projectable", "marks.json")
}

type store struct {
	Marks map[string][]string `json:"marks"`
}

// Marks holds the bookmarks of one project.
type Marks struct {
	root  string
	path  string
	paths []string
}

// Load reads the marks for root from the default file. A missing or
// unreadable file yields an empty set, a corrupt mark file should not keep
// the application from starting.
func Load(root string) *Marks {
	return LoadFile(root, File())
}

// LoadFile reads the marks for root from the given file.
func LoadFile(root, path string) *Marks {
	m := &Marks{root: root, path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("marks: cannot read %s: %v", path, err)
		}
		return m
	}
	var s store
	if err := json.Unmarshal(data, &s); err != nil {
		log.Warnf("marks: cannot parse %s: %v", path, err)
		return m
	}
	m.paths = s.Marks[root]
	return m
}

// Paths returns the marked paths in insertion order.
func (m *Marks) Paths() []string {
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// Contains reports whether path is marked.
func (m *Marks) Contains(path string) bool {
	for _, p := range m.paths {
		if p == path {
			return true
		}
	}
	return false
}

// Add marks path. Adding an existing mark is a no-op.
func (m *Marks) Add(path string) {
	if m.Contains(path) {
		return
	}
	m.paths = append(m.paths, path)
}

// Remove unmarks path and reports whether it was marked.
func (m *Marks) Remove(path string) bool {
	for i, p := range m.paths {
		if p == path {
			m.paths = append(m.paths[:i], m.paths[i+1:]...)
			return true
		}
	}
	return false
}

// Write persists this project's marks, preserving every other project's
// entries in the file. Projects with no marks left are dropped entirely.
func (m *Marks) Write() error {
	s := store{Marks: map[string][]string{}}
	if data, err := os.ReadFile(m.path); err == nil {
		if err := json.Unmarshal(data, &s); err != nil {
			log.Warnf("marks: overwriting unparsable %s: %v", m.path, err)
			s = store{Marks: map[string][]string{}}
		}
	}
	if s.Marks == nil {
		s.Marks = map[string][]string{}
	}
	if len(m.paths) == 0 {
		delete(s.Marks, m.root)
	} else {
		s.Marks[m.root] = m.paths
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("creating marks directory: %w", err)
	}
	data, err := json.MarshalIndent(&s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding marks: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("writing marks: %w", err)
	}
	return nil
}
