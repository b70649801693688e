// Package config loads the application configuration, merging the user's
// YAML file over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// EnvConfigDir overrides the directory the config file is read from.
const EnvConfigDir = "PROJECTABLE_CONFIG_DIR"

// Config is the application configuration.
type Config struct {
	Filetree struct {
		UseGit          bool                `yaml:"use_git"`       // Colour entries by git status
		UseGitignore    bool                `yaml:"use_gitignore"` // Honor .gitignore files
		DirsFirst       bool                `yaml:"dirs_first"`    // Sort directories before files
		Ignore          []string            `yaml:"ignore"`        // Extra glob patterns to hide
		SpecialCommands map[string][]string `yaml:"special_commands"`
	} `yaml:"filetree"`
	Preview struct {
		Command  string `yaml:"preview_cmd"` // {} replaced by the selected path
		GitPager string `yaml:"git_pager"`   // Pager for diffs, {} as above
	} `yaml:"preview"`
	Log struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"` // Empty means <data dir>/projectable.log
		Debug   bool   `yaml:"debug"`
	} `yaml:"log"`
	Keys KeyMap `yaml:"keys"`
}

// KeyMap names every rebindable action.
type KeyMap struct {
	Quit           string `yaml:"quit"`
	Help           string `yaml:"help"`
	Down           string `yaml:"down"`
	Up             string `yaml:"up"`
	DownThree      string `yaml:"down_three"`
	UpThree        string `yaml:"up_three"`
	AllDown        string `yaml:"all_down"`
	AllUp          string `yaml:"all_up"`
	Open           string `yaml:"open"`
	ToggleFold     string `yaml:"toggle_fold"`
	CloseAll       string `yaml:"close_all"`
	Refresh        string `yaml:"refresh"`
	Delete         string `yaml:"delete"`
	NewFile        string `yaml:"new_file"`
	NewDir         string `yaml:"new_dir"`
	ExecCmd        string `yaml:"exec_cmd"`
	SpecialCommand string `yaml:"special_command"`
	Search         string `yaml:"search"`
	Filter         string `yaml:"filter"`
	Clear          string `yaml:"clear"`
	Mark           string `yaml:"mark"`
	OpenMarks      string `yaml:"open_marks"`
	ToggleHidden   string `yaml:"toggle_hidden"`
	KillProcesses  string `yaml:"kill_processes"`
}

// Dir returns the directory the config file lives in, honoring
// PROJECTABLE_CONFIG_DIR.
func Dir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, "projectable")
	}
	return filepath.Join(xdg.ConfigHome, "projectable")
}

// Load reads the configuration from the default location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	return LoadFile(filepath.Join(Dir(), "config.yaml"))
}

// LoadFile reads the configuration from path, merging it over the
// defaults. If the file does not exist the defaults are returned.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.merge(&loaded, data)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// merge copies loaded values over the defaults. Some booleans default to
// true, so their presence is detected from the raw document rather than
// the zero value.
func (c *Config) merge(loaded *Config, raw []byte) {
	var doc map[string]yaml.Node
	_ = yaml.Unmarshal(raw, &doc)

	if node, ok := doc["filetree"]; ok {
		if hasKey(node, "use_git") {
			c.Filetree.UseGit = loaded.Filetree.UseGit
		}
		if hasKey(node, "use_gitignore") {
			c.Filetree.UseGitignore = loaded.Filetree.UseGitignore
		}
		if hasKey(node, "dirs_first") {
			c.Filetree.DirsFirst = loaded.Filetree.DirsFirst
		}
	}
	if len(loaded.Filetree.Ignore) > 0 {
		c.Filetree.Ignore = loaded.Filetree.Ignore
	}
	if len(loaded.Filetree.SpecialCommands) > 0 {
		c.Filetree.SpecialCommands = loaded.Filetree.SpecialCommands
	}
	if loaded.Preview.Command != "" {
		c.Preview.Command = loaded.Preview.Command
	}
	if loaded.Preview.GitPager != "" {
		c.Preview.GitPager = loaded.Preview.GitPager
	}
	c.Log.Enabled = loaded.Log.Enabled
	c.Log.Debug = loaded.Log.Debug
	if loaded.Log.Path != "" {
		c.Log.Path = loaded.Log.Path
	}
	mergeKeys(&c.Keys, &loaded.Keys)
}

func hasKey(node yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func mergeKeys(dst, src *KeyMap) {
	pairs := []struct{ d, s *string }{
		{&dst.Quit, &src.Quit}, {&dst.Help, &src.Help},
		{&dst.Down, &src.Down}, {&dst.Up, &src.Up},
		{&dst.DownThree, &src.DownThree}, {&dst.UpThree, &src.UpThree},
		{&dst.AllDown, &src.AllDown}, {&dst.AllUp, &src.AllUp},
		{&dst.Open, &src.Open}, {&dst.ToggleFold, &src.ToggleFold},
		{&dst.CloseAll, &src.CloseAll}, {&dst.Refresh, &src.Refresh},
		{&dst.Delete, &src.Delete}, {&dst.NewFile, &src.NewFile},
		{&dst.NewDir, &src.NewDir}, {&dst.ExecCmd, &src.ExecCmd},
		{&dst.SpecialCommand, &src.SpecialCommand},
		{&dst.Search, &src.Search}, {&dst.Filter, &src.Filter},
		{&dst.Clear, &src.Clear}, {&dst.Mark, &src.Mark},
		{&dst.OpenMarks, &src.OpenMarks},
		{&dst.ToggleHidden, &src.ToggleHidden},
		{&dst.KillProcesses, &src.KillProcesses},
	}
	for _, p := range pairs {
		if *p.s != "" {
			*p.d = *p.s
		}
	}
}

// defaultConfig returns the built-in configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Filetree.UseGit = true
	cfg.Filetree.UseGitignore = true
	cfg.Filetree.DirsFirst = false
	cfg.Filetree.Ignore = []string{}
	cfg.Filetree.SpecialCommands = map[string][]string{}

	cfg.Preview.Command = "cat {}"
	cfg.Preview.GitPager = "git diff {}"

	cfg.Log.Enabled = false

	cfg.Keys = KeyMap{
		Quit:           "q",
		Help:           "?",
		Down:           "j",
		Up:             "k",
		DownThree:      "ctrl+n",
		UpThree:        "ctrl+p",
		AllDown:        "G",
		AllUp:          "g",
		Open:           "enter",
		ToggleFold:     "tab",
		CloseAll:       "ctrl+o",
		Refresh:        "r",
		Delete:         "d",
		NewFile:        "n",
		NewDir:         "N",
		ExecCmd:        "e",
		SpecialCommand: "v",
		Search:         "/",
		Filter:         "ctrl+f",
		Clear:          "esc",
		Mark:           "m",
		OpenMarks:      "M",
		ToggleHidden:   "H",
		KillProcesses:  "ctrl+c",
	}
	return cfg
}

// New returns the default configuration.
func New() *Config {
	return defaultConfig()
}

// Save writes the configuration to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for mistakes that would otherwise
// only surface later as confusing behavior.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	for _, k := range c.namedKeys() {
		if _, err := ParseKey(k.binding); err != nil {
			return fmt.Errorf("key %s: %w", k.name, err)
		}
	}
	for name, cmds := range c.Filetree.SpecialCommands {
		if name == "" {
			return fmt.Errorf("special command with empty pattern")
		}
		if len(cmds) == 0 {
			return fmt.Errorf("special command %q has no commands", name)
		}
	}
	return nil
}

type namedKey struct {
	name    string
	binding string
}

func (c *Config) namedKeys() []namedKey {
	return []namedKey{
		{"quit", c.Keys.Quit}, {"help", c.Keys.Help},
		{"down", c.Keys.Down}, {"up", c.Keys.Up},
		{"down_three", c.Keys.DownThree}, {"up_three", c.Keys.UpThree},
		{"all_down", c.Keys.AllDown}, {"all_up", c.Keys.AllUp},
		{"open", c.Keys.Open}, {"toggle_fold", c.Keys.ToggleFold},
		{"close_all", c.Keys.CloseAll}, {"refresh", c.Keys.Refresh},
		{"delete", c.Keys.Delete}, {"new_file", c.Keys.NewFile},
		{"new_dir", c.Keys.NewDir}, {"exec_cmd", c.Keys.ExecCmd},
		{"special_command", c.Keys.SpecialCommand},
		{"search", c.Keys.Search}, {"filter", c.Keys.Filter},
		{"clear", c.Keys.Clear}, {"mark", c.Keys.Mark},
		{"open_marks", c.Keys.OpenMarks},
		{"toggle_hidden", c.Keys.ToggleHidden},
		{"kill_processes", c.Keys.KillProcesses},
	}
}
