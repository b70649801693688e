package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Key is one parsed key binding.
type Key struct {
	Mod  tcell.ModMask
	Key  tcell.Key
	Rune rune
}

// specialKeys maps the spellings accepted in config files onto tcell keys.
var specialKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"backtab":   tcell.KeyBacktab,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"space":     tcell.KeyRune, // handled below
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"pgup":      tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
}

// ParseKey parses a binding such as "j", "G", "enter", or "ctrl+c". A
// single uppercase letter implies shift, as terminals report it.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("empty key binding")
	}
	var mod tcell.ModMask
	rest := s
	for {
		switch {
		case strings.HasPrefix(rest, "ctrl+"):
			mod |= tcell.ModCtrl
			rest = strings.TrimPrefix(rest, "ctrl+")
		case strings.HasPrefix(rest, "alt+"):
			mod |= tcell.ModAlt
			rest = strings.TrimPrefix(rest, "alt+")
		case strings.HasPrefix(rest, "shift+"):
			mod |= tcell.ModShift
			rest = strings.TrimPrefix(rest, "shift+")
		default:
			return parseBase(rest, mod, s)
		}
	}
}

func parseBase(base string, mod tcell.ModMask, full string) (Key, error) {
	if base == "" {
		return Key{}, fmt.Errorf("binding %q has no key after modifiers", full)
	}
	if base == "space" {
		return Key{Mod: mod, Key: tcell.KeyRune, Rune: ' '}, nil
	}
	if k, ok := specialKeys[base]; ok {
		return Key{Mod: mod, Key: k}, nil
	}
	r, size := utf8.DecodeRuneInString(base)
	if size != len(base) || r == utf8.RuneError {
		return Key{}, fmt.Errorf("unknown key %q in binding %q", base, full)
	}
	if mod&tcell.ModCtrl != 0 {
		// terminals fold ctrl+letter into a control key
		if r >= 'a' && r <= 'z' {
			return Key{Mod: mod, Key: tcell.Key(r - 'a' + 1)}, nil
		}
		return Key{}, fmt.Errorf("ctrl+%c is not a valid binding", r)
	}
	return Key{Mod: mod, Key: tcell.KeyRune, Rune: r}, nil
}

// Matches reports whether ev triggers this binding.
func (k Key) Matches(ev *tcell.EventKey) bool {
	// shift is already baked into the rune for printable keys
	mod := ev.Modifiers() &^ tcell.ModShift
	want := k.Mod &^ tcell.ModShift
	if mod != want {
		return false
	}
	if k.Key == tcell.KeyRune {
		return ev.Key() == tcell.KeyRune && ev.Rune() == k.Rune
	}
	return ev.Key() == k.Key
}

// MatchesBinding parses binding and reports whether ev triggers it.
// Malformed bindings never match; Validate rejects them up front.
func MatchesBinding(binding string, ev *tcell.EventKey) bool {
	k, err := ParseKey(binding)
	if err != nil {
		return false
	}
	return k.Matches(ev)
}
