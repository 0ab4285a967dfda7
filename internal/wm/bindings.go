package wm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/tallwm/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
)

var modifierNames = map[string]uint16{
	"shift":   xproto.ModMaskShift,
	"lock":    xproto.ModMaskLock,
	"control": xproto.ModMaskControl,
	"ctrl":    xproto.ModMaskControl,
	"mod1":    xproto.ModMask1,
	"alt":     xproto.ModMask1,
	"mod2":    xproto.ModMask2,
	"mod3":    xproto.ModMask3,
	"mod4":    xproto.ModMask4,
	"super":   xproto.ModMask4,
	"mod5":    xproto.ModMask5,
}

// keyAliases maps keysym names to the characters the key lookup reports
// for them.
var keyAliases = map[string]string{
	"space":        " ",
	"comma":        ",",
	"period":       ".",
	"minus":        "-",
	"equal":        "=",
	"slash":        "/",
	"backslash":    "\\",
	"semicolon":    ";",
	"apostrophe":   "'",
	"grave":        "`",
	"bracketleft":  "[",
	"bracketright": "]",
}

// ParseKeystroke parses "Mod4-Shift-Return" style key specs. The last
// segment is the key name, every earlier segment a modifier.
func ParseKeystroke(spec string) (platform.Keystroke, error) {
	parts := strings.Split(strings.TrimSpace(spec), "-")
	key := parts[len(parts)-1]
	if key == "" {
		return platform.Keystroke{}, fmt.Errorf("key binding %q has no key", spec)
	}

	var mods uint16
	for _, part := range parts[:len(parts)-1] {
		mask, ok := modifierNames[strings.ToLower(part)]
		if !ok {
			return platform.Keystroke{}, fmt.Errorf("key binding %q: unknown modifier %q", spec, part)
		}
		mods |= mask
	}
	// Grabs are per modifier set over every key, so a bare key would
	// swallow all keyboard input.
	if mods == 0 {
		return platform.Keystroke{}, fmt.Errorf("key binding %q needs at least one modifier", spec)
	}

	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	return platform.Keystroke{Mods: mods, Key: key}, nil
}

// Bindings maps keystrokes to commands.
type Bindings map[platform.Keystroke]Cmd

// NewBindings parses a key spec to command table.
func NewBindings(keys map[string]string) (Bindings, error) {
	b := make(Bindings, len(keys))
	for spec, command := range keys {
		ks, err := ParseKeystroke(spec)
		if err != nil {
			return nil, err
		}
		cmd, err := ParseCmd(command)
		if err != nil {
			return nil, fmt.Errorf("key binding %q: %w", spec, err)
		}
		b[ks] = cmd
	}
	return b, nil
}

// Modifiers returns each distinct modifier combination used by a binding,
// in ascending order.
func (b Bindings) Modifiers() []uint16 {
	seen := make(map[uint16]bool)
	var mods []uint16
	for ks := range b {
		if !seen[ks.Mods] {
			seen[ks.Mods] = true
			mods = append(mods, ks.Mods)
		}
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i] < mods[j] })
	return mods
}
