package x11

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// anyKey is the protocol's wildcard keycode for grabs.
const anyKey xproto.Keycode = 0

// modifierBits covers Shift..Mod5; higher state bits are pointer buttons.
const modifierBits uint16 = 0x00ff

var ignoreModsOnce sync.Once

// GrabModifier grabs every key pressed together with mods on the root
// window, once for each combination of lock modifiers.
func (c *Connection) GrabModifier(mods uint16) error {
	c.configureIgnoreMods()
	return keybind.GrabChecked(c.XUtil, c.Root, mods, anyKey)
}

// KeyName returns the name of the unshifted keysym bound to keycode.
func (c *Connection) KeyName(keycode xproto.Keycode) string {
	return keybind.LookupString(c.XUtil, 0, keycode)
}

// CleanMods removes lock modifiers and pointer button bits from a key state.
func (c *Connection) CleanMods(state uint16) uint16 {
	c.configureIgnoreMods()
	state &= modifierBits
	for _, mask := range xevent.IgnoreMods {
		state &^= mask
	}
	return state
}

func (c *Connection) configureIgnoreMods() {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(c.XUtil)
	})
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
