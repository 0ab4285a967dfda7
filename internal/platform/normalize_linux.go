//go:build linux

package platform

import (
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Crossing and focus details that never warrant a dispatch.
const (
	// The pointer left through an inferior window, typically because the
	// window under it was destroyed. Acting on it causes a focus storm.
	enterIgnoredDetail = xproto.NotifyDetailInferior
	// Focus changes caused by keyboard grabs around modifier keys.
	focusOutIgnoredDetail = xproto.NotifyDetailPointer
)

// ClientEventMask is selected on every window admitted through a map request.
const ClientEventMask = xproto.EventMaskEnterWindow |
	xproto.EventMaskFocusChange |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange

// NormalizeHooks are the backend services the normalizer needs while
// classifying a raw event.
type NormalizeHooks interface {
	// SelectClientInput registers interest in ClientEventMask on a window.
	SelectClientInput(windowID WindowID) error
	// KeyName returns the unshifted key name for a keycode.
	KeyName(keycode xproto.Keycode) string
	// CleanMods strips lock modifiers and pointer buttons from a key state.
	CleanMods(state uint16) uint16
}

// Normalize classifies one raw X event. It is total: anything not in the
// handled set, including a nil event, becomes Ignored.
func Normalize(raw xgb.Event, hooks NormalizeHooks, logger *slog.Logger) Event {
	switch ev := raw.(type) {
	case xproto.MapRequestEvent:
		win := WindowID(ev.Window)
		if err := hooks.SelectClientInput(win); err != nil && logger != nil {
			logger.Warn("select client input failed", "window", win, "error", err)
		}
		return MapRequest{Window: win}

	case xproto.ConfigureRequestEvent:
		return ConfigurationRequest{
			Window: WindowID(ev.Window),
			Changes: WindowChanges{
				X:           int(ev.X),
				Y:           int(ev.Y),
				Width:       int(ev.Width),
				Height:      int(ev.Height),
				BorderWidth: int(ev.BorderWidth),
				Sibling:     WindowID(ev.Sibling),
				StackMode:   ev.StackMode,
			},
			Mask: ConfigMask(ev.ValueMask),
		}

	case xproto.DestroyNotifyEvent:
		return Destroy{Window: WindowID(ev.Window)}

	case xproto.EnterNotifyEvent:
		if ev.Detail == enterIgnoredDetail {
			return Ignored{}
		}
		return EnterNotify{Window: WindowID(ev.Event)}

	case xproto.FocusOutEvent:
		if ev.Detail == focusOutIgnoredDetail {
			return Ignored{}
		}
		return FocusOut{Window: WindowID(ev.Event)}

	case xproto.KeyPressEvent:
		return KeyPress{
			Window: WindowID(ev.Event),
			Keystroke: Keystroke{
				Mods: hooks.CleanMods(ev.State),
				Key:  hooks.KeyName(ev.Detail),
			},
		}

	default:
		return Ignored{}
	}
}
