package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) {
	xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
}

// RaiseWindow puts a window on top of its siblings.
func (c *Connection) RaiseWindow(windowID xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// FocusWindow gives a window the input focus. Focus reverts to the pointer
// root when the window goes away.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	return xproto.SetInputFocusChecked(
		c.XUtil.Conn(),
		xproto.InputFocusPointerRoot,
		windowID,
		xproto.TimeCurrentTime,
	).Check()
}

// KillClient closes the connection of the client owning a window.
func (c *Connection) KillClient(windowID xproto.Window) error {
	return xproto.KillClientChecked(c.XUtil.Conn(), uint32(windowID)).Check()
}

// ConfigureWindow applies a raw configure request. values must be ordered
// by ascending mask bit, as the protocol requires.
func (c *Connection) ConfigureWindow(windowID xproto.Window, mask uint16, values []uint32) error {
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check()
}

// SetBorderWidth sets the window border width. The root window is left alone.
func (c *Connection) SetBorderWidth(windowID xproto.Window, width int) error {
	if windowID == c.Root {
		return nil
	}
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(width)},
	).Check()
}

// SetBorderColor sets the window border pixel. The root window is left alone.
func (c *Connection) SetBorderColor(windowID xproto.Window, color uint32) error {
	if windowID == c.Root {
		return nil
	}
	return xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.CwBorderPixel,
		[]uint32{color},
	).Check()
}

// MapWindow makes a window visible.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// UnmapWindow hides a window without destroying it.
func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// SelectInput replaces the event mask this client holds on a window.
func (c *Connection) SelectInput(windowID xproto.Window, mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.CwEventMask,
		[]uint32{mask},
	).Check()
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if windowID == c.Root {
		return "root"
	}

	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}

	return ""
}

// WindowClass returns the class part of WM_CLASS.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}
