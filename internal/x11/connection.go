package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// RootEventMask is selected on the root window to take over window
// management: map/configure redirection, destroy notifications, crossing
// events and grabbed keys.
const RootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskButtonPress |
	xproto.EventMaskKeyPress

// ErrAnotherWM is returned by ManageRoot when the root window is already
// redirected by another window manager.
var ErrAnotherWM = errors.New("another window manager is already running")

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server and initializes required extensions
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Keycode/keysym tables are needed for grabs and key names.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// ManageRoot selects RootEventMask on the root window. Only one client may
// hold SubstructureRedirect, so an access error means another WM owns it.
func (c *Connection) ManageRoot() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		c.Root,
		xproto.CwEventMask,
		[]uint32{RootEventMask},
	).Check()
	if err != nil {
		var access xproto.AccessError
		if errors.As(err, &access) {
			return ErrAnotherWM
		}
		return fmt.Errorf("failed to select root events: %w", err)
	}
	return nil
}

// WaitForEvent blocks until the next event or protocol error arrives.
// Both return values are nil once the connection is closed.
func (c *Connection) WaitForEvent() (xgb.Event, xgb.Error) {
	return c.XUtil.Conn().WaitForEvent()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
