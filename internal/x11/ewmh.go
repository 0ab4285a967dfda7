package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// PublishDesktops exports workspace state through the EWMH root properties
// that pagers and status bars read.
func (c *Connection) PublishDesktops(names []string, current int, active xproto.Window, clients []xproto.Window) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(names))); err != nil {
		return fmt.Errorf("failed to set _NET_NUMBER_OF_DESKTOPS: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, names); err != nil {
		return fmt.Errorf("failed to set _NET_DESKTOP_NAMES: %w", err)
	}
	if current >= 0 {
		if err := ewmh.CurrentDesktopSet(c.XUtil, uint(current)); err != nil {
			return fmt.Errorf("failed to set _NET_CURRENT_DESKTOP: %w", err)
		}
	}
	if err := ewmh.ActiveWindowSet(c.XUtil, active); err != nil {
		return fmt.Errorf("failed to set _NET_ACTIVE_WINDOW: %w", err)
	}
	if err := ewmh.ClientListSet(c.XUtil, clients); err != nil {
		return fmt.Errorf("failed to set _NET_CLIENT_LIST: %w", err)
	}
	return nil
}
