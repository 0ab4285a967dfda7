package platform

import "fmt"

// Event is a normalized display-server notification. The set of
// implementations is closed to this package.
type Event interface {
	isEvent()
}

// MapRequest asks the window manager to admit and show a new window.
type MapRequest struct {
	Window WindowID
}

// ConfigurationRequest carries a client's own geometry request.
type ConfigurationRequest struct {
	Window  WindowID
	Changes WindowChanges
	Mask    ConfigMask
}

// Destroy reports that a window no longer exists.
type Destroy struct {
	Window WindowID
}

// EnterNotify reports the pointer entering a window.
type EnterNotify struct {
	Window WindowID
}

// FocusOut reports a window losing input focus.
type FocusOut struct {
	Window WindowID
}

// KeyPress reports a grabbed key combination.
type KeyPress struct {
	Window    WindowID
	Keystroke Keystroke
}

// Ignored is produced for every raw event that needs no dispatch.
type Ignored struct{}

func (MapRequest) isEvent()           {}
func (ConfigurationRequest) isEvent() {}
func (Destroy) isEvent()              {}
func (EnterNotify) isEvent()          {}
func (FocusOut) isEvent()             {}
func (KeyPress) isEvent()             {}
func (Ignored) isEvent()              {}

func (e MapRequest) String() string { return fmt.Sprintf("MapRequest(%d)", e.Window) }
func (e ConfigurationRequest) String() string {
	return fmt.Sprintf("ConfigurationRequest(%d, mask=%#x)", e.Window, uint16(e.Mask))
}
func (e Destroy) String() string     { return fmt.Sprintf("Destroy(%d)", e.Window) }
func (e EnterNotify) String() string { return fmt.Sprintf("EnterNotify(%d)", e.Window) }
func (e FocusOut) String() string    { return fmt.Sprintf("FocusOut(%d)", e.Window) }
func (e KeyPress) String() string {
	return fmt.Sprintf("KeyPress(%d, mods=%#x, key=%s)", e.Window, e.Keystroke.Mods, e.Keystroke.Key)
}
func (Ignored) String() string { return "Ignored" }
