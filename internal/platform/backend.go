package platform

import "errors"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical screen and its usable area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// ConfigMask says which WindowChanges fields a configure request carries.
// Bits follow the X11 ConfigWindow value mask.
type ConfigMask uint16

const (
	ConfigX           ConfigMask = 1 << 0
	ConfigY           ConfigMask = 1 << 1
	ConfigWidth       ConfigMask = 1 << 2
	ConfigHeight      ConfigMask = 1 << 3
	ConfigBorderWidth ConfigMask = 1 << 4
	ConfigSibling     ConfigMask = 1 << 5
	ConfigStackMode   ConfigMask = 1 << 6
)

// WindowChanges is a client-requested geometry change. Only the fields named
// by the accompanying ConfigMask are meaningful.
type WindowChanges struct {
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
	Sibling     WindowID
	StackMode   uint8
}

// Keystroke identifies a key press by its cleaned modifier state and the
// unshifted key name.
type Keystroke struct {
	Mods uint16
	Key  string
}

// ErrConnectionClosed is returned by NextEvent once the display connection
// is gone.
var ErrConnectionClosed = errors.New("display connection closed")

// Backend abstracts the display-server operations the window manager needs.
// Every call is one-shot; none of them carries placement policy.
type Backend interface {
	// NextEvent blocks until the next display event and returns it
	// normalized.
	NextEvent() (Event, error)

	Screens() ([]Display, error)
	MoveResizeWindow(windowID WindowID, bounds Rect) error
	RaiseWindow(windowID WindowID) error
	FocusWindow(windowID WindowID) error
	KillWindow(windowID WindowID) error
	ConfigureWindow(windowID WindowID, changes WindowChanges, mask ConfigMask) error
	SetWindowBorderWidth(windowID WindowID, width int) error
	SetWindowBorderColor(windowID WindowID, color uint32) error
	MapWindow(windowID WindowID) error
	UnmapWindow(windowID WindowID) error
	WindowTitle(windowID WindowID) string
	WindowClass(windowID WindowID) string
	GrabModifier(mods uint16) error
}

// DesktopPublisher is an optional interface for backends that can export
// workspace state to pagers and status bars.
type DesktopPublisher interface {
	PublishDesktops(names []string, current int, active WindowID, clients []WindowID) error
}
