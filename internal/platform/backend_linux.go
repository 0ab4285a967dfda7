//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/1broseidon/tallwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn   *x11.Connection
	logger *slog.Logger
}

var (
	_ Backend          = (*LinuxBackend)(nil)
	_ DesktopPublisher = (*LinuxBackend)(nil)
	_ NormalizeHooks   = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) *LinuxBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinuxBackend{conn: conn, logger: logger}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection and takes over
// window management on its root window.
func NewLinuxBackendFromDisplay(logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := conn.ManageRoot(); err != nil {
		conn.Close()
		return nil, err
	}
	return NewLinuxBackend(conn, logger), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// NextEvent blocks for the next X event and normalizes it. Protocol errors
// for windows that vanished mid-request are routine and only logged.
func (b *LinuxBackend) NextEvent() (Event, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, ErrConnectionClosed
		}
		if xerr != nil {
			b.logger.Debug("x11 protocol error", "error", xerr)
			continue
		}
		return Normalize(ev, b, b.logger), nil
	}
}

// Screens returns all active screens ordered by id.
func (b *LinuxBackend) Screens() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResizeWindow(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	conn.MoveResizeWindow(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
	return nil
}

func (b *LinuxBackend) RaiseWindow(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.RaiseWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) FocusWindow(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) KillWindow(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.KillClient(xproto.Window(windowID))
}

// ConfigureWindow forwards a client's configure request unchanged.
func (b *LinuxBackend) ConfigureWindow(windowID WindowID, changes WindowChanges, mask ConfigMask) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ConfigureWindow(xproto.Window(windowID), uint16(mask), configureValues(changes, mask))
}

func (b *LinuxBackend) SetWindowBorderWidth(windowID WindowID, width int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetBorderWidth(xproto.Window(windowID), width)
}

func (b *LinuxBackend) SetWindowBorderColor(windowID WindowID, color uint32) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetBorderColor(xproto.Window(windowID), color)
}

func (b *LinuxBackend) MapWindow(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MapWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) UnmapWindow(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.UnmapWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) WindowTitle(windowID WindowID) string {
	if b == nil || b.conn == nil {
		return ""
	}
	return b.conn.WindowTitle(xproto.Window(windowID))
}

func (b *LinuxBackend) WindowClass(windowID WindowID) string {
	if b == nil || b.conn == nil {
		return ""
	}
	return b.conn.WindowClass(xproto.Window(windowID))
}

func (b *LinuxBackend) GrabModifier(mods uint16) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.GrabModifier(mods)
}

// PublishDesktops exports workspace names, the current workspace, the
// focused window and the managed windows through EWMH.
func (b *LinuxBackend) PublishDesktops(names []string, current int, active WindowID, clients []WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	wins := make([]xproto.Window, 0, len(clients))
	for _, id := range clients {
		wins = append(wins, xproto.Window(id))
	}
	return conn.PublishDesktops(names, current, xproto.Window(active), wins)
}

// SelectClientInput registers ClientEventMask on a newly mapped window.
func (b *LinuxBackend) SelectClientInput(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SelectInput(xproto.Window(windowID), ClientEventMask)
}

func (b *LinuxBackend) KeyName(keycode xproto.Keycode) string {
	return b.conn.KeyName(keycode)
}

func (b *LinuxBackend) CleanMods(state uint16) uint16 {
	return b.conn.CleanMods(state)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
	}
}

// configureValues lays out the fields named by mask in protocol order.
func configureValues(changes WindowChanges, mask ConfigMask) []uint32 {
	var values []uint32
	if mask&ConfigX != 0 {
		values = append(values, uint32(int32(changes.X)))
	}
	if mask&ConfigY != 0 {
		values = append(values, uint32(int32(changes.Y)))
	}
	if mask&ConfigWidth != 0 {
		values = append(values, uint32(changes.Width))
	}
	if mask&ConfigHeight != 0 {
		values = append(values, uint32(changes.Height))
	}
	if mask&ConfigBorderWidth != 0 {
		values = append(values, uint32(changes.BorderWidth))
	}
	if mask&ConfigSibling != 0 {
		values = append(values, uint32(changes.Sibling))
	}
	if mask&ConfigStackMode != 0 {
		values = append(values, uint32(changes.StackMode))
	}
	return values
}
