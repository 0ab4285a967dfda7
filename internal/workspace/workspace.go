package workspace

import (
	"github.com/1broseidon/tallwm/internal/layout"
	"github.com/1broseidon/tallwm/internal/platform"
)

// Direction selects how focus or a window moves within a workspace.
type Direction int

const (
	// Up moves one slot towards the master, wrapping at the top.
	Up Direction = iota
	// Down moves one slot away from the master, wrapping at the bottom.
	Down
	// Swap targets the master slot.
	Swap
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Swap:
		return "swap"
	default:
		return "unknown"
	}
}

// Workspace is a named, ordered window list with one focused window and
// its own layout instance.
type Workspace struct {
	tag     string
	windows []platform.WindowID
	focused int
	layout  layout.Layout
}

func newWorkspace(tag string, l layout.Layout) *Workspace {
	return &Workspace{tag: tag, focused: -1, layout: l}
}

// Tag returns the workspace name shown in status output.
func (w *Workspace) Tag() string {
	return w.tag
}

// Layout returns the workspace-owned layout instance.
func (w *Workspace) Layout() layout.Layout {
	return w.layout
}

// Windows returns a copy of the window order, master first.
func (w *Workspace) Windows() []platform.WindowID {
	out := make([]platform.WindowID, len(w.windows))
	copy(out, w.windows)
	return out
}

func (w *Workspace) Len() int {
	return len(w.windows)
}

// Focused returns the focused window, if the workspace has any windows.
func (w *Workspace) Focused() (platform.WindowID, bool) {
	if w.focused < 0 || w.focused >= len(w.windows) {
		return 0, false
	}
	return w.windows[w.focused], true
}

// Contains reports whether win is managed by this workspace.
func (w *Workspace) Contains(win platform.WindowID) bool {
	return w.indexOf(win) >= 0
}

func (w *Workspace) indexOf(win platform.WindowID) int {
	for i, id := range w.windows {
		if id == win {
			return i
		}
	}
	return -1
}

// add appends win and leaves focus on the previous window unless the
// workspace was empty.
func (w *Workspace) add(win platform.WindowID) {
	w.windows = append(w.windows, win)
	if w.focused < 0 {
		w.focused = len(w.windows) - 1
	}
}

func (w *Workspace) remove(win platform.WindowID) bool {
	i := w.indexOf(win)
	if i < 0 {
		return false
	}
	w.windows = append(w.windows[:i], w.windows[i+1:]...)

	switch {
	case len(w.windows) == 0:
		w.focused = -1
	case i < w.focused:
		w.focused--
	case w.focused >= len(w.windows):
		w.focused = len(w.windows) - 1
	}
	return true
}

func (w *Workspace) focus(win platform.WindowID) bool {
	i := w.indexOf(win)
	if i < 0 {
		return false
	}
	w.focused = i
	return true
}

// target resolves dir against the focused slot.
func (w *Workspace) target(dir Direction) int {
	n := len(w.windows)
	switch dir {
	case Up:
		return (w.focused - 1 + n) % n
	case Down:
		return (w.focused + 1) % n
	default:
		return 0
	}
}

func (w *Workspace) moveFocus(dir Direction) bool {
	if len(w.windows) == 0 {
		return false
	}
	w.focused = w.target(dir)
	return true
}

// moveWindow swaps the focused window with the slot selected by dir; focus
// stays on the moved window.
func (w *Workspace) moveWindow(dir Direction) bool {
	if len(w.windows) == 0 {
		return false
	}
	to := w.target(dir)
	w.windows[w.focused], w.windows[to] = w.windows[to], w.windows[w.focused]
	w.focused = to
	return true
}
