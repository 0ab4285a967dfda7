package workspace

import (
	"errors"
	"fmt"

	"github.com/1broseidon/tallwm/internal/layout"
	"github.com/1broseidon/tallwm/internal/platform"
)

var (
	ErrNoSuchWorkspace = errors.New("no such workspace")
	ErrNoSuchScreen    = errors.New("no such screen")
	ErrNoFocusedWindow = errors.New("no focused window")
	ErrUnknownWindow   = errors.New("window is not managed")
)

// Display is the subset of the display backend used to draw workspaces.
type Display interface {
	MoveResizeWindow(windowID platform.WindowID, bounds platform.Rect) error
	RaiseWindow(windowID platform.WindowID) error
	FocusWindow(windowID platform.WindowID) error
	SetWindowBorderWidth(windowID platform.WindowID, width int) error
	SetWindowBorderColor(windowID platform.WindowID, color uint32) error
	MapWindow(windowID platform.WindowID) error
	UnmapWindow(windowID platform.WindowID) error
}

// Style controls window borders.
type Style struct {
	BorderWidth      int
	BorderColor      uint32
	FocusBorderColor uint32
}

// Workspaces is the ordered workspace set. Every screen shows exactly one
// workspace; the rest are hidden and their windows unmapped. Not safe for
// concurrent use; the window manager loop is its only caller.
type Workspaces struct {
	display    Display
	style      Style
	workspaces []*Workspace
	screens    []platform.Rect
	// visible[s] is the workspace index shown on screen s.
	visible []int
	current int
	mapped  map[platform.WindowID]bool
}

// New builds one workspace per tag, each with its own layout from factory.
// Screen s initially shows workspace s. Screens beyond the number of tags
// are left unused.
func New(display Display, tags []string, factory layout.Factory, screens []platform.Rect, style Style) (*Workspaces, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("at least one workspace is required")
	}
	if len(screens) == 0 {
		return nil, fmt.Errorf("at least one screen is required")
	}
	if len(screens) > len(tags) {
		screens = screens[:len(tags)]
	}

	w := &Workspaces{
		display: display,
		style:   style,
		screens: append([]platform.Rect(nil), screens...),
		visible: make([]int, len(screens)),
		mapped:  make(map[platform.WindowID]bool),
	}
	for _, tag := range tags {
		w.workspaces = append(w.workspaces, newWorkspace(tag, factory()))
	}
	for s := range w.visible {
		w.visible[s] = s
	}
	return w, nil
}

// SetStyle replaces the border style; callers redraw afterwards.
func (w *Workspaces) SetStyle(style Style) {
	w.style = style
}

// Len returns the number of workspaces.
func (w *Workspaces) Len() int {
	return len(w.workspaces)
}

// ScreenCount returns the number of screens in use.
func (w *Workspaces) ScreenCount() int {
	return len(w.screens)
}

// All returns the workspaces in order.
func (w *Workspaces) All() []*Workspace {
	return append([]*Workspace(nil), w.workspaces...)
}

// Get returns the workspace at a 0-based index.
func (w *Workspaces) Get(index int) (*Workspace, error) {
	if index < 0 || index >= len(w.workspaces) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchWorkspace, index+1)
	}
	return w.workspaces[index], nil
}

// Index returns the 0-based index of the workspace on the current screen.
func (w *Workspaces) Index() int {
	return w.visible[w.current]
}

// Current returns the workspace on the current screen.
func (w *Workspaces) Current() *Workspace {
	return w.workspaces[w.Index()]
}

// CurrentScreen returns the 0-based index of the current screen.
func (w *Workspaces) CurrentScreen() int {
	return w.current
}

// ScreenOf returns the screen showing workspace index, if it is visible.
func (w *Workspaces) ScreenOf(index int) (int, bool) {
	for s, ws := range w.visible {
		if ws == index {
			return s, true
		}
	}
	return 0, false
}

// Find returns the index of the workspace holding win.
func (w *Workspaces) Find(win platform.WindowID) (int, bool) {
	for i, ws := range w.workspaces {
		if ws.Contains(win) {
			return i, true
		}
	}
	return 0, false
}

// Windows returns every managed window, workspace by workspace.
func (w *Workspaces) Windows() []platform.WindowID {
	var out []platform.WindowID
	for _, ws := range w.workspaces {
		out = append(out, ws.windows...)
	}
	return out
}

// SwitchTo shows workspace index on the current screen. A workspace already
// visible on another screen trades places with the current one.
func (w *Workspaces) SwitchTo(index int) error {
	if _, err := w.Get(index); err != nil {
		return err
	}
	old := w.Index()
	if old == index {
		return w.Redraw(index)
	}

	if other, ok := w.ScreenOf(index); ok {
		w.visible[other] = old
		w.visible[w.current] = index
		return errors.Join(w.Redraw(old), w.Redraw(index))
	}

	w.visible[w.current] = index
	return errors.Join(w.hide(old), w.Redraw(index))
}

// SwitchToScreen makes screen the current one and focuses its workspace.
func (w *Workspaces) SwitchToScreen(screen int) error {
	if screen < 0 || screen >= len(w.screens) {
		return fmt.Errorf("%w: %d", ErrNoSuchScreen, screen+1)
	}
	prev := w.Index()
	w.current = screen
	return errors.Join(w.Redraw(prev), w.Redraw(w.Index()))
}

// MoveWindowTo moves the focused window of the current workspace to the
// end of workspace index and focuses it there.
func (w *Workspaces) MoveWindowTo(index int) error {
	target, err := w.Get(index)
	if err != nil {
		return err
	}
	from := w.Index()
	win, ok := w.workspaces[from].Focused()
	if !ok {
		return ErrNoFocusedWindow
	}
	if from == index {
		return nil
	}

	w.workspaces[from].remove(win)
	target.add(win)
	target.focus(win)

	var hideErr error
	if _, visible := w.ScreenOf(index); !visible {
		hideErr = w.unmap(win)
	}
	return errors.Join(hideErr, w.Redraw(from), w.Redraw(index))
}

// MoveWindowToScreen moves the focused window to the workspace shown on
// screen.
func (w *Workspaces) MoveWindowToScreen(screen int) error {
	if screen < 0 || screen >= len(w.screens) {
		return fmt.Errorf("%w: %d", ErrNoSuchScreen, screen+1)
	}
	return w.MoveWindowTo(w.visible[screen])
}

// MoveFocus moves focus within the current workspace.
func (w *Workspaces) MoveFocus(dir Direction) error {
	if !w.Current().moveFocus(dir) {
		return ErrNoFocusedWindow
	}
	return w.Redraw(w.Index())
}

// MoveWindow reorders the focused window within the current workspace.
func (w *Workspaces) MoveWindow(dir Direction) error {
	if !w.Current().moveWindow(dir) {
		return ErrNoFocusedWindow
	}
	return w.Redraw(w.Index())
}

// AddWindow appends win to workspace index. Focus is unchanged unless the
// workspace was empty; call FocusWindow to move it.
func (w *Workspaces) AddWindow(index int, win platform.WindowID) error {
	ws, err := w.Get(index)
	if err != nil {
		return err
	}
	if other, ok := w.Find(win); ok {
		return fmt.Errorf("window %d already on workspace %d", win, other+1)
	}
	ws.add(win)
	return w.Redraw(index)
}

// FocusWindow focuses win inside its workspace. When that workspace is
// visible its screen becomes the current screen.
func (w *Workspaces) FocusWindow(win platform.WindowID) error {
	index, ok := w.Find(win)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, win)
	}
	w.workspaces[index].focus(win)

	prev := w.Index()
	if screen, visible := w.ScreenOf(index); visible {
		w.current = screen
	}
	if prev != index {
		return errors.Join(w.Redraw(prev), w.Redraw(index))
	}
	return w.Redraw(index)
}

// RemoveWindow forgets win and returns the index of the workspace that held
// it. The workspace is redrawn.
func (w *Workspaces) RemoveWindow(win platform.WindowID) (int, bool, error) {
	index, ok := w.Find(win)
	if !ok {
		return 0, false, nil
	}
	w.workspaces[index].remove(win)
	delete(w.mapped, win)
	return index, true, w.Redraw(index)
}

// Remap forgets that win is mapped and redraws its workspace, so a client
// that unmapped itself is shown again. Windows on hidden workspaces stay
// unmapped until their workspace is shown.
func (w *Workspaces) Remap(win platform.WindowID) error {
	index, ok := w.Find(win)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, win)
	}
	delete(w.mapped, win)
	return w.Redraw(index)
}

// Redraw lays out workspace index on its screen, paints borders and gives
// input focus to the focused window of the current workspace. Hidden
// workspaces are left alone.
func (w *Workspaces) Redraw(index int) error {
	ws, err := w.Get(index)
	if err != nil {
		return err
	}
	screen, visible := w.ScreenOf(index)
	if !visible {
		return nil
	}

	rects := ws.layout.Apply(w.screens[screen], ws.windows)
	focused, hasFocus := ws.Focused()
	bw := w.style.BorderWidth

	var errs []error
	for i, win := range ws.windows {
		if i >= len(rects) {
			break
		}
		color := w.style.BorderColor
		if hasFocus && win == focused {
			color = w.style.FocusBorderColor
		}
		r := rects[i]
		r.Width = max(r.Width-2*bw, 1)
		r.Height = max(r.Height-2*bw, 1)

		errs = append(errs,
			w.display.SetWindowBorderWidth(win, bw),
			w.display.SetWindowBorderColor(win, color),
			w.display.MoveResizeWindow(win, r),
		)
		if !w.mapped[win] {
			if err := w.display.MapWindow(win); err != nil {
				errs = append(errs, err)
			} else {
				w.mapped[win] = true
			}
		}
	}

	if hasFocus && index == w.Index() {
		errs = append(errs,
			w.display.FocusWindow(focused),
			w.display.RaiseWindow(focused),
		)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("redraw workspace %s: %w", ws.tag, err)
	}
	return nil
}

// RedrawAll redraws every visible workspace.
func (w *Workspaces) RedrawAll() error {
	var errs []error
	for _, index := range w.visible {
		errs = append(errs, w.Redraw(index))
	}
	return errors.Join(errs...)
}

func (w *Workspaces) hide(index int) error {
	var errs []error
	for _, win := range w.workspaces[index].windows {
		errs = append(errs, w.unmap(win))
	}
	return errors.Join(errs...)
}

func (w *Workspaces) unmap(win platform.WindowID) error {
	if !w.mapped[win] {
		return nil
	}
	delete(w.mapped, win)
	return w.display.UnmapWindow(win)
}
