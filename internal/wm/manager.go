package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/tallwm/internal/layout"
	"github.com/1broseidon/tallwm/internal/platform"
	"github.com/1broseidon/tallwm/internal/workspace"
)

// Settings is the configuration-derived part of the manager. Everything
// except Tags and Layout can be swapped at runtime with UpdateSettings.
type Settings struct {
	Tags     []string
	Layout   layout.Factory
	Style    workspace.Style
	Bindings Bindings
	Hooks    ManageHooks
	// LogHook runs after every handled event; nil disables it.
	LogHook *LogHook
	Spawner Spawner
}

// Status is a snapshot of the manager state for control clients.
type Status struct {
	Tags     []string
	Current  int
	Urgent   []int
	Layout   string
	Title    string
	Rendered string
	Windows  int
	Uptime   time.Duration
}

type request struct {
	fn   func()
	done chan struct{}
}

// Manager owns the workspace state and runs the event loop. All state is
// touched from the Run goroutine only; other goroutines go through Do.
type Manager struct {
	backend    platform.Backend
	workspaces *workspace.Workspaces
	settings   Settings
	logger     *slog.Logger
	requests   chan request
	startedAt  time.Time
}

// NewManager builds the workspaces over the backend's screens and grabs
// the modifiers used by the key bindings.
func NewManager(backend platform.Backend, settings Settings, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Layout == nil {
		return nil, fmt.Errorf("layout factory is required")
	}

	displays, err := backend.Screens()
	if err != nil {
		return nil, fmt.Errorf("failed to query screens: %w", err)
	}
	screens := make([]platform.Rect, 0, len(displays))
	for _, d := range displays {
		logger.Info("screen", "id", d.ID, "name", d.Name,
			"x", d.Bounds.X, "y", d.Bounds.Y, "width", d.Bounds.Width, "height", d.Bounds.Height)
		screens = append(screens, d.Bounds)
	}

	ws, err := workspace.New(backend, settings.Tags, settings.Layout, screens, settings.Style)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		backend:    backend,
		workspaces: ws,
		settings:   settings,
		logger:     logger,
		requests:   make(chan request),
		startedAt:  time.Now(),
	}
	m.grabKeys()
	return m, nil
}

// Workspaces exposes the workspace collection. Only safe from the loop
// goroutine or before Run starts.
func (m *Manager) Workspaces() *workspace.Workspaces {
	return m.workspaces
}

func (m *Manager) env() Env {
	return Env{
		Display:    m.backend,
		Workspaces: m.workspaces,
		Spawner:    m.settings.Spawner,
		Logger:     m.logger,
	}
}

func (m *Manager) grabKeys() {
	for _, mods := range m.settings.Bindings.Modifiers() {
		if err := m.backend.GrabModifier(mods); err != nil {
			m.logger.Warn("failed to grab modifier", "mods", mods, "error", err)
		}
	}
}

// Run processes display events and control requests until ctx is done or
// the display connection closes.
func (m *Manager) Run(ctx context.Context) error {
	events := make(chan platform.Event)
	errc := make(chan error, 1)
	go m.pump(ctx, events, errc)

	m.afterEvent()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if errors.Is(err, platform.ErrConnectionClosed) {
				m.logger.Info("display connection closed")
				return nil
			}
			return err
		case ev := <-events:
			m.Handle(ev)
		case req := <-m.requests:
			req.fn()
			close(req.done)
		}
	}
}

// pump performs the blocking NextEvent calls so the loop can also serve
// control requests. Delivery order is preserved.
func (m *Manager) pump(ctx context.Context, events chan<- platform.Event, errc chan<- error) {
	for {
		ev, err := m.backend.NextEvent()
		if err != nil {
			errc <- err
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish. When ctx
// ends first fn may still run later, so fn must not write to variables
// the caller reads after Do returns; send results over a buffered channel.
func (m *Manager) Do(ctx context.Context, fn func()) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case m.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handle dispatches one semantic event.
func (m *Manager) Handle(ev platform.Event) {
	switch e := ev.(type) {
	case platform.MapRequest:
		m.manage(e.Window)
	case platform.ConfigurationRequest:
		m.configure(e)
	case platform.Destroy:
		_, found, err := m.workspaces.RemoveWindow(e.Window)
		if err != nil {
			m.logger.Warn("redraw after destroy failed", "window", e.Window, "error", err)
		}
		if !found {
			return
		}
	case platform.EnterNotify:
		if _, ok := m.workspaces.Find(e.Window); !ok {
			return
		}
		if err := m.workspaces.FocusWindow(e.Window); err != nil {
			m.logger.Warn("focus failed", "window", e.Window, "error", err)
		}
	case platform.FocusOut:
		if !m.unfocusBorder(e.Window) {
			return
		}
	case platform.KeyPress:
		cmd, ok := m.settings.Bindings[e.Keystroke]
		if !ok {
			return
		}
		m.run(cmd)
	default:
		return
	}
	m.afterEvent()
}

func (m *Manager) manage(win platform.WindowID) {
	if _, ok := m.workspaces.Find(win); ok {
		m.logger.Debug("remap", "window", win)
		if err := m.workspaces.Remap(win); err != nil {
			m.logger.Warn("remap failed", "window", win, "error", err)
		}
		return
	}

	env := m.env()
	class := m.backend.WindowClass(win)
	action, ok := m.settings.Hooks.Match(class)
	if !ok {
		m.logger.Debug("manage", "window", win, "class", class, "action", "default")
		if err := ManageDefault(env, win); err != nil {
			m.logger.Warn("manage failed", "window", win, "error", err)
		}
		return
	}

	m.logger.Debug("manage", "window", win, "class", class, "action", action.String())
	err := action.Call(env, win)
	switch {
	case errors.Is(err, ErrUnsupportedManage):
		m.logger.Warn("manage action not supported, using default placement",
			"window", win, "class", class, "action", action.String())
		if err := ManageDefault(env, win); err != nil {
			m.logger.Warn("manage failed", "window", win, "error", err)
		}
	case err != nil:
		m.logger.Warn("manage failed", "window", win, "action", action.String(), "error", err)
	}
}

func (m *Manager) configure(e platform.ConfigurationRequest) {
	if index, ok := m.workspaces.Find(e.Window); ok {
		if err := m.workspaces.Redraw(index); err != nil {
			m.logger.Warn("redraw failed", "window", e.Window, "error", err)
		}
		return
	}
	if err := m.backend.ConfigureWindow(e.Window, e.Changes, e.Mask); err != nil {
		m.logger.Debug("configure failed", "window", e.Window, "error", err)
	}
}

// unfocusBorder repaints win with the plain border unless it is still the
// focused window of its workspace. It reports whether anything was painted.
func (m *Manager) unfocusBorder(win platform.WindowID) bool {
	index, ok := m.workspaces.Find(win)
	if !ok {
		return false
	}
	ws, _ := m.workspaces.Get(index)
	if focused, ok := ws.Focused(); ok && focused == win {
		return false
	}
	if err := m.backend.SetWindowBorderColor(win, m.settings.Style.BorderColor); err != nil {
		m.logger.Debug("border update failed", "window", win, "error", err)
	}
	return true
}

func (m *Manager) run(cmd Cmd) error {
	focused, _ := m.workspaces.Current().Focused()
	m.logger.Debug("command", "cmd", cmd.String(), "focused", focused)

	if err := cmd.Call(m.env()); err != nil {
		m.logger.Warn("command failed", "cmd", cmd.String(), "error", err)
		return err
	}
	return nil
}

func (m *Manager) afterEvent() {
	if hook := m.settings.LogHook; hook != nil {
		if err := hook.Call(m.env()); err != nil {
			m.logger.Debug("log hook write failed", "error", err)
		}
	}
	m.publish()
}

func (m *Manager) publish() {
	p, ok := m.backend.(platform.DesktopPublisher)
	if !ok {
		return
	}
	all := m.workspaces.All()
	names := make([]string, len(all))
	for i, ws := range all {
		names[i] = ws.Tag()
	}
	active, _ := m.workspaces.Current().Focused()
	if err := p.PublishDesktops(names, m.workspaces.Index(), active, m.workspaces.Windows()); err != nil {
		m.logger.Debug("publishing desktops failed", "error", err)
	}
}

// RunCommand executes cmd on the loop goroutine.
func (m *Manager) RunCommand(ctx context.Context, cmd Cmd) error {
	res := make(chan error, 1)
	if err := m.Do(ctx, func() {
		err := m.run(cmd)
		m.afterEvent()
		res <- err
	}); err != nil {
		return err
	}
	return <-res
}

// Status samples the current state on the loop goroutine.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	res := make(chan Status, 1)
	if err := m.Do(ctx, func() {
		res <- m.snapshot()
	}); err != nil {
		return Status{}, err
	}
	return <-res, nil
}

func (m *Manager) snapshot() Status {
	env := m.env()
	info := LogWorkspaces.Sample(env).(WorkspacesInfo)
	st := Status{
		Tags:    info.Tags,
		Current: info.Current,
		Urgent:  info.Urgent,
		Layout:  LogLayout.Sample(env).(LayoutInfo).Name,
		Title:   LogTitle.Sample(env).(TitleInfo).Title,
		Windows: len(m.workspaces.Windows()),
		Uptime:  time.Since(m.startedAt),
	}
	hook := m.settings.LogHook
	if hook == nil {
		hook = &LogHook{Logs: []CmdLogHook{LogWorkspaces, LogLayout, LogTitle}}
	}
	st.Rendered = hook.Render(env)
	return st
}

// UpdateSettings swaps bindings, manage hooks, log hook, style and spawner
// on the loop goroutine, then redraws. Tags and layouts keep their current
// values.
func (m *Manager) UpdateSettings(ctx context.Context, settings Settings) error {
	res := make(chan error, 1)
	if err := m.Do(ctx, func() {
		res <- m.applySettings(settings)
	}); err != nil {
		return err
	}
	return <-res
}

func (m *Manager) applySettings(settings Settings) error {
	settings.Tags = m.settings.Tags
	settings.Layout = m.settings.Layout
	m.settings = settings

	m.workspaces.SetStyle(settings.Style)
	m.grabKeys()
	m.logger.Info("settings reloaded", "bindings", len(settings.Bindings), "hooks", len(settings.Hooks))
	return m.workspaces.RedrawAll()
}
