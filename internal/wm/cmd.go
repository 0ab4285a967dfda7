package wm

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/1broseidon/tallwm/internal/layout"
	"github.com/1broseidon/tallwm/internal/platform"
	"github.com/1broseidon/tallwm/internal/workspace"
)

// ErrInvalidIndex is returned for workspace or screen numbers below 1.
var ErrInvalidIndex = errors.New("index must be 1 or greater")

// Display is the part of the backend commands act on.
type Display interface {
	workspace.Display
	KillWindow(windowID platform.WindowID) error
	WindowTitle(windowID platform.WindowID) string
}

// Env is what a command executes against.
type Env struct {
	Display    Display
	Workspaces *workspace.Workspaces
	Spawner    Spawner
	Logger     *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Cmd is a user action bound to a key or injected over the control socket.
// String renders the command in the grammar accepted by ParseCmd.
type Cmd interface {
	Call(env Env) error
	String() string
}

type (
	// Exec starts a detached program. The command line is split on
	// whitespace; no shell is involved.
	Exec struct{ Cmdline string }
	// SwitchWorkspace shows the 1-based workspace on the current screen.
	SwitchWorkspace struct{ Index int }
	// SwitchScreen makes the 1-based screen current.
	SwitchScreen struct{ Index int }
	// MoveToWorkspace sends the focused window to the 1-based workspace.
	MoveToWorkspace struct{ Index int }
	// MoveToScreen sends the focused window to the workspace on the
	// 1-based screen.
	MoveToScreen struct{ Index int }
	// SendLayoutMsg delivers Msg to the current workspace's layout.
	SendLayoutMsg struct{ Msg layout.Msg }

	KillClient  struct{}
	FocusUp     struct{}
	FocusDown   struct{}
	FocusMaster struct{}
	SwapUp      struct{}
	SwapDown    struct{}
	SwapMaster  struct{}
)

func (c Exec) Call(env Env) error {
	program, args, err := splitCmdline(c.Cmdline)
	if err != nil {
		return err
	}
	spawner := env.Spawner
	if spawner == nil {
		spawner = ExecSpawner{}
	}
	if err := spawner.Spawn(program, args); err != nil {
		return fmt.Errorf("failed to start %q: %w", c.Cmdline, err)
	}
	return nil
}

func (c SwitchWorkspace) Call(env Env) error {
	index, err := workspaceIndex(env, c.Index)
	if err != nil {
		return err
	}
	return env.Workspaces.SwitchTo(index)
}

func (c SwitchScreen) Call(env Env) error {
	screen, err := screenIndex(env, c.Index)
	if err != nil {
		return err
	}
	return env.Workspaces.SwitchToScreen(screen)
}

func (c MoveToWorkspace) Call(env Env) error {
	index, err := workspaceIndex(env, c.Index)
	if err != nil {
		return err
	}
	return env.Workspaces.MoveWindowTo(index)
}

func (c MoveToScreen) Call(env Env) error {
	screen, err := screenIndex(env, c.Index)
	if err != nil {
		return err
	}
	return env.Workspaces.MoveWindowToScreen(screen)
}

func (c SendLayoutMsg) Call(env Env) error {
	current := env.Workspaces.Current()
	handler, ok := current.Layout().(layout.MessageHandler)
	if !ok || !handler.SendMsg(c.Msg) {
		env.logger().Debug("layout message not handled", "layout", current.Layout().Name(), "msg", string(c.Msg))
	}
	return env.Workspaces.Redraw(env.Workspaces.Index())
}

func (KillClient) Call(env Env) error {
	win, ok := env.Workspaces.Current().Focused()
	if !ok {
		return workspace.ErrNoFocusedWindow
	}
	return env.Display.KillWindow(win)
}

func (FocusUp) Call(env Env) error     { return env.Workspaces.MoveFocus(workspace.Up) }
func (FocusDown) Call(env Env) error   { return env.Workspaces.MoveFocus(workspace.Down) }
func (FocusMaster) Call(env Env) error { return env.Workspaces.MoveFocus(workspace.Swap) }
func (SwapUp) Call(env Env) error      { return env.Workspaces.MoveWindow(workspace.Up) }
func (SwapDown) Call(env Env) error    { return env.Workspaces.MoveWindow(workspace.Down) }
func (SwapMaster) Call(env Env) error  { return env.Workspaces.MoveWindow(workspace.Swap) }

func (c Exec) String() string            { return "exec " + c.Cmdline }
func (c SwitchWorkspace) String() string { return "switch-workspace " + strconv.Itoa(c.Index) }
func (c SwitchScreen) String() string    { return "switch-screen " + strconv.Itoa(c.Index) }
func (c MoveToWorkspace) String() string { return "move-to-workspace " + strconv.Itoa(c.Index) }
func (c MoveToScreen) String() string    { return "move-to-screen " + strconv.Itoa(c.Index) }
func (c SendLayoutMsg) String() string   { return "send-layout-msg " + string(c.Msg) }
func (KillClient) String() string        { return "kill-client" }
func (FocusUp) String() string           { return "focus-up" }
func (FocusDown) String() string         { return "focus-down" }
func (FocusMaster) String() string       { return "focus-master" }
func (SwapUp) String() string            { return "swap-up" }
func (SwapDown) String() string          { return "swap-down" }
func (SwapMaster) String() string        { return "swap-master" }

// workspaceIndex converts a 1-based workspace number and checks it against
// the collection before any state is touched.
func workspaceIndex(env Env, n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("workspace %d: %w", n, ErrInvalidIndex)
	}
	if n > env.Workspaces.Len() {
		return 0, fmt.Errorf("%w: %d", workspace.ErrNoSuchWorkspace, n)
	}
	return n - 1, nil
}

func screenIndex(env Env, n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("screen %d: %w", n, ErrInvalidIndex)
	}
	if n > env.Workspaces.ScreenCount() {
		return 0, fmt.Errorf("%w: %d", workspace.ErrNoSuchScreen, n)
	}
	return n - 1, nil
}

func splitCmdline(cmdline string) (string, []string, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("empty command line")
	}
	return fields[0], fields[1:], nil
}

// ParseCmd parses a command such as "switch-workspace 2" or "exec xterm".
func ParseCmd(s string) (Cmd, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "exec":
		if len(args) == 0 {
			return nil, fmt.Errorf("exec requires a command line")
		}
		return Exec{Cmdline: strings.Join(args, " ")}, nil
	case "send-layout-msg":
		if len(args) != 1 {
			return nil, fmt.Errorf("send-layout-msg requires exactly one message")
		}
		return SendLayoutMsg{Msg: layout.Msg(args[0])}, nil
	case "switch-workspace", "switch-screen", "move-to-workspace", "move-to-screen":
		n, err := parseIndexArg(name, args)
		if err != nil {
			return nil, err
		}
		switch name {
		case "switch-workspace":
			return SwitchWorkspace{Index: n}, nil
		case "switch-screen":
			return SwitchScreen{Index: n}, nil
		case "move-to-workspace":
			return MoveToWorkspace{Index: n}, nil
		default:
			return MoveToScreen{Index: n}, nil
		}
	}

	simple := map[string]Cmd{
		"kill-client":  KillClient{},
		"focus-up":     FocusUp{},
		"focus-down":   FocusDown{},
		"focus-master": FocusMaster{},
		"swap-up":      SwapUp{},
		"swap-down":    SwapDown{},
		"swap-master":  SwapMaster{},
	}
	cmd, ok := simple[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	if len(args) != 0 {
		return nil, fmt.Errorf("%s takes no arguments", name)
	}
	return cmd, nil
}

func parseIndexArg(name string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires exactly one number", name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", name, args[0])
	}
	if n < 1 {
		return 0, fmt.Errorf("%s %d: %w", name, n, ErrInvalidIndex)
	}
	return n, nil
}
