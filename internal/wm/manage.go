package wm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tallwm/internal/platform"
)

// ErrUnsupportedManage is returned by admission outcomes that have no
// implementation. Callers fall back to the default placement.
var ErrUnsupportedManage = errors.New("unsupported manage action")

// CmdManage decides how a newly mapped window is admitted.
type CmdManage interface {
	Call(env Env, win platform.WindowID) error
	String() string
}

type (
	// Move adds the window to the 1-based workspace and focuses it there.
	Move struct{ Index int }
	// Float is declared for configuration compatibility only.
	Float struct{}
	// Fullscreen is declared for configuration compatibility only.
	Fullscreen struct{}
	// Ignore maps the window without managing it.
	Ignore struct{}
)

func (m Move) Call(env Env, win platform.WindowID) error {
	index, err := workspaceIndex(env, m.Index)
	if err != nil {
		return err
	}
	if err := env.Workspaces.AddWindow(index, win); err != nil {
		return err
	}
	return env.Workspaces.FocusWindow(win)
}

func (Float) Call(Env, platform.WindowID) error {
	return fmt.Errorf("float: %w", ErrUnsupportedManage)
}

func (Fullscreen) Call(Env, platform.WindowID) error {
	return fmt.Errorf("fullscreen: %w", ErrUnsupportedManage)
}

func (Ignore) Call(env Env, win platform.WindowID) error {
	return env.Display.MapWindow(win)
}

func (m Move) String() string    { return "move " + strconv.Itoa(m.Index) }
func (Float) String() string      { return "float" }
func (Fullscreen) String() string { return "fullscreen" }
func (Ignore) String() string     { return "ignore" }

// ManageDefault adds win to the current workspace and focuses it.
func ManageDefault(env Env, win platform.WindowID) error {
	if err := env.Workspaces.AddWindow(env.Workspaces.Index(), win); err != nil {
		return err
	}
	return env.Workspaces.FocusWindow(win)
}

// ParseManage parses "move N", "float", "fullscreen" or "ignore".
func ParseManage(s string) (CmdManage, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty manage action")
	}
	switch fields[0] {
	case "move":
		n, err := parseIndexArg("move", fields[1:])
		if err != nil {
			return nil, err
		}
		return Move{Index: n}, nil
	case "float", "fullscreen", "ignore":
		if len(fields) != 1 {
			return nil, fmt.Errorf("%s takes no arguments", fields[0])
		}
		switch fields[0] {
		case "float":
			return Float{}, nil
		case "fullscreen":
			return Fullscreen{}, nil
		default:
			return Ignore{}, nil
		}
	default:
		return nil, fmt.Errorf("unknown manage action %q", fields[0])
	}
}

// ManageHook admits windows whose WM_CLASS class equals ClassName.
type ManageHook struct {
	ClassName string
	Cmd       CmdManage
}

// ManageHooks is an ordered rule table; the first matching rule wins.
type ManageHooks []ManageHook

// Match returns the action of the first hook whose class equals class.
func (h ManageHooks) Match(class string) (CmdManage, bool) {
	for _, hook := range h {
		if hook.ClassName == class {
			return hook.Cmd, true
		}
	}
	return nil, false
}
