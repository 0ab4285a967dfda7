package wm

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// LogInfo is one point-in-time sample of window manager state.
type LogInfo interface {
	isLogInfo()
}

// WorkspacesInfo lists workspace tags, the 0-based current workspace and
// the workspaces flagged urgent.
type WorkspacesInfo struct {
	Tags    []string
	Current int
	Urgent  []int
}

// TitleInfo is the title of the focused window, empty when there is none.
type TitleInfo struct {
	Title string
}

// LayoutInfo is the name of the current workspace's layout.
type LayoutInfo struct {
	Name string
}

func (WorkspacesInfo) isLogInfo() {}
func (TitleInfo) isLogInfo()      {}
func (LayoutInfo) isLogInfo()     {}

// CmdLogHook selects which sample a LogHook takes.
type CmdLogHook int

const (
	LogWorkspaces CmdLogHook = iota
	LogTitle
	LogLayout
)

func (c CmdLogHook) String() string {
	switch c {
	case LogWorkspaces:
		return "workspaces"
	case LogTitle:
		return "title"
	case LogLayout:
		return "layout"
	default:
		return fmt.Sprintf("CmdLogHook(%d)", int(c))
	}
}

// ParseLogSelector maps a configuration name to its selector.
func ParseLogSelector(s string) (CmdLogHook, error) {
	switch s {
	case "workspaces":
		return LogWorkspaces, nil
	case "title":
		return LogTitle, nil
	case "layout":
		return LogLayout, nil
	default:
		return 0, fmt.Errorf("unknown log selector %q", s)
	}
}

// Sample reads the selected value from the current state.
func (c CmdLogHook) Sample(env Env) LogInfo {
	switch c {
	case LogTitle:
		win, ok := env.Workspaces.Current().Focused()
		if !ok {
			return TitleInfo{}
		}
		return TitleInfo{Title: env.Display.WindowTitle(win)}
	case LogLayout:
		return LayoutInfo{Name: env.Workspaces.Current().Layout().Name()}
	default:
		all := env.Workspaces.All()
		tags := make([]string, len(all))
		for i, ws := range all {
			tags[i] = ws.Tag()
		}
		return WorkspacesInfo{Tags: tags, Current: env.Workspaces.Index(), Urgent: []int{}}
	}
}

// LogHook renders a status line from fresh samples every time it runs.
type LogHook struct {
	Logs   []CmdLogHook
	Output func([]LogInfo) string
	// Writer receives one line per call; stdout when nil.
	Writer io.Writer
}

// Render samples every selector in order and formats the result once.
func (h *LogHook) Render(env Env) string {
	infos := make([]LogInfo, 0, len(h.Logs))
	for _, sel := range h.Logs {
		infos = append(infos, sel.Sample(env))
	}
	output := h.Output
	if output == nil {
		output = RenderPlain
	}
	return output(infos)
}

// Call renders the status line and writes it followed by a newline.
func (h *LogHook) Call(env Env) error {
	w := h.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintln(w, h.Render(env))
	return err
}

// RenderPlain formats samples as "[1] 2 3 : Tall : title".
func RenderPlain(infos []LogInfo) string {
	return render(infos, func(tag string) string { return "[" + tag + "]" })
}

// RenderXmobar returns a formatter that colours the current tag with
// xmobar <fc> markup.
func RenderXmobar(color string) func([]LogInfo) string {
	return func(infos []LogInfo) string {
		return render(infos, func(tag string) string {
			return "<fc=" + color + ">" + tag + "</fc>"
		})
	}
}

func render(infos []LogInfo, current func(string) string) string {
	parts := make([]string, 0, len(infos))
	for _, info := range infos {
		switch v := info.(type) {
		case WorkspacesInfo:
			tags := make([]string, len(v.Tags))
			for i, tag := range v.Tags {
				if i == v.Current {
					tag = current(tag)
				}
				tags[i] = tag
			}
			parts = append(parts, strings.Join(tags, " "))
		case LayoutInfo:
			parts = append(parts, v.Name)
		case TitleInfo:
			parts = append(parts, v.Title)
		}
	}
	return strings.Join(parts, " : ")
}
