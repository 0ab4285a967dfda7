package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/tallwm/internal/ipc"
	"github.com/1broseidon/tallwm/internal/wm"
)

type fakeManager struct {
	status   wm.Status
	commands []wm.Cmd
	settings []wm.Settings
}

func (f *fakeManager) Status(context.Context) (wm.Status, error) {
	return f.status, nil
}

func (f *fakeManager) RunCommand(_ context.Context, cmd wm.Cmd) error {
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeManager) UpdateSettings(_ context.Context, settings wm.Settings) error {
	f.settings = append(f.settings, settings)
	return nil
}

func TestController_Status(t *testing.T) {
	m := &fakeManager{status: wm.Status{
		Tags:     []string{"1", "2"},
		Current:  1,
		Urgent:   []int{},
		Layout:   "Tall",
		Title:    "term",
		Rendered: "1 [2] : Tall : term",
		Windows:  4,
		Uptime:   90 * time.Second,
	}}
	c := &controller{manager: m}

	got, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if got.UptimeSeconds != 90 || got.Windows != 4 || got.Rendered != "1 [2] : Tall : term" || got.Current != 1 {
		t.Fatalf("Status() = %+v", got)
	}
}

func TestController_RunCommand(t *testing.T) {
	m := &fakeManager{}
	c := &controller{manager: m}

	if err := c.RunCommand(context.Background(), "move-to-workspace 4"); err != nil {
		t.Fatalf("RunCommand() error: %v", err)
	}
	if len(m.commands) != 1 || m.commands[0] != (wm.MoveToWorkspace{Index: 4}) {
		t.Fatalf("commands = %v", m.commands)
	}
	if err := c.RunCommand(context.Background(), "move-to-workspace"); err == nil {
		t.Fatal("expected parse error")
	}
	if len(m.commands) != 1 {
		t.Fatal("invalid command reached the manager")
	}
}

func TestController_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\nborder_width: 5\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := &fakeManager{}
	level := new(slog.LevelVar)
	c := &controller{manager: m, configPath: path, statusOut: &bytes.Buffer{}, level: level}

	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if len(m.settings) != 1 || m.settings[0].Style.BorderWidth != 5 {
		t.Fatalf("settings = %+v", m.settings)
	}
	if level.Level() != slog.LevelDebug {
		t.Fatalf("level = %v, want debug", level.Level())
	}

	if err := os.WriteFile(path, []byte("border_width: -1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := c.Reload(context.Background()); err == nil {
		t.Fatal("expected error for invalid config")
	}
	if len(m.settings) != 1 {
		t.Fatal("invalid config was applied")
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	} {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWritePlainStatus(t *testing.T) {
	var buf bytes.Buffer
	writePlainStatus(&buf, &ipc.StatusData{
		Tags:          []string{"web", "dev"},
		Current:       0,
		Layout:        "Tall",
		Title:         "firefox",
		Windows:       1,
		UptimeSeconds: 12,
	})

	out := buf.String()
	for _, want := range []string{"workspace:      web\n", "workspaces:     web dev\n", "layout:         Tall\n", "windows:        1\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStyledStatus(t *testing.T) {
	out := renderStyledStatus(&ipc.StatusData{Tags: []string{"web", "dev"}, Current: 1, Layout: "Tall"})
	for _, want := range []string{"web", "dev", "Tall", "layout"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
