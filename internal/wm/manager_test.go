package wm

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/tallwm/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
)

// flush returns once every previously sent event has reached the loop.
// The pump only takes the Ignored event after handing over the one before
// it, and the loop finishes an event before serving any control request.
func flush(b *fakeBackend) {
	b.events <- platform.Ignored{}
}

func TestNewManager_GrabsBindingModifiers(t *testing.T) {
	b := newFakeBackend()
	settings := testSettings()
	bindings, err := NewBindings(map[string]string{
		"Mod4-j":       "focus-down",
		"Mod4-k":       "focus-up",
		"Mod4-Shift-c": "kill-client",
	})
	if err != nil {
		t.Fatalf("NewBindings() error: %v", err)
	}
	settings.Bindings = bindings

	newTestManager(t, b, settings)

	want := []uint16{xproto.ModMask4, xproto.ModMask4 | xproto.ModMaskShift}
	if !reflect.DeepEqual(b.grabbed, want) {
		t.Fatalf("grabbed = %v, want %v", b.grabbed, want)
	}
}

func TestNewManager_RequiresLayout(t *testing.T) {
	settings := testSettings()
	settings.Layout = nil
	if _, err := NewManager(newFakeBackend(), settings, nil); err == nil {
		t.Fatal("expected error without layout factory")
	}
}

func TestHandle_MapRequestDefaultPlacement(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())

	m.Handle(platform.MapRequest{Window: 10})
	m.Handle(platform.MapRequest{Window: 11})
	m.Handle(platform.MapRequest{Window: 11})

	if got := m.Workspaces().Current().Windows(); !reflect.DeepEqual(got, []platform.WindowID{10, 11}) {
		t.Fatalf("windows = %v, want [10 11]", got)
	}
	if b.focused != 11 || !b.mapped[11] {
		t.Fatalf("focused = %d mapped = %v", b.focused, b.mapped)
	}
	if b.geometry[10] != (platform.Rect{Width: 600, Height: 500}) {
		t.Fatalf("master geometry = %v", b.geometry[10])
	}
}

func TestHandle_MapRequestRemapsWithdrawnWindow(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())

	m.Handle(platform.MapRequest{Window: 10})
	m.Handle(platform.MapRequest{Window: 20})
	if err := m.Workspaces().MoveWindowTo(2); err != nil {
		t.Fatalf("MoveWindowTo() error: %v", err)
	}

	// Both clients unmap themselves and ask to be mapped again.
	b.mapped[10] = false
	b.mapped[20] = false
	m.Handle(platform.MapRequest{Window: 10})
	m.Handle(platform.MapRequest{Window: 20})

	if !b.mapped[10] {
		t.Fatal("window on the visible workspace was not mapped again")
	}
	if b.mapped[20] {
		t.Fatal("window on a hidden workspace was mapped")
	}
	if got := m.Workspaces().Current().Windows(); !reflect.DeepEqual(got, []platform.WindowID{10}) {
		t.Fatalf("windows = %v, want [10]", got)
	}
	if index, _ := m.Workspaces().Find(20); index != 2 {
		t.Fatalf("window 20 moved to workspace %d", index)
	}
}

func TestHandle_MapRequestUsesManageHooks(t *testing.T) {
	b := newFakeBackend()
	settings := testSettings()
	settings.Hooks = ManageHooks{
		{ClassName: "Firefox", Cmd: Move{Index: 2}},
		{ClassName: "Gimp", Cmd: Float{}},
		{ClassName: "Xmobar", Cmd: Ignore{}},
	}
	m := newTestManager(t, b, settings)

	b.classes[20] = "Firefox"
	b.classes[21] = "Gimp"
	b.classes[22] = "Xmobar"
	m.Handle(platform.MapRequest{Window: 20})
	m.Handle(platform.MapRequest{Window: 21})
	m.Handle(platform.MapRequest{Window: 22})

	if index, ok := m.Workspaces().Find(20); !ok || index != 1 {
		t.Fatalf("Firefox on workspace %d (%v), want 1", index, ok)
	}
	if index, ok := m.Workspaces().Find(21); !ok || index != 0 {
		t.Fatalf("unsupported action did not fall back to current workspace: %d %v", index, ok)
	}
	if _, ok := m.Workspaces().Find(22); ok {
		t.Fatal("ignored window is managed")
	}
	if !b.mapped[22] {
		t.Fatal("ignored window was not mapped")
	}
}

func TestHandle_ConfigurationRequest(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())
	m.Handle(platform.MapRequest{Window: 10})
	b.geometry[10] = platform.Rect{Width: 1}

	m.Handle(platform.ConfigurationRequest{Window: 10, Mask: platform.ConfigWidth, Changes: platform.WindowChanges{Width: 50}})
	if len(b.configured) != 0 {
		t.Fatalf("managed window was configured verbatim: %v", b.configured)
	}
	if b.geometry[10] != (platform.Rect{Width: 1000, Height: 500}) {
		t.Fatalf("managed window not retiled: %v", b.geometry[10])
	}

	m.Handle(platform.ConfigurationRequest{Window: 77, Mask: platform.ConfigWidth, Changes: platform.WindowChanges{Width: 50}})
	if !reflect.DeepEqual(b.configured, []platform.WindowID{77}) {
		t.Fatalf("configured = %v, want [77]", b.configured)
	}
}

func TestHandle_DestroyRemovesWindow(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())
	m.Handle(platform.MapRequest{Window: 10})
	m.Handle(platform.MapRequest{Window: 11})

	m.Handle(platform.Destroy{Window: 11})
	if got := m.Workspaces().Current().Windows(); !reflect.DeepEqual(got, []platform.WindowID{10}) {
		t.Fatalf("windows = %v, want [10]", got)
	}
	if b.geometry[10] != (platform.Rect{Width: 1000, Height: 500}) {
		t.Fatalf("remaining window not retiled: %v", b.geometry[10])
	}

	published := b.published
	m.Handle(platform.Destroy{Window: 999})
	m.Handle(platform.Destroy{Window: 11})
	if b.published != published {
		t.Fatalf("published %d times for unknown windows", b.published-published)
	}
}

func TestHandle_EnterNotifyFocuses(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())
	m.Handle(platform.MapRequest{Window: 10})
	m.Handle(platform.MapRequest{Window: 11})

	m.Handle(platform.EnterNotify{Window: 10})
	if focused, _ := m.Workspaces().Current().Focused(); focused != 10 || b.focused != 10 {
		t.Fatalf("focused = %d display = %d, want 10", focused, b.focused)
	}
	if b.border[10] != focusedColor || b.border[11] != unfocusedColor {
		t.Fatalf("borders = %v", b.border)
	}

	m.Handle(platform.EnterNotify{Window: 555})
	if b.focused != 10 {
		t.Fatal("entering an unmanaged window changed focus")
	}
}

func TestHandle_FocusOutRepaintsUnfocusedBorder(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())
	m.Handle(platform.MapRequest{Window: 10})
	m.Handle(platform.MapRequest{Window: 11})

	b.border[10] = focusedColor
	m.Handle(platform.FocusOut{Window: 10})
	if b.border[10] != unfocusedColor {
		t.Fatalf("border = %#x, want unfocused", b.border[10])
	}

	m.Handle(platform.FocusOut{Window: 11})
	if b.border[11] != focusedColor {
		t.Fatal("focused window lost its focus border")
	}
}

func TestHandle_KeyPressRunsBinding(t *testing.T) {
	b := newFakeBackend()
	settings := testSettings()
	bindings, err := NewBindings(map[string]string{"Mod4-2": "switch-workspace 2"})
	if err != nil {
		t.Fatalf("NewBindings() error: %v", err)
	}
	settings.Bindings = bindings
	m := newTestManager(t, b, settings)

	m.Handle(platform.KeyPress{Keystroke: platform.Keystroke{Mods: xproto.ModMask4, Key: "3"}})
	if m.Workspaces().Index() != 0 {
		t.Fatal("unbound key changed state")
	}

	m.Handle(platform.KeyPress{Keystroke: platform.Keystroke{Mods: xproto.ModMask4, Key: "2"}})
	if m.Workspaces().Index() != 1 {
		t.Fatalf("Index() = %d, want 1", m.Workspaces().Index())
	}
	if b.current != 1 {
		t.Fatalf("published current desktop = %d, want 1", b.current)
	}
}

func TestHandle_LogHookRunsAfterHandledEvents(t *testing.T) {
	b := newFakeBackend()
	var buf bytes.Buffer
	settings := testSettings()
	settings.LogHook = &LogHook{
		Logs:   []CmdLogHook{LogWorkspaces, LogLayout, LogTitle},
		Output: RenderPlain,
		Writer: &buf,
	}
	m := newTestManager(t, b, settings)
	b.titles[10] = "term"

	m.Handle(platform.Ignored{})
	if buf.Len() != 0 {
		t.Fatalf("log hook ran for an ignored event: %q", buf.String())
	}

	m.Handle(platform.MapRequest{Window: 10})
	if got, want := buf.String(), "[1] 2 3 : Tall : term\n"; got != want {
		t.Fatalf("log output = %q, want %q", got, want)
	}
	if b.published != 1 {
		t.Fatalf("published %d times, want 1", b.published)
	}

	// Events that leave the state untouched stay quiet.
	buf.Reset()
	for _, ev := range []platform.Event{
		platform.EnterNotify{Window: 555},
		platform.FocusOut{Window: 555},
		platform.FocusOut{Window: 10},
		platform.Destroy{Window: 555},
	} {
		m.Handle(ev)
	}
	if buf.Len() != 0 || b.published != 1 {
		t.Fatalf("log output = %q published = %d after no-op events", buf.String(), b.published)
	}
}

func TestRun_ServesEventsAndControlRequests(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	b.events <- platform.MapRequest{Window: 10}
	b.events <- platform.MapRequest{Window: 11}
	flush(b)

	st, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if st.Windows != 2 || st.Layout != "Tall" || st.Current != 0 {
		t.Fatalf("status = %+v", st)
	}
	if !strings.HasPrefix(st.Rendered, "[1] 2 3 : Tall") {
		t.Fatalf("rendered = %q", st.Rendered)
	}

	if err := m.RunCommand(ctx, SwitchWorkspace{Index: 3}); err != nil {
		t.Fatalf("RunCommand() error: %v", err)
	}
	if err := m.RunCommand(ctx, SwitchWorkspace{Index: 8}); err == nil {
		t.Fatal("expected error for missing workspace")
	}
	st, _ = m.Status(ctx)
	if st.Current != 2 {
		t.Fatalf("Current = %d, want 2", st.Current)
	}

	close(b.events)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-ctx.Done():
		t.Fatal("Run did not return after the connection closed")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}

	doCtx, doCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer doCancel()
	if err := m.Do(doCtx, func() {}); err == nil {
		t.Fatal("Do succeeded without a running loop")
	}
}

func TestStatus_ExpiredContextWhileLoopBusy(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go m.Run(ctx)

	release := make(chan struct{})
	started := make(chan struct{})
	go m.Do(ctx, func() {
		close(started)
		<-release
	})
	<-started

	// The loop is busy, so these calls time out before their closures run.
	short, shortCancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer shortCancel()
	if _, err := m.Status(short); err == nil {
		t.Fatal("Status() succeeded with an expired context")
	}
	if err := m.RunCommand(short, SwitchWorkspace{Index: 2}); err == nil {
		t.Fatal("RunCommand() succeeded with an expired context")
	}
	if err := m.UpdateSettings(short, testSettings()); err == nil {
		t.Fatal("UpdateSettings() succeeded with an expired context")
	}
	close(release)

	st, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if st.Current != 0 {
		t.Fatalf("Current = %d, want 0", st.Current)
	}
}

func TestUpdateSettings_SwapsBindingsAndStyle(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b, testSettings())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go m.Run(ctx)

	b.events <- platform.MapRequest{Window: 10}
	flush(b)

	next := testSettings()
	next.Tags = []string{"ignored"}
	next.Style.FocusBorderColor = 0xff0000
	bindings, err := NewBindings(map[string]string{"Mod1-2": "switch-workspace 2"})
	if err != nil {
		t.Fatalf("NewBindings() error: %v", err)
	}
	next.Bindings = bindings

	if err := m.UpdateSettings(ctx, next); err != nil {
		t.Fatalf("UpdateSettings() error: %v", err)
	}

	b.events <- platform.KeyPress{Keystroke: platform.Keystroke{Mods: xproto.ModMask1, Key: "2"}}
	flush(b)
	st, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if st.Current != 1 {
		t.Fatalf("new binding not active: current = %d", st.Current)
	}
	if !reflect.DeepEqual(st.Tags, []string{"1", "2", "3"}) {
		t.Fatalf("tags changed on reload: %v", st.Tags)
	}
	if b.border[10] != 0xff0000 {
		t.Fatalf("style not applied: border = %#x", b.border[10])
	}
}
