package wm

import (
	"testing"

	"github.com/1broseidon/tallwm/internal/layout"
	"github.com/1broseidon/tallwm/internal/platform"
	"github.com/1broseidon/tallwm/internal/workspace"
)

type fakeBackend struct {
	events  chan platform.Event
	screens []platform.Display

	geometry   map[platform.WindowID]platform.Rect
	border     map[platform.WindowID]uint32
	mapped     map[platform.WindowID]bool
	classes    map[platform.WindowID]string
	titles     map[platform.WindowID]string
	focused    platform.WindowID
	killed     []platform.WindowID
	configured []platform.WindowID
	grabbed    []uint16
	published  int
	current    int
}

var _ platform.DesktopPublisher = (*fakeBackend)(nil)

func newFakeBackend(screens ...platform.Rect) *fakeBackend {
	if len(screens) == 0 {
		screens = []platform.Rect{{Width: 1000, Height: 500}}
	}
	b := &fakeBackend{
		events:   make(chan platform.Event),
		geometry: make(map[platform.WindowID]platform.Rect),
		border:   make(map[platform.WindowID]uint32),
		mapped:   make(map[platform.WindowID]bool),
		classes:  make(map[platform.WindowID]string),
		titles:   make(map[platform.WindowID]string),
	}
	for i, r := range screens {
		b.screens = append(b.screens, platform.Display{ID: i, Name: "screen", Bounds: r})
	}
	return b
}

func (b *fakeBackend) NextEvent() (platform.Event, error) {
	ev, ok := <-b.events
	if !ok {
		return nil, platform.ErrConnectionClosed
	}
	return ev, nil
}

func (b *fakeBackend) Screens() ([]platform.Display, error) { return b.screens, nil }

func (b *fakeBackend) MoveResizeWindow(win platform.WindowID, r platform.Rect) error {
	b.geometry[win] = r
	return nil
}

func (b *fakeBackend) RaiseWindow(platform.WindowID) error { return nil }

func (b *fakeBackend) FocusWindow(win platform.WindowID) error {
	b.focused = win
	return nil
}

func (b *fakeBackend) KillWindow(win platform.WindowID) error {
	b.killed = append(b.killed, win)
	return nil
}

func (b *fakeBackend) ConfigureWindow(win platform.WindowID, _ platform.WindowChanges, _ platform.ConfigMask) error {
	b.configured = append(b.configured, win)
	return nil
}

func (b *fakeBackend) SetWindowBorderWidth(platform.WindowID, int) error { return nil }

func (b *fakeBackend) SetWindowBorderColor(win platform.WindowID, color uint32) error {
	b.border[win] = color
	return nil
}

func (b *fakeBackend) MapWindow(win platform.WindowID) error {
	b.mapped[win] = true
	return nil
}

func (b *fakeBackend) UnmapWindow(win platform.WindowID) error {
	b.mapped[win] = false
	return nil
}

func (b *fakeBackend) WindowTitle(win platform.WindowID) string { return b.titles[win] }
func (b *fakeBackend) WindowClass(win platform.WindowID) string { return b.classes[win] }

func (b *fakeBackend) GrabModifier(mods uint16) error {
	b.grabbed = append(b.grabbed, mods)
	return nil
}

func (b *fakeBackend) PublishDesktops(names []string, current int, _ platform.WindowID, _ []platform.WindowID) error {
	b.published++
	b.current = current
	return nil
}

type recordingSpawner struct {
	program string
	args    []string
	err     error
}

func (s *recordingSpawner) Spawn(program string, args []string) error {
	s.program = program
	s.args = args
	return s.err
}

const (
	unfocusedColor = 0x222222
	focusedColor   = 0x3b7dd8
)

func testSettings() Settings {
	return Settings{
		Tags:   []string{"1", "2", "3"},
		Layout: func() layout.Layout { return layout.NewTall(1, 0.6, 0.05) },
		Style: workspace.Style{
			BorderColor:      unfocusedColor,
			FocusBorderColor: focusedColor,
		},
		Spawner: &recordingSpawner{},
	}
}

func newTestManager(t *testing.T, b *fakeBackend, settings Settings) *Manager {
	t.Helper()
	m, err := NewManager(b, settings, nil)
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	return m
}

func testEnv(t *testing.T, b *fakeBackend) Env {
	t.Helper()
	m := newTestManager(t, b, testSettings())
	return m.env()
}

func addWindows(t *testing.T, env Env, index int, wins ...platform.WindowID) {
	t.Helper()
	for _, win := range wins {
		if err := (Move{Index: index + 1}).Call(env, win); err != nil {
			t.Fatalf("Move.Call(%d) error: %v", win, err)
		}
	}
}
