package layout

import (
	"reflect"
	"testing"

	"github.com/1broseidon/tallwm/internal/platform"
)

func windows(n int) []platform.WindowID {
	ws := make([]platform.WindowID, n)
	for i := range ws {
		ws[i] = platform.WindowID(100 + i)
	}
	return ws
}

func TestTallApply_MasterAndTwoStackWindows(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1000, Height: 500}
	got := NewTall(1, 0.6, 0.05).Apply(area, windows(3))

	want := []platform.Rect{
		{X: 0, Y: 0, Width: 600, Height: 500},
		{X: 600, Y: 0, Width: 400, Height: 250},
		{X: 600, Y: 250, Width: 400, Height: 250},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Apply() = %v, want %v", got, want)
	}
}

func TestTallApply_OffsetArea(t *testing.T) {
	area := platform.Rect{X: 1920, Y: 30, Width: 800, Height: 600}
	got := NewTall(2, 0.5, 0.05).Apply(area, windows(3))

	want := []platform.Rect{
		{X: 1920, Y: 30, Width: 400, Height: 300},
		{X: 1920, Y: 330, Width: 400, Height: 300},
		{X: 2320, Y: 30, Width: 400, Height: 600},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Apply() = %v, want %v", got, want)
	}
}

func TestTallApply_NoWindows(t *testing.T) {
	got := NewTall(1, 0.5, 0.05).Apply(platform.Rect{Width: 100, Height: 100}, nil)
	if len(got) != 0 {
		t.Fatalf("expected no rects, got %v", got)
	}
}

func TestTallApply_AllMastersSpanFullWidth(t *testing.T) {
	area := platform.Rect{X: 5, Y: 5, Width: 1280, Height: 1024}
	for k := 1; k <= 6; k++ {
		for m := k; m <= k+2; m++ {
			rects := NewTall(m, 0.6, 0.05).Apply(area, windows(k))
			for i, r := range rects {
				if r.X != area.X || r.Width != area.Width {
					t.Fatalf("k=%d m=%d rect %d = %v, want full width", k, m, i, r)
				}
			}
		}
	}
}

func TestTallApply_ZeroMastersUseWholeWidthForStack(t *testing.T) {
	area := platform.Rect{Width: 900, Height: 300}
	rects := NewTall(0, 0.5, 0.05).Apply(area, windows(3))

	want := []platform.Rect{
		{X: 0, Y: 0, Width: 900, Height: 100},
		{X: 0, Y: 100, Width: 900, Height: 100},
		{X: 0, Y: 200, Width: 900, Height: 100},
	}
	if !reflect.DeepEqual(rects, want) {
		t.Fatalf("Apply() = %v, want %v", rects, want)
	}
}

func TestTallApply_CoversAreaWithoutOverlap(t *testing.T) {
	areas := []platform.Rect{
		{X: 0, Y: 0, Width: 1000, Height: 500},
		{X: 10, Y: 20, Width: 1001, Height: 767},
		{X: 0, Y: 0, Width: 999, Height: 333},
	}
	ratios := []float64{0.3, 0.5, 0.55, 0.6}

	for _, area := range areas {
		for _, ratio := range ratios {
			for k := 1; k <= 7; k++ {
				for m := 0; m <= 4; m++ {
					rects := NewTall(m, ratio, 0.05).Apply(area, windows(k))
					if len(rects) != k {
						t.Fatalf("area=%v ratio=%v k=%d m=%d: got %d rects", area, ratio, k, m, len(rects))
					}
					checkTiling(t, area, rects, m, k)
				}
			}
		}
	}
}

// checkTiling verifies rects stay inside area, never overlap, and cover it
// except for floor slack: one unit on the width split plus the height
// remainder of each column.
func checkTiling(t *testing.T, area platform.Rect, rects []platform.Rect, masters, k int) {
	t.Helper()

	total := 0
	for i, r := range rects {
		if r.X < area.X || r.Y < area.Y ||
			r.X+r.Width > area.X+area.Width || r.Y+r.Height > area.Y+area.Height {
			t.Fatalf("rect %d %v escapes area %v", i, r, area)
		}
		for j := i + 1; j < len(rects); j++ {
			if overlaps(r, rects[j]) {
				t.Fatalf("rect %d %v overlaps rect %d %v", i, r, j, rects[j])
			}
		}
		total += r.Width * r.Height
	}

	m := min(masters, k)
	columns := 1
	if m > 0 && k-m > 0 {
		columns = 2
	}
	slack := (columns - 1) * area.Height
	if m > 0 {
		slack += area.Width * (area.Height % m)
	}
	if k-m > 0 {
		slack += area.Width * (area.Height % (k - m))
	}
	if missing := area.Width*area.Height - total; missing < 0 || missing > slack {
		t.Fatalf("area %v masters=%d k=%d: uncovered %d exceeds slack %d", area, masters, k, missing, slack)
	}
}

func overlaps(a, b platform.Rect) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func TestBarApply_ShrinksAreaBeforeDelegating(t *testing.T) {
	bar := NewBar(20, 10, NewTall(1, 0.5, 0.05))
	got := bar.Apply(platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}, windows(1))

	want := []platform.Rect{{X: 0, Y: 20, Width: 800, Height: 570}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Apply() = %v, want %v", got, want)
	}
}

func TestBarApply_MatchesInnerOnShrunkArea(t *testing.T) {
	area := platform.Rect{X: 3, Y: 7, Width: 1366, Height: 768}
	for _, margins := range [][2]int{{0, 0}, {16, 0}, {0, 24}, {18, 18}} {
		inner := NewTall(1, 0.55, 0.05)
		bar := NewBar(margins[0], margins[1], inner)
		for k := 1; k <= 5; k++ {
			got := bar.Apply(area, windows(k))
			want := inner.Apply(platform.Rect{
				X:      area.X,
				Y:      area.Y + margins[0],
				Width:  area.Width,
				Height: area.Height - margins[0] - margins[1],
			}, windows(k))
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("margins=%v k=%d: Apply() = %v, want %v", margins, k, got, want)
			}
		}
	}
}

func TestBar_NestedAndNameForwarding(t *testing.T) {
	nested := NewBar(5, 0, NewBar(0, 5, NewTall(1, 0.5, 0.05)))
	if nested.Name() != "Tall" {
		t.Fatalf("Name() = %q, want Tall", nested.Name())
	}

	got := nested.Apply(platform.Rect{Width: 100, Height: 100}, windows(1))
	want := []platform.Rect{{X: 0, Y: 5, Width: 100, Height: 90}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Apply() = %v, want %v", got, want)
	}
}

func TestTallSendMsg(t *testing.T) {
	tall := NewTall(1, 0.5, 0.1)

	if !tall.SendMsg(MsgIncrease) || tall.Ratio() < 0.59 || tall.Ratio() > 0.61 {
		t.Fatalf("increase: ratio = %v, want 0.6", tall.Ratio())
	}
	tall.SendMsg(MsgDecrease)
	tall.SendMsg(MsgDecrease)
	if tall.Ratio() < 0.39 || tall.Ratio() > 0.41 {
		t.Fatalf("decrease: ratio = %v, want 0.4", tall.Ratio())
	}

	for i := 0; i < 20; i++ {
		tall.SendMsg(MsgDecrease)
	}
	if tall.Ratio() < 0.1-1e-9 {
		t.Fatalf("ratio fell below increment: %v", tall.Ratio())
	}

	tall.SendMsg(MsgIncreaseMaster)
	if tall.Masters() != 2 {
		t.Fatalf("masters = %d, want 2", tall.Masters())
	}
	tall.SendMsg(MsgDecreaseMaster)
	tall.SendMsg(MsgDecreaseMaster)
	tall.SendMsg(MsgDecreaseMaster)
	if tall.Masters() != 0 {
		t.Fatalf("masters = %d, want 0", tall.Masters())
	}

	if tall.SendMsg("rotate") {
		t.Fatal("unknown message reported as handled")
	}
}

func TestBarSendMsg_ForwardsToInner(t *testing.T) {
	tall := NewTall(1, 0.5, 0.05)
	bar := NewBar(10, 0, tall)

	if !bar.SendMsg(MsgIncreaseMaster) {
		t.Fatal("bar did not forward message")
	}
	if tall.Masters() != 2 {
		t.Fatalf("inner masters = %d, want 2", tall.Masters())
	}

	if NewBar(0, 0, stubLayout{}).SendMsg(MsgIncrease) {
		t.Fatal("message reported handled by a layout without a handler")
	}
}

type stubLayout struct{}

func (stubLayout) Name() string { return "stub" }
func (stubLayout) Apply(area platform.Rect, ws []platform.WindowID) []platform.Rect {
	return make([]platform.Rect, len(ws))
}
