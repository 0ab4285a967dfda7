package layout

import (
	"math"

	"github.com/1broseidon/tallwm/internal/platform"
)

// Layout maps an area and an ordered window list to one rectangle per
// window, in the same order. Implementations must not depend on window
// identity or on previous calls.
type Layout interface {
	Name() string
	Apply(area platform.Rect, windows []platform.WindowID) []platform.Rect
}

// Msg is a layout-specific instruction delivered by the user.
type Msg string

const (
	MsgIncrease       Msg = "increase"
	MsgDecrease       Msg = "decrease"
	MsgIncreaseMaster Msg = "increase-master"
	MsgDecreaseMaster Msg = "decrease-master"
)

// MessageHandler is implemented by layouts whose tunables can change at
// runtime. SendMsg reports whether the message was understood.
type MessageHandler interface {
	SendMsg(msg Msg) bool
}

// Factory builds a fresh layout instance; each workspace owns its own.
type Factory func() Layout

// Tall puts a master column on the left and stacks the rest on the right.
type Tall struct {
	masters        int
	ratio          float64
	ratioIncrement float64
}

var (
	_ Layout         = (*Tall)(nil)
	_ MessageHandler = (*Tall)(nil)
)

// NewTall creates a master/stack layout. ratio is the share of the width
// given to the master column.
func NewTall(masters int, ratio, ratioIncrement float64) *Tall {
	if masters < 0 {
		masters = 0
	}
	return &Tall{
		masters:        masters,
		ratio:          ratio,
		ratioIncrement: ratioIncrement,
	}
}

func (t *Tall) Name() string {
	return "Tall"
}

// Masters returns the current master count.
func (t *Tall) Masters() int {
	return t.masters
}

// Ratio returns the current master column share.
func (t *Tall) Ratio() float64 {
	return t.ratio
}

// Apply splits area into a master column and a stack column. Sizes are
// floored so no rectangle crosses the area boundary.
func (t *Tall) Apply(area platform.Rect, windows []platform.WindowID) []platform.Rect {
	n := len(windows)
	if n == 0 {
		return nil
	}

	masters := min(t.masters, n)
	stack := n - masters

	masterWidth := area.Width
	stackX := area.X
	stackWidth := area.Width
	if masters > 0 && stack > 0 {
		masterWidth = int(math.Floor(float64(area.Width) * t.ratio))
		stackX = area.X + masterWidth
		stackWidth = int(math.Floor(float64(area.Width) * (1 - t.ratio)))
	}

	rects := make([]platform.Rect, n)
	if masters > 0 {
		height := area.Height / masters
		for i := 0; i < masters; i++ {
			rects[i] = platform.Rect{
				X:      area.X,
				Y:      area.Y + height*i,
				Width:  masterWidth,
				Height: height,
			}
		}
	}
	if stack > 0 {
		height := area.Height / stack
		for i := 0; i < stack; i++ {
			rects[masters+i] = platform.Rect{
				X:      stackX,
				Y:      area.Y + height*i,
				Width:  stackWidth,
				Height: height,
			}
		}
	}
	return rects
}

// SendMsg adjusts the split ratio or the master count.
func (t *Tall) SendMsg(msg Msg) bool {
	switch msg {
	case MsgIncrease:
		t.ratio = t.clampRatio(t.ratio + t.ratioIncrement)
	case MsgDecrease:
		t.ratio = t.clampRatio(t.ratio - t.ratioIncrement)
	case MsgIncreaseMaster:
		t.masters++
	case MsgDecreaseMaster:
		if t.masters > 0 {
			t.masters--
		}
	default:
		return false
	}
	return true
}

func (t *Tall) clampRatio(r float64) float64 {
	lo, hi := t.ratioIncrement, 1-t.ratioIncrement
	if lo <= 0 || lo >= hi {
		lo, hi = 0.01, 0.99
	}
	return math.Max(lo, math.Min(hi, r))
}

// Bar reserves space above and below the area before handing it to the
// wrapped layout.
type Bar struct {
	top    int
	bottom int
	inner  Layout
}

var (
	_ Layout         = (*Bar)(nil)
	_ MessageHandler = (*Bar)(nil)
)

// NewBar wraps inner. top+bottom must not exceed the height of any area the
// result is applied to.
func NewBar(top, bottom int, inner Layout) *Bar {
	return &Bar{top: top, bottom: bottom, inner: inner}
}

func (b *Bar) Name() string {
	return b.inner.Name()
}

func (b *Bar) Apply(area platform.Rect, windows []platform.WindowID) []platform.Rect {
	return b.inner.Apply(platform.Rect{
		X:      area.X,
		Y:      area.Y + b.top,
		Width:  area.Width,
		Height: area.Height - (b.top + b.bottom),
	}, windows)
}

// SendMsg forwards to the wrapped layout when it handles messages.
func (b *Bar) SendMsg(msg Msg) bool {
	if h, ok := b.inner.(MessageHandler); ok {
		return h.SendMsg(msg)
	}
	return false
}
