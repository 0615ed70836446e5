// Package widget holds the pieces every scrollable widget is composed from:
// the Base geometry/redraw state, the Sink it renders into and the action
// names its input hook understands.
package widget

import (
	"github.com/google/uuid"
)

// Sink receives rendered output. Coordinates are absolute cells.
type Sink interface {
	MoveTo(x, y int)
	Write(text string)
	DrawVLine(x, y, height int, cell string)
}

// Action is a key name consumed by a widget's input hook.
type Action string

const (
	ActionUp       Action = "UP"
	ActionDown     Action = "DOWN"
	ActionPageUp   Action = "PAGE_UP"
	ActionPageDown Action = "PAGE_DOWN"
	ActionTop      Action = "TOP"
	ActionBottom   Action = "BOTTOM"
	ActionFiveUp   Action = "5_UP"
	ActionFiveDown Action = "5_DOWN"
)

// FixedStep is the row count moved by ActionFiveUp/ActionFiveDown.
const FixedStep = 5

// Actions lists every action in a stable order.
func Actions() []Action {
	return []Action{
		ActionUp, ActionDown, ActionPageUp, ActionPageDown,
		ActionTop, ActionBottom, ActionFiveUp, ActionFiveDown,
	}
}

// Padding is the space between a widget's outer bounds and its content.
type Padding struct {
	Top, Right, Bottom, Left int
}

// Base carries the geometry, focus and redraw flag shared by widgets.
// Widgets embed it and layer their own state on top.
type Base struct {
	id      string
	x, y    int
	width   int
	height  int
	padding Padding
	focused bool
	redraw  bool
}

// NewBase returns a Base with a fresh id that needs an initial draw.
func NewBase(kind string) Base {
	return Base{id: kind + "-" + uuid.NewString()[:8], redraw: true}
}

// ID identifies the widget in logs and mouse zones.
func (b *Base) ID() string { return b.id }

// SetBounds sets the absolute origin and outer size. It reports whether
// the size changed, which callers treat as a resize.
func (b *Base) SetBounds(x, y, width, height int) bool {
	width, height = max(width, 0), max(height, 0)
	resized := width != b.width || height != b.height
	if x == b.x && y == b.y && !resized {
		return false
	}
	b.x, b.y = x, y
	b.width, b.height = width, height
	b.Invalidate()
	return resized
}

// SetPadding sets the inner padding. It reports whether it changed.
func (b *Base) SetPadding(p Padding) bool {
	if p == b.padding {
		return false
	}
	b.padding = p
	b.Invalidate()
	return true
}

// X returns the absolute outer origin column.
func (b *Base) X() int { return b.x }

// Y returns the absolute outer origin row.
func (b *Base) Y() int { return b.y }

// Width returns the outer width.
func (b *Base) Width() int { return b.width }

// Height returns the outer height.
func (b *Base) Height() int { return b.height }

// InnerX returns the absolute column where content starts.
func (b *Base) InnerX() int { return b.x + b.padding.Left }

// InnerY returns the absolute row where content starts.
func (b *Base) InnerY() int { return b.y + b.padding.Top }

// InnerWidth is the content width excluding padding, never negative.
func (b *Base) InnerWidth() int {
	return max(b.width-b.padding.Left-b.padding.Right, 0)
}

// InnerHeight is the content height excluding padding, never negative.
func (b *Base) InnerHeight() int {
	return max(b.height-b.padding.Top-b.padding.Bottom, 0)
}

// Invalidate marks the widget for redraw on the next tick.
func (b *Base) Invalidate() { b.redraw = true }

// NeedsRedraw reports whether Invalidate was called since the last ClearRedraw.
func (b *Base) NeedsRedraw() bool { return b.redraw }

// ClearRedraw resets the redraw flag after a render pass.
func (b *Base) ClearRedraw() { b.redraw = false }

// SetFocused sets whether the widget has the keyboard.
func (b *Base) SetFocused(focused bool) {
	if b.focused == focused {
		return
	}
	b.focused = focused
	b.Invalidate()
}

// Focused reports whether the widget has the keyboard.
func (b *Base) Focused() bool { return b.focused }
