// Package selection keeps a selection cursor inside a viewport.
//
// With content present the cursor always satisfies 0 <= Current() < length
// and, when the viewport has rows, Top() <= Current() <= Bottom(). Empty
// content leaves it at -1.
package selection

import (
	"github.com/zjrosen/glance/internal/ui/viewport"
)

// None is the cursor position when there is nothing to select.
const None = -1

// Cursor is a selection index bound to a viewport. The viewport's content
// length is the number of selectable items.
type Cursor struct {
	vp         *viewport.Viewport
	current    int
	invalidate func()
	listeners  []func(index int)
}

// New creates a cursor over vp with nothing selected. invalidate is called
// whenever the selection moves; it may be nil.
func New(vp *viewport.Viewport, invalidate func()) *Cursor {
	return &Cursor{
		vp:         vp,
		current:    None,
		invalidate: invalidate,
	}
}

// Current returns the selected index, or None.
func (c *Cursor) Current() int { return c.current }

// Viewport returns the viewport the cursor keeps visible.
func (c *Cursor) Viewport() *viewport.Viewport { return c.vp }

// OnChange registers fn to be called once after every effective selection
// change.
func (c *Cursor) OnChange(fn func(index int)) {
	c.listeners = append(c.listeners, fn)
}

// Reset is called when the content is replaced by n new items: the cursor
// moves to the first item (or None) and the viewport back to the top.
// Listeners are notified unless the content was and stays empty, since the
// selected item is a different one even when the index is unchanged.
func (c *Cursor) Reset(n int) {
	n = max(n, 0)
	wasEmpty := c.vp.ContentLength() == 0
	c.vp.Reset(n)

	if n > 0 {
		c.current = 0
	} else {
		c.current = None
	}
	if wasEmpty && n == 0 {
		return
	}
	c.changed()
}

// Grow is called when items were appended and the content now holds n
// items. The selection is kept; an empty selection moves to the first
// item.
func (c *Cursor) Grow(n int) {
	c.vp.SetContentLength(n)
	if c.current == None && c.vp.ContentLength() > 0 {
		c.current = 0
		c.Reveal()
		c.changed()
	}
}

// SetCurrent selects index i, clamped to the content. It is a no-op when
// there is no content or the clamped index is already selected. The
// viewport scrolls the minimum amount to keep the selection visible.
func (c *Cursor) SetCurrent(i int) bool {
	n := c.vp.ContentLength()
	if n == 0 {
		return false
	}
	i = min(max(i, 0), n-1)
	if i == c.current {
		return false
	}
	c.current = i
	c.Reveal()
	c.changed()
	return true
}

// MoveBy moves the selection by delta items.
func (c *Cursor) MoveBy(delta int) bool {
	return c.SetCurrent(c.current + delta)
}

// PageUp moves the selection up by one page.
func (c *Cursor) PageUp() bool {
	return c.MoveBy(-c.vp.Height())
}

// PageDown moves the selection down by one page.
func (c *Cursor) PageDown() bool {
	return c.MoveBy(c.vp.Height())
}

// First selects the first item.
func (c *Cursor) First() bool {
	return c.SetCurrent(0)
}

// Last selects the last item.
func (c *Cursor) Last() bool {
	return c.SetCurrent(c.vp.ContentLength() - 1)
}

// Reveal scrolls the viewport so the selection is visible. Owners call it
// after a resize. Returns true if the viewport moved.
func (c *Cursor) Reveal() bool {
	if c.current == None || c.vp.Height() == 0 {
		return false
	}
	switch {
	case c.current < c.vp.Top():
		return c.vp.ScrollTo(c.current)
	case c.current > c.vp.Bottom():
		return c.vp.SetBottom(c.current)
	}
	return false
}

func (c *Cursor) changed() {
	if c.invalidate != nil {
		c.invalidate()
	}
	for _, fn := range c.listeners {
		fn(c.current)
	}
}
