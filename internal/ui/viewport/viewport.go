// Package viewport tracks which window of a line sequence is visible.
//
// A Viewport keeps 0 <= Top() <= MaxTop() after every mutation. Mutators
// that actually move the window call the owner's invalidate callback and
// return true; requests that clamp to the current position do neither.
package viewport

// Viewport is a scroll offset over content of a known length.
type Viewport struct {
	top        int
	height     int
	length     int
	invalidate func()
}

// New creates an empty viewport. invalidate is called whenever the top
// changes; it may be nil.
func New(invalidate func()) *Viewport {
	return &Viewport{invalidate: invalidate}
}

// Top returns the index of the first visible line.
func (v *Viewport) Top() int { return v.top }

// Bottom returns the index of the last visible line slot: Top+Height-1.
// The slot may lie past the end of the content.
func (v *Viewport) Bottom() int { return v.top + v.height - 1 }

// Height returns the number of visible rows.
func (v *Viewport) Height() int { return v.height }

// ContentLength returns the number of lines or items scrolled over.
func (v *Viewport) ContentLength() int { return v.length }

// MaxTop returns the largest valid Top: max(length-height, 0).
func (v *Viewport) MaxTop() int {
	return max(v.length-v.height, 0)
}

// VisibleRange returns the half-open range [start, end) of content
// indexes currently on screen.
func (v *Viewport) VisibleRange() (start, end int) {
	return v.top, min(v.top+v.height, v.length)
}

// AtTop reports whether the first line is visible.
func (v *Viewport) AtTop() bool { return v.top == 0 }

// AtBottom reports whether the window is scrolled as far down as it goes.
func (v *Viewport) AtBottom() bool { return v.top >= v.MaxTop() }

// ScrollPercent returns how far down the window is, from 0 to 1.
// Content that fits reports 1.
func (v *Viewport) ScrollPercent() float64 {
	maxTop := v.MaxTop()
	if maxTop == 0 {
		return 1
	}
	return float64(v.top) / float64(maxTop)
}

// SetHeight sets the number of visible rows and re-clamps Top.
// Returns true if Top moved.
func (v *Viewport) SetHeight(h int) bool {
	v.height = max(h, 0)
	return v.ScrollTo(v.top)
}

// SetContentLength sets the content length and re-clamps Top.
// Returns true if Top moved.
func (v *Viewport) SetContentLength(n int) bool {
	v.length = max(n, 0)
	return v.ScrollTo(v.top)
}

// Reset sets the content length and moves back to the first line. The
// invalidate callback fires if anything changed.
func (v *Viewport) Reset(n int) bool {
	n = max(n, 0)
	changed := n != v.length || v.top != 0
	v.length = n
	v.top = 0
	if changed {
		v.signal()
	}
	return changed
}

// ScrollTo moves the window so top is the first visible line, clamped to
// [0, MaxTop]. Returns false without signalling if the clamped value is
// the current one.
func (v *Viewport) ScrollTo(top int) bool {
	top = min(max(top, 0), v.MaxTop())
	if top == v.top {
		return false
	}
	v.top = top
	v.signal()
	return true
}

// ScrollBy moves the window by delta lines.
func (v *Viewport) ScrollBy(delta int) bool {
	return v.ScrollTo(v.top + delta)
}

// PageUp moves the window up by one page.
func (v *Viewport) PageUp() bool {
	return v.ScrollBy(-v.height)
}

// PageDown moves the window down by one page.
func (v *Viewport) PageDown() bool {
	return v.ScrollBy(v.height)
}

// ScrollToTop shows the first line.
func (v *Viewport) ScrollToTop() bool {
	return v.ScrollTo(0)
}

// ScrollToBottom shows the last page.
func (v *Viewport) ScrollToBottom() bool {
	return v.ScrollTo(v.length)
}

// SetBottom moves the window so b is the last visible line.
func (v *Viewport) SetBottom(b int) bool {
	return v.ScrollTo(b - v.height + 1)
}

func (v *Viewport) signal() {
	if v.invalidate != nil {
		v.invalidate()
	}
}
