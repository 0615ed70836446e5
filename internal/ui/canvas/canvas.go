// Package canvas provides a fixed-size text frame that widgets draw into.
//
// Canvas implements widget.Sink. Writes are spliced into the existing row
// ANSI-aware, so styled text already on the canvas keeps its styling on
// both sides of the new span.
package canvas

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const resetSGR = "\x1b[0m"

// Canvas is a grid of width x height cells stored as one string per row.
type Canvas struct {
	width  int
	height int
	rows   []string
	x, y   int
}

// New creates a canvas filled with spaces.
func New(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	c := &Canvas{width: width, height: height, rows: make([]string, height)}
	c.Clear()
	return c
}

// Width returns the number of columns.
func (c *Canvas) Width() int { return c.width }

// Height returns the number of rows.
func (c *Canvas) Height() int { return c.height }

// Clear fills every row with spaces and homes the cursor.
func (c *Canvas) Clear() {
	blank := strings.Repeat(" ", c.width)
	for i := range c.rows {
		c.rows[i] = blank
	}
	c.x, c.y = 0, 0
}

// MoveTo positions the cursor for the next Write.
func (c *Canvas) MoveTo(x, y int) {
	c.x, c.y = x, y
}

// Write draws text at the cursor and advances the cursor past it. Text
// must not contain newlines. Anything outside the canvas is clipped.
func (c *Canvas) Write(text string) {
	w := ansi.StringWidth(text)
	x := c.x
	c.x += w

	if c.y < 0 || c.y >= c.height || w == 0 {
		return
	}
	if x < 0 {
		text = dropLeft(text, -x)
		w = ansi.StringWidth(text)
		x = 0
	}
	if x >= c.width || w == 0 {
		return
	}
	if x+w > c.width {
		text = ansi.Truncate(text, c.width-x, "")
		w = ansi.StringWidth(text)
	}

	c.rows[c.y] = splice(c.rows[c.y], text, x, w, c.width)
}

// DrawVLine repeats cell downwards from (x, y) for height rows.
func (c *Canvas) DrawVLine(x, y, height int, cell string) {
	for i := range max(height, 0) {
		c.MoveTo(x, y+i)
		c.Write(cell)
	}
	c.MoveTo(x, y+max(height, 0))
}

// Lines returns the rows of the canvas.
func (c *Canvas) Lines() []string {
	return append([]string(nil), c.rows...)
}

// String joins the rows with newlines.
func (c *Canvas) String() string {
	return strings.Join(c.rows, "\n")
}

// splice replaces the w columns of row starting at x with fg, keeping the
// row exactly width columns wide.
func splice(row, fg string, x, w, width int) string {
	left := ansi.Truncate(row, x, "")
	if lw := ansi.StringWidth(left); lw < x {
		left += strings.Repeat(" ", x-lw)
	}
	if strings.Contains(left, "\x1b") {
		left += resetSGR
	}
	if strings.Contains(fg, "\x1b") {
		fg += resetSGR
	}

	var right string
	if end := x + w; end < width {
		right = dropLeft(row, end)
		// A wide cluster cut by the splice leaves the row short.
		if rw := ansi.StringWidth(right); rw < width-end {
			right = strings.Repeat(" ", width-end-rw) + right
		}
	}

	return left + fg + right
}

// dropLeft removes the first n columns of s. A wide cluster straddling
// column n is removed too, so the result is at most width(s)-n wide.
func dropLeft(s string, n int) string {
	limit := ansi.StringWidth(s) - n
	if limit <= 0 {
		return ""
	}
	out := ansi.TruncateLeft(s, n, "")
	for ansi.StringWidth(out) > limit {
		n++
		out = ansi.TruncateLeft(s, n, "")
	}
	return out
}
