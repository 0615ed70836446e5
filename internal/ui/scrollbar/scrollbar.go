// Package scrollbar computes and draws a one-column scrollbar.
package scrollbar

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/glance/internal/ui/styles"
	"github.com/zjrosen/glance/internal/ui/widget"
)

// Default cell characters.
const (
	DefaultTrackChar = " "
	DefaultThumbChar = " "
)

// Geometry describes where the scrollbar goes for one frame.
type Geometry struct {
	// Visible is true when the content is longer than the track and the
	// track has at least one row.
	Visible bool
	// ThumbOffset is the thumb row relative to the top of the track.
	ThumbOffset int
	// TrackHeight is the number of rows in the track.
	TrackHeight int
}

// Compute returns the scrollbar geometry for content of length lines shown
// in height rows starting at top. The thumb is one row tall and sits at
// round(top / (length-height) * (height-1)), clamped to the track.
func Compute(length, height, top int) Geometry {
	height = max(height, 0)
	g := Geometry{
		Visible:     length > height && height > 0,
		TrackHeight: height,
	}
	if !g.Visible {
		return g
	}

	denom := length - height
	offset := int(math.Round(float64(top) / float64(denom) * float64(height-1)))
	g.ThumbOffset = min(max(offset, 0), height-1)
	return g
}

// Style holds the characters and colors of the scrollbar cells.
type Style struct {
	TrackChar  string
	ThumbChar  string
	TrackStyle lipgloss.Style
	ThumbStyle lipgloss.Style
}

// DefaultStyle draws a shaded track with a bright thumb. The default
// characters are spaces, so the colors go on the background.
func DefaultStyle() Style {
	return Style{
		TrackChar:  DefaultTrackChar,
		ThumbChar:  DefaultThumbChar,
		TrackStyle: lipgloss.NewStyle().Background(styles.ScrollbarTrackColor),
		ThumbStyle: lipgloss.NewStyle().Background(styles.ScrollbarThumbColor),
	}
}

// WithChars returns a copy of s using track and thumb characters. Empty
// values keep the current ones. Visible characters are colored with the
// foreground styles instead of backgrounds.
func (s Style) WithChars(track, thumb string) Style {
	if track != "" && track != s.TrackChar {
		s.TrackChar = track
		if track != " " {
			s.TrackStyle = styles.ScrollbarTrackStyle
		}
	}
	if thumb != "" && thumb != s.ThumbChar {
		s.ThumbChar = thumb
		if thumb != " " {
			s.ThumbStyle = styles.ScrollbarThumbStyle
		}
	}
	return s
}

// Draw writes the track and thumb for g into sink with the track's top
// cell at (x, y). Nothing is drawn when g is not visible.
func Draw(sink widget.Sink, x, y int, g Geometry, s Style) {
	if !g.Visible {
		return
	}
	sink.DrawVLine(x, y, g.TrackHeight, s.TrackStyle.Render(s.TrackChar))
	sink.MoveTo(x, y+g.ThumbOffset)
	sink.Write(s.ThumbStyle.Render(s.ThumbChar))
}
