package scrollbar

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/glance/internal/ui/canvas"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestCompute_ThumbAtBottomWhenScrolledToMax(t *testing.T) {
	g := Compute(20, 5, 15)
	require.True(t, g.Visible)
	require.Equal(t, 4, g.ThumbOffset)
	require.Equal(t, 5, g.TrackHeight)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name                string
		length, height, top int
		want                Geometry
	}{
		{"content fits", 5, 5, 0, Geometry{Visible: false, TrackHeight: 5}},
		{"empty", 0, 5, 0, Geometry{Visible: false, TrackHeight: 5}},
		{"at top", 20, 5, 0, Geometry{Visible: true, ThumbOffset: 0, TrackHeight: 5}},
		{"rounds to nearest", 20, 5, 6, Geometry{Visible: true, ThumbOffset: 2, TrackHeight: 5}},
		{"past max clamps", 20, 5, 40, Geometry{Visible: true, ThumbOffset: 4, TrackHeight: 5}},
		{"negative top clamps", 20, 5, -3, Geometry{Visible: true, ThumbOffset: 0, TrackHeight: 5}},
		{"zero height", 20, 0, 0, Geometry{Visible: false, TrackHeight: 0}},
		{"zero height short content", 5, 0, 0, Geometry{Visible: false, TrackHeight: 0}},
		{"negative height", 5, -2, 0, Geometry{Visible: false, TrackHeight: 0}},
		{"single row track", 20, 1, 19, Geometry{Visible: true, ThumbOffset: 0, TrackHeight: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Compute(tt.length, tt.height, tt.top))
		})
	}
}

func TestDraw(t *testing.T) {
	c := canvas.New(3, 4)
	style := DefaultStyle().WithChars("│", "█")

	Draw(c, 2, 0, Compute(10, 4, 6), style)

	var col []string
	for _, line := range c.Lines() {
		col = append(col, string([]rune(line)[2]))
	}
	require.Equal(t, []string{"│", "│", "│", "█"}, col)
}

func TestDraw_HiddenWhenContentFits(t *testing.T) {
	c := canvas.New(2, 3)
	Draw(c, 1, 0, Compute(3, 3, 0), DefaultStyle())
	require.Equal(t, strings.Repeat("  \n", 2)+"  ", c.String())
}

func TestWithChars_EmptyKeepsDefaults(t *testing.T) {
	s := DefaultStyle().WithChars("", "")
	require.Equal(t, DefaultTrackChar, s.TrackChar)
	require.Equal(t, DefaultThumbChar, s.ThumbChar)
}

func TestProperty_ThumbWithinTrack(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(0, 500).Draw(t, "length")
		height := rapid.IntRange(0, 100).Draw(t, "height")
		top := rapid.IntRange(0, max(length-height, 0)).Draw(t, "top")

		g := Compute(length, height, top)
		if g.Visible != (length > height && height > 0) {
			t.Fatalf("visible=%v for length=%d height=%d", g.Visible, length, height)
		}
		if g.Visible && (g.ThumbOffset < 0 || g.ThumbOffset > height-1) {
			t.Fatalf("thumb %d outside track of %d", g.ThumbOffset, height)
		}
		if g.Visible && top == length-height && g.ThumbOffset != height-1 {
			t.Fatalf("thumb %d not at bottom when scrolled to max", g.ThumbOffset)
		}
		if g.Visible && top == 0 && g.ThumbOffset != 0 {
			t.Fatalf("thumb %d not at top when unscrolled", g.ThumbOffset)
		}
	})
}
