package panes

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/ui/styles"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var (
	testColorBlue  = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	testColorGreen = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
)

func TestBorderedPane_Layout(t *testing.T) {
	result := BorderedPane(BorderConfig{
		Content: "ab\ncd",
		Width:   12,
		Height:  5,
		TopLeft: "Docs",
	})

	require.Equal(t, strings.Join([]string{
		"╭─ Docs ───╮",
		"│ab        │",
		"│cd        │",
		"│          │",
		"╰──────────╯",
	}, "\n"), result)
}

func TestBorderedPane_AllTitles(t *testing.T) {
	result := BorderedPane(BorderConfig{
		Width:       20,
		Height:      3,
		TopLeft:     "L",
		TopRight:    "R",
		BottomLeft:  "3/9",
		BottomRight: "50%",
	})

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "╭─ L ────────── R ─╮", lines[0])
	require.Equal(t, "╰─ 3/9 ────── 50% ─╯", lines[2])
	for _, line := range lines {
		require.Equal(t, 20, ansi.StringWidth(line), "line %q", line)
	}
}

func TestBorderedPane_RightTitleOnly(t *testing.T) {
	result := BorderedPane(BorderConfig{Width: 10, Height: 2, TopRight: "x"})
	require.Equal(t, "╭──── x ─╮", strings.Split(result, "\n")[0])
}

func TestBorderedPane_NarrowDropsRightThenTruncatesLeft(t *testing.T) {
	result := BorderedPane(BorderConfig{Width: 12, Height: 2, TopLeft: "Left", TopRight: "Right"})
	require.Equal(t, "╭─ Left ───╮", strings.Split(result, "\n")[0])

	result = BorderedPane(BorderConfig{Width: 10, Height: 2, TopLeft: "Documents"})
	top := strings.Split(result, "\n")[0]
	require.Equal(t, "╭─ Doc… ─╮", top)

	result = BorderedPane(BorderConfig{Width: 6, Height: 2, TopLeft: "Documents"})
	require.Equal(t, "╭────╮", strings.Split(result, "\n")[0])
}

func TestBorderedPane_ClipsWideContent(t *testing.T) {
	result := BorderedPane(BorderConfig{
		Content: "abcdefgh\n中文字",
		Width:   7,
		Height:  4,
	})

	lines := strings.Split(result, "\n")
	require.Equal(t, "│abcde│", lines[1])
	require.Equal(t, "│中文 │", lines[2])
	for _, line := range lines {
		require.Equal(t, 7, ansi.StringWidth(line))
	}
}

func TestBorderedPane_TooSmall(t *testing.T) {
	require.Empty(t, BorderedPane(BorderConfig{Width: 1, Height: 5}))
	require.Equal(t, "╭╮\n╰╯", BorderedPane(BorderConfig{Width: 2, Height: 2}))
}

func TestInnerSize(t *testing.T) {
	w, h := InnerSize(30, 10)
	require.Equal(t, 28, w)
	require.Equal(t, 8, h)

	w, h = InnerSize(1, 0)
	require.Zero(t, w)
	require.Zero(t, h)
}

func TestResolveBorderColor(t *testing.T) {
	tests := []struct {
		name          string
		border, focus lipgloss.TerminalColor
		focused       bool
		want          lipgloss.TerminalColor
	}{
		{"defaults unfocused", nil, nil, false, styles.BorderDefaultColor},
		{"defaults focused", nil, nil, true, styles.BorderFocusColor},
		{"inherit border", testColorBlue, nil, true, testColorBlue},
		{"focus only unfocused", nil, testColorGreen, false, styles.BorderDefaultColor},
		{"focus only focused", nil, testColorGreen, true, testColorGreen},
		{"both unfocused", testColorBlue, testColorGreen, false, testColorBlue},
		{"both focused", testColorBlue, testColorGreen, true, testColorGreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, resolveBorderColor(tt.border, tt.focus, tt.focused))
		})
	}
}
