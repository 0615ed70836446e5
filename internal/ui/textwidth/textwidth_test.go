package textwidth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWidth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"ascii", "hello", 5},
		{"cjk", "中文", 4},
		{"combining mark", "e\u0301", 1},
		{"ansi is zero width", "\x1b[1mhi\x1b[0m", 2},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Width(tt.in))
		})
	}
}

func TestWidth_AmbiguousConvention(t *testing.T) {
	require.Equal(t, 1, New(false).Width("±"))
	require.Equal(t, 2, New(true).Width("±"))
	require.True(t, New(true).AmbiguousWide())
	require.False(t, Default.AmbiguousWide())
}

func TestFormat_PadsShortLabel(t *testing.T) {
	require.Equal(t, "abc   ", Format("abc", 6))
}

func TestFormat_TruncatesLongLabel(t *testing.T) {
	require.Equal(t, "hello", Format("hello world", 5))
}

func TestFormat_WideClusterStraddlingEdgeLeavesSpace(t *testing.T) {
	got := Format("中文字", 5)
	require.Equal(t, "中文 ", got)
	require.Equal(t, 5, Width(got))
}

func TestFormat_TrimsSurroundingSpace(t *testing.T) {
	require.Equal(t, "item  ", Format("  item \t", 6))
}

func TestFormat_ZeroAndNegativeWidth(t *testing.T) {
	require.Equal(t, "", Format("anything", 0))
	require.Equal(t, "", Format("anything", -3))
}

func TestFormat_StripsANSI(t *testing.T) {
	require.Equal(t, "red  ", Format("\x1b[31mred\x1b[0m", 5))
}

func TestFormat_DowngradesEmoji(t *testing.T) {
	require.Equal(t, "ok  ", Format("👍 ok", 4))
	require.Equal(t, "done   ", Format("done ✅", 7))
}

func TestToPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain untouched", "plain text", "plain text"},
		{"keycap keeps digit", "1\uFE0F\u20E3 first", "1 first"},
		{"text symbol keeps base", "©\uFE0F 2025", "© 2025"},
		{"zwj family dropped", "a\U0001F468\u200D\U0001F469\u200D\U0001F467b", "ab"},
		{"skin tone dropped", "x\U0001F44D\U0001F3FDy", "xy"},
		{"flag dropped", "\U0001F1EF\U0001F1F5 japan", " japan"},
		{"newline and tab become spaces", "a\nb\tc", "a b c"},
		{"crlf is one space", "a\r\nb", "a b"},
		{"ansi stripped", "\x1b[1;32mgo\x1b[0m", "go"},
		{"cjk kept", "日本", "日本"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ToPlainText(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "中", Truncate("中文", 3))
	require.Equal(t, "abc", Truncate("abc", 10))
	require.Equal(t, "", Truncate("abc", 0))
}

var labelRunes = []rune{
	'a', 'Z', '7', ' ', '-', '中', '文', '한', 'ｱ', 'é', '±', '─',
	'\u0301', '\u200D', '\uFE0F', '\u20E3', '\t', '\n',
	'😀', '👍', '\U0001F3FD', '★', '©', '✅', '\U0001F1EF',
}

func TestProperty_FormatWidthIsExact(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		label := rapid.StringOf(rapid.SampledFrom(labelRunes)).Draw(rt, "label")
		width := rapid.SampledFrom([]int{0, 1, 10, 1000}).Draw(rt, "width")
		f := New(rapid.Bool().Draw(rt, "ambiguousWide"))

		got := f.Format(label, width)

		require.Equal(t, width, f.Width(got), "Format(%q, %d) = %q", label, width, got)
		require.Equal(t, got, f.ToPlainText(got), "formatted output must already be plain text")
	})
}

func TestProperty_FormatKeepsPrefixOfPlainText(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		label := rapid.StringOf(rapid.SampledFrom(labelRunes)).Draw(rt, "label")
		width := rapid.IntRange(1, 40).Draw(rt, "width")

		got := strings.TrimRight(Format(label, width), " ")
		plain := strings.TrimSpace(ToPlainText(label))

		require.True(t, strings.HasPrefix(plain, got), "%q is not a prefix of %q", got, plain)
	})
}
