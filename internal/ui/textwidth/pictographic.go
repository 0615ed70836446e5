package textwidth

import "unicode"

const (
	zeroWidthJoiner   = '\u200D'
	emojiPresentation = '\uFE0F'
	combiningKeycap   = '\u20E3'
	tagSequenceStart  = '\U000E0020'
	tagSequenceEnd    = '\U000E007F'
)

// pictographic covers the blocks terminals disagree on when sizing:
// emoji, pictographs, dingbats and the miscellaneous symbols that have an
// emoji presentation.
var pictographic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x231A, Hi: 0x231B, Stride: 1},
		{Lo: 0x23E9, Hi: 0x23FA, Stride: 1},
		{Lo: 0x25AA, Hi: 0x25AB, Stride: 1},
		{Lo: 0x25B6, Hi: 0x25C0, Stride: 10},
		{Lo: 0x25FB, Hi: 0x25FE, Stride: 1},
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2B05, Hi: 0x2B07, Stride: 1},
		{Lo: 0x2B1B, Hi: 0x2B1C, Stride: 1},
		{Lo: 0x2B50, Hi: 0x2B55, Stride: 5},
		{Lo: 0x3030, Hi: 0x303D, Stride: 13},
		{Lo: 0x3297, Hi: 0x3299, Stride: 2},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1FAFF, Stride: 1},
	},
}

func isJoiner(r rune) bool {
	return r == zeroWidthJoiner || r == emojiPresentation || r == combiningKeycap ||
		(r >= tagSequenceStart && r <= tagSequenceEnd)
}

// isPictographicCluster reports whether a grapheme cluster would be drawn
// as emoji: it contains a pictographic rune, asks for emoji presentation,
// is a keycap or joins several glyphs.
func isPictographicCluster(cluster string) bool {
	for _, r := range cluster {
		if isJoiner(r) || unicode.Is(pictographic, r) {
			return true
		}
	}
	return false
}
