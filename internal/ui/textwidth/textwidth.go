// Package textwidth formats single-line labels to an exact terminal display
// width. Widths are measured per grapheme cluster, so wide CJK characters,
// combining marks and ambiguous-width characters are counted the way the
// target terminal draws them rather than by byte or rune count.
package textwidth

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Formatter measures and pads text under one width convention.
type Formatter struct {
	cond *runewidth.Condition
}

// New creates a Formatter. ambiguousWide counts East Asian ambiguous
// characters as two columns, matching CJK-locale terminals.
func New(ambiguousWide bool) *Formatter {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = ambiguousWide
	return &Formatter{cond: cond}
}

// Default measures ambiguous characters as one column.
var Default = New(false)

// AmbiguousWide reports the convention the Formatter was built with.
func (f *Formatter) AmbiguousWide() bool {
	return f.cond.EastAsianWidth
}

// Width returns the display width of s. ANSI escapes are zero width.
func (f *Formatter) Width(s string) int {
	total := 0
	forEachCluster(ansi.Strip(s), func(cluster string) {
		total += f.clusterWidth(cluster)
	})
	return total
}

func (f *Formatter) clusterWidth(cluster string) int {
	return f.cond.StringWidth(cluster)
}

// ToPlainText removes everything a width calculator cannot size reliably:
// ANSI escapes are stripped, control characters become spaces, and
// pictographic clusters are downgraded. A pictographic cluster whose base
// is a text character (a copyright sign, a keycap digit) keeps the base;
// otherwise it is dropped.
func (f *Formatter) ToPlainText(s string) string {
	s = ansi.Strip(s)

	var b strings.Builder
	b.Grow(len(s))
	forEachCluster(s, func(cluster string) {
		base, _ := firstRune(cluster)
		switch {
		case unicode.IsControl(base):
			b.WriteByte(' ')
		case isPictographicCluster(cluster):
			if !unicode.Is(pictographic, base) && !isJoiner(base) {
				b.WriteRune(base)
			}
		default:
			b.WriteString(cluster)
		}
	})
	return b.String()
}

// Truncate drops trailing grapheme clusters from s until it fits in width
// columns. s is measured as-is; call ToPlainText first for labels.
func (f *Formatter) Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	clusters, widths, total := f.split(s)
	for total > width && len(clusters) > 0 {
		last := len(clusters) - 1
		total -= widths[last]
		clusters = clusters[:last]
	}
	return strings.Join(clusters, "")
}

// Format returns label as plain text with a display width of exactly
// width columns: shorter labels are right-padded with spaces, longer ones
// lose trailing clusters until they fit and are then padded (a wide cluster
// straddling the edge leaves one space). width <= 0 yields "".
func (f *Formatter) Format(label string, width int) string {
	if width <= 0 {
		return ""
	}

	fitted := f.Truncate(strings.TrimSpace(f.ToPlainText(label)), width)
	return fitted + strings.Repeat(" ", width-f.Width(fitted))
}

func (f *Formatter) split(s string) (clusters []string, widths []int, total int) {
	forEachCluster(s, func(cluster string) {
		w := f.clusterWidth(cluster)
		clusters = append(clusters, cluster)
		widths = append(widths, w)
		total += w
	})
	return clusters, widths, total
}

// Width measures s with the Default formatter.
func Width(s string) int { return Default.Width(s) }

// Format formats label with the Default formatter.
func Format(label string, width int) string { return Default.Format(label, width) }

// Truncate truncates s with the Default formatter.
func Truncate(s string, width int) string { return Default.Truncate(s, width) }

// ToPlainText downgrades s with the Default formatter.
func ToPlainText(s string) string { return Default.ToPlainText(s) }

func forEachCluster(s string, fn func(cluster string)) {
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		fn(cluster)
	}
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
