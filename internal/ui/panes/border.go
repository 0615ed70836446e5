// Package panes draws the rounded, titled border around each pane.
package panes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/glance/internal/ui/styles"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// BorderConfig configures the appearance of a bordered panel.
type BorderConfig struct {
	// Content is drawn inside the border, one line per row. Lines are
	// clipped and padded to the inner width; missing rows are blank.
	Content string
	Width   int // Total width including borders
	Height  int // Total height including borders

	// Titles embedded in the border lines. A right title is dropped when
	// both do not fit; a left title is then truncated.
	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string

	// Styling
	Focused            bool                   // Whether the panel has focus
	TitleColor         lipgloss.TerminalColor // Color for title text
	BorderColor        lipgloss.TerminalColor // Border color when not focused
	FocusedBorderColor lipgloss.TerminalColor // Border color when focused
}

// InnerSize returns the content area of a bordered pane of the given
// outer size.
func InnerSize(width, height int) (int, int) {
	return max(width-2, 0), max(height-2, 0)
}

// BorderedPane renders content within a bordered panel with optional titles.
//
// Nil color fallback rules:
//   - Both BorderColor and FocusedBorderColor nil: BorderDefaultColor, or
//     BorderFocusColor when focused
//   - BorderColor set, FocusedBorderColor nil: inherit BorderColor for focused state
//   - BorderColor nil, FocusedBorderColor set: unfocused uses BorderDefaultColor
func BorderedPane(cfg BorderConfig) string {
	if cfg.Width < 2 || cfg.Height < 2 {
		return ""
	}

	borderColor := resolveBorderColor(cfg.BorderColor, cfg.FocusedBorderColor, cfg.Focused)
	titleColor := cfg.TitleColor
	if titleColor == nil {
		titleColor = styles.TextSecondaryColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor)

	innerWidth, innerHeight := InnerSize(cfg.Width, cfg.Height)
	side := borderStyle.Render(borderVertical)

	lines := make([]string, 0, cfg.Height)
	lines = append(lines, borderLine(cfg.TopLeft, cfg.TopRight, innerWidth,
		borderTopLeft, borderTopRight, borderStyle, titleStyle))

	content := strings.Split(cfg.Content, "\n")
	for i := range innerHeight {
		var line string
		if i < len(content) {
			line = ansi.Truncate(content[i], innerWidth, "")
		}
		if w := ansi.StringWidth(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		lines = append(lines, side+line+side)
	}

	lines = append(lines, borderLine(cfg.BottomLeft, cfg.BottomRight, innerWidth,
		borderBottomLeft, borderBottomRight, borderStyle, titleStyle))
	return strings.Join(lines, "\n")
}

func resolveBorderColor(borderColor, focusedBorderColor lipgloss.TerminalColor, focused bool) lipgloss.TerminalColor {
	switch {
	case borderColor == nil && focusedBorderColor == nil:
		if focused {
			return styles.BorderFocusColor
		}
		return styles.BorderDefaultColor
	case focusedBorderColor == nil:
		return borderColor
	case focused:
		return focusedBorderColor
	case borderColor == nil:
		return styles.BorderDefaultColor
	default:
		return borderColor
	}
}

// borderLine builds one horizontal border with embedded titles.
// Format: ╭─ Left ───────── Right ─╮
func borderLine(left, right string, innerWidth int, cornerLeft, cornerRight string, borderStyle, titleStyle lipgloss.Style) string {
	if innerWidth < 1 {
		return borderStyle.Render(cornerLeft + cornerRight)
	}

	// "─ " + left + " " and " " + right + " ─", with at least one dash between.
	leftWidth := func() int {
		if left == "" {
			return 0
		}
		return ansi.StringWidth(left) + 3
	}
	rightWidth := func() int {
		if right == "" {
			return 0
		}
		return ansi.StringWidth(right) + 3
	}
	if leftWidth()+rightWidth()+1 > innerWidth {
		right = ""
	}
	if leftWidth()+1 > innerWidth {
		if avail := innerWidth - 4; avail >= 1 {
			left = ansi.Truncate(left, avail, "…")
		} else {
			left = ""
		}
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(cornerLeft))
	if left != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(left))
		b.WriteString(borderStyle.Render(" "))
	}
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, innerWidth-leftWidth()-rightWidth())))
	if right != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(right))
		b.WriteString(borderStyle.Render(" " + borderHorizontal))
	}
	b.WriteString(borderStyle.Render(cornerRight))
	return b.String()
}
