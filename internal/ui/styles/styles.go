// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Titles, secondary info
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#9A9A9A", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"} // Focused pane border

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Selected row backgrounds: bright while the list has the keyboard,
	// dimmed otherwise.
	SelectionFocusedBgColor = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#FFFFFF"}
	SelectionFocusedFgColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}
	SelectionBlurredBgColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#585858"}
	SelectionBlurredFgColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#000000"}

	// Scrollbar
	ScrollbarTrackColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#585858"}
	ScrollbarThumbColor = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#FFFFFF"}

	// ItemStyle renders an unselected list row.
	ItemStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)

	// SelectedFocusedStyle renders the selected row of the focused list.
	SelectedFocusedStyle = lipgloss.NewStyle().
				Foreground(SelectionFocusedFgColor).
				Background(SelectionFocusedBgColor)

	// SelectedBlurredStyle renders the selected row of an unfocused list.
	SelectedBlurredStyle = lipgloss.NewStyle().
				Foreground(SelectionBlurredFgColor).
				Background(SelectionBlurredBgColor)

	// ScrollbarTrackStyle and ScrollbarThumbStyle color the scrollbar cells.
	ScrollbarTrackStyle = lipgloss.NewStyle().Foreground(ScrollbarTrackColor)
	ScrollbarThumbStyle = lipgloss.NewStyle().Foreground(ScrollbarThumbColor)

	// Title, footer and status line
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(TextSecondaryColor)
	FooterStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle  = lipgloss.NewStyle().Foreground(StatusErrorColor)
	StatusStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
)
