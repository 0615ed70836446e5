// Package keys contains keybinding definitions.
package keys

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/glance/internal/ui/widget"
)

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Navigation, forwarded to the focused pane as widget actions
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	FiveUp   key.Binding
	FiveDown key.Binding

	// Actions
	SwitchFocus    key.Binding
	ToggleMarkdown key.Binding
	Refresh        key.Binding
	ToggleLog      key.Binding

	// General
	Help   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup/b", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", " "),
			key.WithHelp("pgdn/f", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G/end", "bottom"),
		),
		FiveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "up 5"),
		),
		FiveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "down 5"),
		),

		// Actions
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch pane"),
		),
		ToggleMarkdown: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle markdown"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "toggle log"),
		),

		// General
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action maps a key press to the widget action it stands for.
func (k KeyMap) Action(msg tea.KeyMsg) (widget.Action, bool) {
	bindings := []struct {
		binding key.Binding
		action  widget.Action
	}{
		{k.Up, widget.ActionUp},
		{k.Down, widget.ActionDown},
		{k.PageUp, widget.ActionPageUp},
		{k.PageDown, widget.ActionPageDown},
		{k.Top, widget.ActionTop},
		{k.Bottom, widget.ActionBottom},
		{k.FiveUp, widget.ActionFiveUp},
		{k.FiveDown, widget.ActionFiveDown},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.action, true
		}
	}
	return "", false
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchFocus, k.ToggleMarkdown, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.FiveUp, k.FiveDown},                      // Lines
		{k.PageUp, k.PageDown, k.Top, k.Bottom},                   // Pages
		{k.SwitchFocus, k.ToggleMarkdown, k.Refresh, k.ToggleLog}, // Actions
		{k.Help, k.Escape, k.Quit},                                // General
	}
}
