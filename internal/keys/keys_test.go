package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/ui/widget"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMap_Action(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want widget.Action
	}{
		{"k", runes("k"), widget.ActionUp},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, widget.ActionUp},
		{"j", runes("j"), widget.ActionDown},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, widget.ActionDown},
		{"pgup", tea.KeyMsg{Type: tea.KeyPgUp}, widget.ActionPageUp},
		{"pgdown", tea.KeyMsg{Type: tea.KeyPgDown}, widget.ActionPageDown},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, widget.ActionPageDown},
		{"g", runes("g"), widget.ActionTop},
		{"home", tea.KeyMsg{Type: tea.KeyHome}, widget.ActionTop},
		{"G", runes("G"), widget.ActionBottom},
		{"end", tea.KeyMsg{Type: tea.KeyEnd}, widget.ActionBottom},
		{"K", runes("K"), widget.ActionFiveUp},
		{"shift+down", tea.KeyMsg{Type: tea.KeyShiftDown}, widget.ActionFiveDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.Action(tt.msg)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestKeyMap_ActionIgnoresAppKeys(t *testing.T) {
	km := DefaultKeyMap()

	for _, msg := range []tea.KeyMsg{runes("m"), runes("q"), runes("?"), {Type: tea.KeyTab}, {Type: tea.KeyCtrlX}} {
		_, ok := km.Action(msg)
		require.False(t, ok, "%s", msg.String())
	}
}

func TestKeyMap_AppBindings(t *testing.T) {
	km := DefaultKeyMap()

	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyTab}, km.SwitchFocus))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyShiftTab}, km.SwitchFocus))
	require.True(t, key.Matches(runes("m"), km.ToggleMarkdown))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlX}, km.ToggleLog))
	require.True(t, key.Matches(runes("?"), km.Help))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit))
	require.True(t, key.Matches(runes("q"), km.Quit))
}

func TestKeyMap_NoOverlappingKeys(t *testing.T) {
	km := DefaultKeyMap()
	seen := map[string]string{}
	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				require.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestKeyMap_HelpText(t *testing.T) {
	km := DefaultKeyMap()
	for _, b := range km.ShortHelp() {
		require.NotEmpty(t, b.Help().Key)
		require.NotEmpty(t, b.Help().Desc)
	}
	require.Len(t, km.FullHelp(), 4)
}
