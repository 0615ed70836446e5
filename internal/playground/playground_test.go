package playground

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/ui/textwidth"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func updateModel(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	result, _ := m.Update(msg)
	return result.(Model)
}

func TestDescribe_ASCII(t *testing.T) {
	out := Describe(textwidth.New(false), Sample{Name: "ascii", Label: "Hello, world"})

	require.Contains(t, out, "Sample:         ascii\n")
	require.Contains(t, out, "Display width:  12\n")
	require.Contains(t, out, "Graphemes:      12\n")
	require.Contains(t, out, "Fitted to  0:   []\n")
	require.Contains(t, out, "Fitted to  4:   [Hell]\n")
	require.Contains(t, out, "Fitted to 10:   [Hello, wor]\n")
}

func TestDescribe_WideCharacters(t *testing.T) {
	out := Describe(textwidth.New(false), Sample{Name: "cjk", Label: "中文 x"})

	require.Contains(t, out, "Display width:  6\n")
	require.Contains(t, out, "Bytes:          8\n")
	require.Contains(t, out, "Runes:          4\n")
	require.Contains(t, out, "Fitted to  1:   [ ]\n", "a wide cluster that does not fit leaves a space")
	require.Contains(t, out, "Fitted to  4:   [中文]\n")
}

func TestDescribe_AmbiguousWidth(t *testing.T) {
	sample := Sample{Name: "ambiguous", Label: "±"}

	require.Contains(t, Describe(textwidth.New(false), sample), "Display width:  1\n")
	require.Contains(t, Describe(textwidth.New(true), sample), "Display width:  2\n")
}

func TestSamples_ValidAndNamed(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Samples() {
		require.NotEmpty(t, s.Name)
		require.False(t, seen[s.Name], "duplicate sample %s", s.Name)
		seen[s.Name] = true
	}
}

func TestPlayground_SelectionUpdatesDetails(t *testing.T) {
	m := New(false)
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})

	view := ansi.Strip(m.View())
	require.Equal(t, 24, lipgloss.Height(m.View()))
	require.Contains(t, view, "Samples")
	require.Contains(t, view, "Sample:         ascii")

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	require.Equal(t, 1, m.list.CurrentIndex())
	require.Contains(t, ansi.Strip(m.View()), "Sample:         cjk")

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	require.Contains(t, ansi.Strip(m.View()), "Sample:         long")
}

func TestPlayground_ListWidthFollowsWidestLabel(t *testing.T) {
	m := New(false)
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 300, Height: 24})

	require.Equal(t, m.list.ItemMaxWidth()+3, m.listWidth())
	require.Equal(t, m.list.ItemMaxWidth()+1, m.list.Width())
}

func TestPlayground_FocusAndQuit(t *testing.T) {
	m := New(false)
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusDetails, m.focus)
	require.True(t, m.details.Focused())

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	require.Equal(t, 0, m.list.CurrentIndex(), "keys go to the details pane")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
