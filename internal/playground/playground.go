// Package playground shows how labels with mixed scripts, emoji and escape
// sequences are measured and fitted to a column.
package playground

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/glance/internal/keys"
	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/ui/canvas"
	"github.com/zjrosen/glance/internal/ui/list"
	"github.com/zjrosen/glance/internal/ui/panes"
	"github.com/zjrosen/glance/internal/ui/scrollbar"
	"github.com/zjrosen/glance/internal/ui/styles"
	"github.com/zjrosen/glance/internal/ui/textpane"
	"github.com/zjrosen/glance/internal/ui/textwidth"
	"github.com/zjrosen/glance/internal/ui/widget"
)

// probeWidths are the column counts each label is fitted to in the
// description.
var probeWidths = []int{0, 1, 4, 10}

// Sample is one label shown in the playground.
type Sample struct {
	Name  string
	Label string
}

// Samples returns the built-in labels.
func Samples() []Sample {
	return []Sample{
		{Name: "ascii", Label: "Hello, world"},
		{Name: "cjk", Label: "\u4E2D\u6587\u5B57\u7B26 and ASCII"},
		{Name: "hangul", Label: "\uD55C\uAD6D\uC5B4 \uD14D\uC2A4\uD2B8"},
		{Name: "emoji", Label: "\U0001F44B\U0001F3FD wave"},
		{Name: "zwj", Label: "\U0001F468\u200D\U0001F469\u200D\U0001F467 family"},
		{Name: "flags", Label: "\U0001F1EF\U0001F1F5 \U0001F1F3\U0001F1FF flags"},
		{Name: "vs16", Label: "\u2764\uFE0F heart \u263A\uFE0F"},
		{Name: "ambiguous", Label: "\u00B1\u00A7 \u2460\u2461 \u03A9"},
		{Name: "combining", Label: "e\u0301te\u0301 cafe\u0301"},
		{Name: "ansi", Label: "\x1b[1mbold\x1b[0m and \x1b[31mred\x1b[0m"},
		{Name: "long", Label: strings.Repeat("lorem ipsum ", 8)},
	}
}

type focusTarget int

const (
	focusList focusTarget = iota
	focusDetails
)

// Model is the playground Bubble Tea model.
type Model struct {
	formatter *textwidth.Formatter
	list      *list.List[Sample, string]
	details   *textpane.TextPane
	changed   *bool
	focus     focusTarget

	keys keys.KeyMap
	help help.Model

	width  int
	height int
}

// New creates the playground. ambiguousWide selects how East Asian
// ambiguous characters are measured.
func New(ambiguousWide bool) Model {
	formatter := textwidth.New(ambiguousWide)
	bar := scrollbar.DefaultStyle()

	samples := list.New(list.Config[Sample, string]{
		Label:     func(s Sample) string { return s.Label },
		Key:       func(s Sample) string { return s.Name },
		Formatter: formatter,
		Scrollbar: &bar,
	})
	changed := new(bool)
	samples.OnSelectionChange(func(int, Sample) { *changed = true })
	samples.SetItems(Samples())
	samples.SetFocused(true)

	details := textpane.New(textpane.Config{Scrollbar: &bar})
	details.SetPadding(widget.Padding{Left: 1})

	m := Model{
		formatter: formatter,
		list:      samples,
		details:   details,
		changed:   changed,
		keys:      keys.DefaultKeyMap(),
		help:      help.New(),
	}
	m.describeCurrent()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.SwitchFocus):
			m.setFocus(1 - m.focus)
			return m, nil
		}
		action, ok := m.keys.Action(msg)
		if !ok {
			return m, nil
		}
		if m.focus == focusList {
			m.list.HandleAction(action)
			if *m.changed {
				m.describeCurrent()
			}
			return m, nil
		}
		m.details.HandleAction(action)
	}
	return m, nil
}

func (m *Model) setFocus(target focusTarget) {
	m.focus = target
	m.list.SetFocused(target == focusList)
	m.details.SetFocused(target == focusDetails)
}

func (m Model) listWidth() int {
	// Two border columns plus the scrollbar column.
	return min(m.list.ItemMaxWidth()+3, m.width/2)
}

func (m *Model) resize() {
	bodyHeight := max(m.height-1, 0)
	lw, lh := panes.InnerSize(m.listWidth(), bodyHeight)
	m.list.SetBounds(0, 0, lw, lh)
	dw, dh := panes.InnerSize(m.width-m.listWidth(), bodyHeight)
	m.details.SetBounds(0, 0, dw, dh)
}

func (m Model) describeCurrent() {
	*m.changed = false
	sample, ok := m.list.CurrentItem()
	if !ok {
		m.details.SetText("")
		return
	}
	m.details.SetText(Describe(m.formatter, sample))
	m.details.ScrollToTop()
	log.Debug(log.CatUI, "playground sample selected", "name", sample.Name)
}

// Describe reports how f measures the sample's label.
func Describe(f *textwidth.Formatter, s Sample) string {
	plain := f.ToPlainText(s.Label)

	var b strings.Builder
	fmt.Fprintf(&b, "Sample:         %s\n", s.Name)
	fmt.Fprintf(&b, "Display width:  %d\n", f.Width(s.Label))
	fmt.Fprintf(&b, "Plain text:     %s\n", plain)
	fmt.Fprintf(&b, "Plain width:    %d\n", f.Width(plain))
	fmt.Fprintf(&b, "Bytes:          %d\n", len(s.Label))
	fmt.Fprintf(&b, "Runes:          %d\n", utf8.RuneCountInString(s.Label))
	fmt.Fprintf(&b, "Graphemes:      %d\n", uniseg.GraphemeClusterCount(s.Label))
	fmt.Fprintf(&b, "Ambiguous wide: %t\n", f.AmbiguousWide())
	b.WriteString("\n")
	for _, w := range probeWidths {
		fmt.Fprintf(&b, "Fitted to %2d:   [%s]\n", w, f.Format(s.Label, w))
	}
	return b.String()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	bodyHeight := max(m.height-1, 0)
	listWidth := m.listWidth()

	lw, lh := panes.InnerSize(listWidth, bodyHeight)
	lc := canvas.New(lw, lh)
	listErr := m.list.Render(lc)
	left := panes.BorderedPane(panes.BorderConfig{
		Content:     lc.String(),
		Width:       listWidth,
		Height:      bodyHeight,
		TopLeft:     "Samples",
		BottomRight: fmt.Sprintf("max %d", m.list.ItemMaxWidth()),
		Focused:     m.focus == focusList,
	})

	dw, dh := panes.InnerSize(m.width-listWidth, bodyHeight)
	dc := canvas.New(dw, dh)
	detailsErr := m.details.Render(context.Background(), dc)
	var title string
	if sample, ok := m.list.CurrentItem(); ok {
		title = sample.Name
	}
	right := panes.BorderedPane(panes.BorderConfig{
		Content: dc.String(),
		Width:   m.width - listWidth,
		Height:  bodyHeight,
		TopLeft: title,
		Focused: m.focus == focusDetails,
	})

	footer := m.help.ShortHelpView([]key.Binding{m.keys.Up, m.keys.Down, m.keys.SwitchFocus, m.keys.Quit})
	if err := cmp.Or(listErr, detailsErr); err != nil {
		footer = styles.ErrorStyle.Render(err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, left, right), footer)
}
