// Package list provides a scrollable, selectable list widget.
//
// A List owns its items and composes a widget.Base with a viewport and a
// selection cursor. Whatever the caller does, the selected row stays on
// screen and the scroll offset stays within the content.
package list

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/ui/scrollbar"
	"github.com/zjrosen/glance/internal/ui/selection"
	"github.com/zjrosen/glance/internal/ui/styles"
	"github.com/zjrosen/glance/internal/ui/textwidth"
	"github.com/zjrosen/glance/internal/ui/viewport"
	"github.com/zjrosen/glance/internal/ui/widget"
)

// ErrInvalidLabel is returned by Render when an item renderer fails or
// produces a label that is not valid UTF-8.
var ErrInvalidLabel = errors.New("invalid item label")

// RowStyles are applied to each written row.
type RowStyles struct {
	Normal          lipgloss.Style
	SelectedFocused lipgloss.Style
	SelectedBlurred lipgloss.Style
}

// DefaultRowStyles returns the styles from the styles package.
func DefaultRowStyles() RowStyles {
	return RowStyles{
		Normal:          styles.ItemStyle,
		SelectedFocused: styles.SelectedFocusedStyle,
		SelectedBlurred: styles.SelectedBlurredStyle,
	}
}

// Config configures a List. Label and Key are required.
type Config[T any, K comparable] struct {
	// Label returns the display label of an item.
	Label func(T) string
	// Key returns the lookup key used by IndexOf.
	Key func(T) K
	// Formatter measures labels. Defaults to textwidth.Default.
	Formatter *textwidth.Formatter
	// Scrollbar, when set, reserves the last inner column for a scrollbar
	// while the items do not fit.
	Scrollbar *scrollbar.Style
	// Styles overrides DefaultRowStyles.
	Styles *RowStyles
}

// List is a generic list widget over items of type T looked up by K.
type List[T any, K comparable] struct {
	widget.Base

	items     []T
	label     func(T) string
	key       func(T) K
	renderer  func(T) (string, error)
	formatter *textwidth.Formatter
	scrollbar *scrollbar.Style
	styles    RowStyles

	itemMaxWidth int

	vp     *viewport.Viewport
	cursor *selection.Cursor
}

// New creates an empty List.
// Panics if cfg.Label or cfg.Key is nil.
func New[T any, K comparable](cfg Config[T, K]) *List[T, K] {
	if cfg.Label == nil || cfg.Key == nil {
		panic("list: Label and Key are required")
	}

	l := &List[T, K]{
		Base:         widget.NewBase("list"),
		label:        cfg.Label,
		key:          cfg.Key,
		formatter:    cfg.Formatter,
		scrollbar:    cfg.Scrollbar,
		styles:       DefaultRowStyles(),
		itemMaxWidth: -1,
	}
	if l.formatter == nil {
		l.formatter = textwidth.Default
	}
	if cfg.Styles != nil {
		l.styles = *cfg.Styles
	}
	l.vp = viewport.New(l.Invalidate)
	l.cursor = selection.New(l.vp, l.Invalidate)
	return l
}

// SetItems replaces the items. The first item (if any) becomes selected
// and the list scrolls back to the top.
func (l *List[T, K]) SetItems(items []T) {
	l.items = append([]T(nil), items...)
	l.cursor.Reset(len(l.items))
	l.Invalidate()
	log.Debug(log.CatUI, "list items set", "id", l.ID(), "count", len(l.items))
}

// AddItem appends an item, keeping the current selection.
func (l *List[T, K]) AddItem(item T) {
	l.items = append(l.items, item)
	l.cursor.Grow(len(l.items))
	l.Invalidate()
}

// Items returns the items. The slice must not be modified.
func (l *List[T, K]) Items() []T { return l.items }

// Len returns the number of items.
func (l *List[T, K]) Len() int { return len(l.items) }

// CurrentIndex returns the selected index, or -1 when the list is empty.
func (l *List[T, K]) CurrentIndex() int { return l.cursor.Current() }

// CurrentItem returns the selected item.
func (l *List[T, K]) CurrentItem() (T, bool) {
	i := l.cursor.Current()
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// SetCurrentIndex selects item i, clamped to the list. Returns false when
// the selection did not change.
func (l *List[T, K]) SetCurrentIndex(i int) bool { return l.cursor.SetCurrent(i) }

// SelectUp selects the previous item.
func (l *List[T, K]) SelectUp() bool { return l.cursor.MoveBy(-1) }

// SelectDown selects the next item.
func (l *List[T, K]) SelectDown() bool { return l.cursor.MoveBy(1) }

// PageUp moves the selection up by the visible height.
func (l *List[T, K]) PageUp() bool { return l.cursor.PageUp() }

// PageDown moves the selection down by the visible height.
func (l *List[T, K]) PageDown() bool { return l.cursor.PageDown() }

// SelectFirst selects the first item.
func (l *List[T, K]) SelectFirst() bool { return l.cursor.First() }

// SelectLast selects the last item.
func (l *List[T, K]) SelectLast() bool { return l.cursor.Last() }

// MoveBy moves the selection by delta items.
func (l *List[T, K]) MoveBy(delta int) bool { return l.cursor.MoveBy(delta) }

// OnSelectionChange registers fn to run once after each selection change.
// index is -1 and item the zero value when the list became empty.
func (l *List[T, K]) OnSelectionChange(fn func(index int, item T)) {
	l.cursor.OnChange(func(index int) {
		item, _ := l.CurrentItem()
		fn(index, item)
	})
}

// IndexOf returns the index of the first item whose key equals key.
func (l *List[T, K]) IndexOf(key K) (int, bool) {
	for i, item := range l.items {
		if l.key(item) == key {
			return i, true
		}
	}
	return -1, false
}

// IndexFunc returns the index of the first item satisfying match.
func (l *List[T, K]) IndexFunc(match func(T) bool) (int, bool) {
	for i, item := range l.items {
		if match(item) {
			return i, true
		}
	}
	return -1, false
}

// SetItemRenderer replaces the label function used for drawing. A nil fn
// restores the configured Label.
func (l *List[T, K]) SetItemRenderer(fn func(T) (string, error)) {
	l.renderer = fn
	l.Invalidate()
}

// SetItemMaxWidth overrides the value reported by ItemMaxWidth. A negative
// width restores the computed value.
func (l *List[T, K]) SetItemMaxWidth(width int) {
	l.itemMaxWidth = width
}

// ItemMaxWidth returns the display width of the widest label, which
// owners use to size the list.
func (l *List[T, K]) ItemMaxWidth() int {
	if l.itemMaxWidth >= 0 {
		return l.itemMaxWidth
	}
	widest := 0
	for _, item := range l.items {
		w := l.formatter.Width(strings.TrimSpace(l.formatter.ToPlainText(l.label(item))))
		widest = max(widest, w)
	}
	return widest
}

// Top returns the index of the first visible item.
func (l *List[T, K]) Top() int { return l.vp.Top() }

// Bottom returns the index of the last visible row slot.
func (l *List[T, K]) Bottom() int { return l.vp.Bottom() }

// MaxTopIndex returns the largest valid Top.
func (l *List[T, K]) MaxTopIndex() int { return l.vp.MaxTop() }

// VisibleRows returns the number of rows available for items.
func (l *List[T, K]) VisibleRows() int { return l.vp.Height() }

// SetBounds places the list and keeps the selection visible after a
// resize.
func (l *List[T, K]) SetBounds(x, y, width, height int) bool {
	resized := l.Base.SetBounds(x, y, width, height)
	l.syncHeight()
	return resized
}

// SetPadding changes the padding and keeps the selection visible.
func (l *List[T, K]) SetPadding(p widget.Padding) bool {
	changed := l.Base.SetPadding(p)
	l.syncHeight()
	return changed
}

func (l *List[T, K]) syncHeight() {
	l.vp.SetHeight(l.InnerHeight())
	l.cursor.Reveal()
}

// HandleAction applies a navigation action. It reports whether the action
// is one the list understands.
func (l *List[T, K]) HandleAction(a widget.Action) bool {
	switch a {
	case widget.ActionUp:
		l.SelectUp()
	case widget.ActionDown:
		l.SelectDown()
	case widget.ActionPageUp:
		l.PageUp()
	case widget.ActionPageDown:
		l.PageDown()
	case widget.ActionTop:
		l.SelectFirst()
	case widget.ActionBottom:
		l.SelectLast()
	case widget.ActionFiveUp:
		l.MoveBy(-widget.FixedStep)
	case widget.ActionFiveDown:
		l.MoveBy(widget.FixedStep)
	default:
		return false
	}
	return true
}

// RowAt maps an absolute screen row to an item index.
func (l *List[T, K]) RowAt(y int) (int, bool) {
	row := y - l.InnerY()
	if row < 0 || row >= l.vp.Height() {
		return -1, false
	}
	i := l.vp.Top() + row
	if i >= len(l.items) {
		return -1, false
	}
	return i, true
}

// Render draws the visible rows into sink. The whole inner area is
// written, so rows past the end of the items are blanked. Labels are
// resolved before anything is drawn; an invalid one aborts the pass with
// ErrInvalidLabel.
func (l *List[T, K]) Render(sink widget.Sink) error {
	x, y := l.InnerX(), l.InnerY()
	width, height := l.InnerWidth(), l.InnerHeight()

	bar := scrollbar.Compute(len(l.items), height, l.vp.Top())
	labelWidth := width
	if l.scrollbar != nil && bar.Visible {
		labelWidth = max(width-1, 0)
	}

	start, end := l.vp.VisibleRange()
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		label, err := l.labelAt(i)
		if err != nil {
			log.ErrorErr(log.CatUI, "list render failed", err, "id", l.ID(), "index", i)
			return err
		}
		rows = append(rows, l.formatter.Format(label, labelWidth))
	}

	blank := strings.Repeat(" ", width)
	for row := 0; row < height; row++ {
		sink.MoveTo(x, y+row)
		if row >= len(rows) {
			sink.Write(blank)
			continue
		}
		sink.Write(l.rowStyle(start + row).Render(rows[row]))
	}

	if l.scrollbar != nil {
		scrollbar.Draw(sink, x+width-1, y, bar, *l.scrollbar)
	}

	l.ClearRedraw()
	return nil
}

func (l *List[T, K]) labelAt(i int) (string, error) {
	item := l.items[i]
	if l.renderer == nil {
		label := l.label(item)
		if !utf8.ValidString(label) {
			return "", fmt.Errorf("%w: item %d is not valid UTF-8", ErrInvalidLabel, i)
		}
		return label, nil
	}

	label, err := l.renderer(item)
	if err != nil {
		return "", fmt.Errorf("%w: item %d: %w", ErrInvalidLabel, i, err)
	}
	if !utf8.ValidString(label) {
		return "", fmt.Errorf("%w: item %d is not valid UTF-8", ErrInvalidLabel, i)
	}
	return label, nil
}

func (l *List[T, K]) rowStyle(i int) lipgloss.Style {
	if i != l.cursor.Current() {
		return l.styles.Normal
	}
	if l.Focused() {
		return l.styles.SelectedFocused
	}
	return l.styles.SelectedBlurred
}
