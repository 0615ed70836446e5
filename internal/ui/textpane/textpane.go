// Package textpane provides a scrollable, read-only text widget.
//
// A TextPane lays its text out through a layout.Pipeline (plain wrap or
// Markdown) and scrolls the resulting lines with a viewport. Layout is lazy:
// nothing is recomputed until the pane is rendered or scrolled.
package textpane

import (
	"context"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/ui/layout"
	"github.com/zjrosen/glance/internal/ui/scrollbar"
	"github.com/zjrosen/glance/internal/ui/viewport"
	"github.com/zjrosen/glance/internal/ui/widget"
)

// Config configures a TextPane.
type Config struct {
	// Renderer converts Markdown. Without one, Markdown mode fails to
	// render with layout.ErrNoMarkdownRenderer.
	Renderer layout.MarkdownRenderer
	// Tracer records layout spans. Optional.
	Tracer trace.Tracer
	// Scrollbar, when set, is drawn in the last inner column while the
	// lines do not fit.
	Scrollbar *scrollbar.Style
}

// TextPane displays text that does not fit on screen.
type TextPane struct {
	widget.Base

	pipeline      *layout.Pipeline
	vp            *viewport.Viewport
	scrollbar     *scrollbar.Style
	stickToBottom bool
}

// New creates an empty pane in plain wrap mode.
func New(cfg Config) *TextPane {
	p := &TextPane{
		Base:      widget.NewBase("text"),
		scrollbar: cfg.Scrollbar,
	}
	p.pipeline = layout.New(
		layout.WithMarkdownRenderer(cfg.Renderer),
		layout.WithTracer(cfg.Tracer),
	)
	p.vp = viewport.New(p.Invalidate)
	return p
}

// SetText replaces the text. The scroll position is kept and clamped on
// the next sync.
func (p *TextPane) SetText(text string) {
	if p.pipeline.Text() == text {
		return
	}
	p.pipeline.SetText(text)
	p.Invalidate()
}

// Text returns the raw text.
func (p *TextPane) Text() string { return p.pipeline.Text() }

// SetMarkdown switches between Markdown rendering and plain wrapping.
func (p *TextPane) SetMarkdown(enabled bool) {
	mode := layout.PlainWrap
	if enabled {
		mode = layout.Markdown
	}
	if p.pipeline.Mode() == mode {
		return
	}
	p.pipeline.SetMode(mode)
	p.Invalidate()
	log.Debug(log.CatUI, "text pane mode", "id", p.ID(), "mode", mode)
}

// Markdown reports whether Markdown rendering is on.
func (p *TextPane) Markdown() bool { return p.pipeline.Mode() == layout.Markdown }

// SetMarkdownOptions sets the converter options. The width is always
// derived from the pane.
func (p *TextPane) SetMarkdownOptions(opts layout.MarkdownOptions) {
	p.pipeline.SetOptions(opts)
	if p.pipeline.State() == layout.Dirty {
		p.Invalidate()
	}
}

// SetStickToBottom pins the view to the last line whenever the text is
// laid out again, which is what a log tail wants.
func (p *TextPane) SetStickToBottom(stick bool) {
	if p.stickToBottom == stick {
		return
	}
	p.stickToBottom = stick
	if stick {
		p.sync(context.Background())
		p.vp.ScrollToBottom()
	}
	p.Invalidate()
}

// StickToBottom reports whether the view is pinned to the last line.
func (p *TextPane) StickToBottom() bool { return p.stickToBottom }

// LineCount returns the number of laid-out lines.
func (p *TextPane) LineCount() int {
	p.sync(context.Background())
	return p.vp.ContentLength()
}

// Top returns the index of the first visible line.
func (p *TextPane) Top() int {
	p.sync(context.Background())
	return p.vp.Top()
}

// MaxTop returns the largest valid Top.
func (p *TextPane) MaxTop() int {
	p.sync(context.Background())
	return p.vp.MaxTop()
}

// ScrollPercent returns how far down the text is scrolled, from 0 to 1.
func (p *TextPane) ScrollPercent() float64 {
	p.sync(context.Background())
	return p.vp.ScrollPercent()
}

// ScrollTo moves the first visible line to top, clamped.
func (p *TextPane) ScrollTo(top int) bool {
	p.sync(context.Background())
	return p.vp.ScrollTo(top)
}

// ScrollBy scrolls delta lines down (negative for up).
func (p *TextPane) ScrollBy(delta int) bool {
	p.sync(context.Background())
	return p.vp.ScrollBy(delta)
}

// PageUp scrolls up by the visible height.
func (p *TextPane) PageUp() bool {
	p.sync(context.Background())
	return p.vp.PageUp()
}

// PageDown scrolls down by the visible height.
func (p *TextPane) PageDown() bool {
	p.sync(context.Background())
	return p.vp.PageDown()
}

// ScrollToTop shows the first line.
func (p *TextPane) ScrollToTop() bool {
	p.sync(context.Background())
	return p.vp.ScrollToTop()
}

// ScrollToBottom shows the last line.
func (p *TextPane) ScrollToBottom() bool {
	p.sync(context.Background())
	return p.vp.ScrollToBottom()
}

// HandleAction applies a scroll action. It reports whether the action is
// one the pane understands.
func (p *TextPane) HandleAction(a widget.Action) bool {
	switch a {
	case widget.ActionUp:
		p.ScrollBy(-1)
	case widget.ActionDown:
		p.ScrollBy(1)
	case widget.ActionPageUp:
		p.PageUp()
	case widget.ActionPageDown:
		p.PageDown()
	case widget.ActionTop:
		p.ScrollToTop()
	case widget.ActionBottom:
		p.ScrollToBottom()
	case widget.ActionFiveUp:
		p.ScrollBy(-widget.FixedStep)
	case widget.ActionFiveDown:
		p.ScrollBy(widget.FixedStep)
	default:
		return false
	}
	return true
}

// textWidth is the layout width. One column is always held back, both for
// the scrollbar and because terminals disagree about wide characters that
// end exactly on the last column.
func (p *TextPane) textWidth() int {
	return max(p.InnerWidth()-1, 0)
}

// sync brings the pipeline and viewport up to date with the current size
// and text. A layout error leaves the previous lines in place; it has
// already been logged by the pipeline.
func (p *TextPane) sync(ctx context.Context) ([]string, error) {
	p.pipeline.SetWidth(p.textWidth())
	p.vp.SetHeight(p.InnerHeight())

	relaid := p.pipeline.State() == layout.Dirty
	lines, err := p.pipeline.Lines(ctx)
	p.vp.SetContentLength(len(lines))
	if relaid && err == nil && p.stickToBottom {
		p.vp.ScrollToBottom()
	}
	return lines, err
}

// Render lays the text out if needed and draws the visible lines into
// sink. A layout error is returned after the previous lines are drawn.
func (p *TextPane) Render(ctx context.Context, sink widget.Sink) error {
	lines, err := p.sync(ctx)

	x, y := p.InnerX(), p.InnerY()
	width, height := p.InnerWidth(), p.InnerHeight()

	start, end := p.vp.VisibleRange()
	for row := 0; row < height; row++ {
		sink.MoveTo(x, y+row)
		i := start + row
		if i >= end {
			sink.Write(strings.Repeat(" ", width))
			continue
		}
		line := lines[i]
		sink.Write(line + strings.Repeat(" ", max(width-ansi.StringWidth(line), 0)))
	}

	if p.scrollbar != nil && width > 0 {
		bar := scrollbar.Compute(len(lines), height, p.vp.Top())
		scrollbar.Draw(sink, x+width-1, y, bar, *p.scrollbar)
	}

	p.ClearRedraw()
	return err
}
