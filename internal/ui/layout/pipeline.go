// Package layout turns raw text into width-bounded display lines.
//
// A Pipeline caches its output and only recomputes after something that
// affects the result (text, width, mode or Markdown options) has changed.
package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rivo/uniseg"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/tracing"
)

// ErrNoMarkdownRenderer is returned by Lines in Markdown mode when the
// pipeline was built without a renderer.
var ErrNoMarkdownRenderer = errors.New("layout: no markdown renderer configured")

// tabWidth is the number of spaces a tab expands to in plain mode.
const tabWidth = 4

// State is the cache state of a Pipeline.
type State int

const (
	// Dirty means the cached lines are stale and the next Lines call
	// recomputes them.
	Dirty State = iota
	// Clean means the cached lines match the current inputs.
	Clean
)

func (s State) String() string {
	if s == Clean {
		return "clean"
	}
	return "dirty"
}

// Mode selects how text is laid out.
type Mode int

const (
	// PlainWrap word-wraps text to the width, keeping hard line breaks.
	PlainWrap Mode = iota
	// Markdown delegates to a MarkdownRenderer. Its output lines are clipped
	// to the width, since code blocks and tables are not wrapped.
	Markdown
)

func (m Mode) String() string {
	if m == Markdown {
		return "markdown"
	}
	return "plain"
}

// MarkdownOptions configures a Markdown conversion. Width is always set by
// the pipeline; the other fields come from the owner.
type MarkdownOptions struct {
	Width            int
	Style            string
	PreserveNewLines bool
	Emoji            bool
}

// MarkdownRenderer converts Markdown source into styled terminal text.
type MarkdownRenderer interface {
	Render(text string, opts MarkdownOptions) (string, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMarkdownRenderer sets the converter used in Markdown mode.
func WithMarkdownRenderer(r MarkdownRenderer) Option {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithTracer sets the tracer for recompute spans.
// If tracer is nil, the pipeline keeps its default noop tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// Pipeline is the line-wrap/style pipeline owned by a text pane.
// It is not safe for concurrent use.
type Pipeline struct {
	text     string
	width    int
	mode     Mode
	options  MarkdownOptions
	renderer MarkdownRenderer
	tracer   trace.Tracer

	state State
	lines []string
}

// New creates a Dirty pipeline in PlainWrap mode with zero width.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		state:  Dirty,
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetText replaces the source text.
func (p *Pipeline) SetText(text string) {
	if p.text == text {
		return
	}
	p.text = text
	p.MarkDirty()
}

// Text returns the source text.
func (p *Pipeline) Text() string { return p.text }

// SetWidth sets the wrap width in columns. Negative values are treated as 0.
func (p *Pipeline) SetWidth(width int) {
	width = max(width, 0)
	if p.width == width {
		return
	}
	p.width = width
	p.MarkDirty()
}

// Width returns the wrap width.
func (p *Pipeline) Width() int { return p.width }

// SetMode switches between plain wrapping and Markdown rendering.
func (p *Pipeline) SetMode(mode Mode) {
	if p.mode == mode {
		return
	}
	p.mode = mode
	p.MarkDirty()
}

// Mode returns the layout mode.
func (p *Pipeline) Mode() Mode { return p.mode }

// SetOptions replaces the Markdown options. The Width field is ignored;
// the pipeline width always wins.
func (p *Pipeline) SetOptions(opts MarkdownOptions) {
	opts.Width = 0
	if p.options == opts {
		return
	}
	p.options = opts
	p.MarkDirty()
}

// Options returns the Markdown options as they would be passed to the
// renderer.
func (p *Pipeline) Options() MarkdownOptions {
	opts := p.options
	opts.Width = p.width
	return opts
}

// MarkDirty forces the next Lines call to recompute.
func (p *Pipeline) MarkDirty() {
	p.state = Dirty
}

// State returns the cache state.
func (p *Pipeline) State() State { return p.state }

// Lines returns the laid-out lines, recomputing them if the pipeline is
// Dirty. On error the pipeline stays Dirty and the previous lines are kept
// so the caller can retry on the next render.
func (p *Pipeline) Lines(ctx context.Context) ([]string, error) {
	if p.state == Clean {
		return p.lines, nil
	}

	_, span := p.tracer.Start(ctx, tracing.SpanPrefixLayout+"recompute",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrLayoutMode, p.mode.String()),
		attribute.Int(tracing.AttrLayoutWidth, p.width),
		attribute.Int(tracing.AttrLayoutTextBytes, len(p.text)),
	)

	lines, err := p.compute()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatLayout, "recompute failed", err, "mode", p.mode, "width", p.width)
		return p.lines, err
	}

	span.SetAttributes(attribute.Int(tracing.AttrLayoutLines, len(lines)))
	span.SetStatus(codes.Ok, "")
	log.Debug(log.CatLayout, "recomputed", "mode", p.mode, "width", p.width, "lines", len(lines))

	p.lines = lines
	p.state = Clean
	return lines, nil
}

func (p *Pipeline) compute() ([]string, error) {
	if p.text == "" {
		return nil, nil
	}
	if p.mode == Markdown {
		return p.markdown()
	}
	return WrapPlain(p.text, p.width), nil
}

func (p *Pipeline) markdown() ([]string, error) {
	if p.renderer == nil {
		return nil, ErrNoMarkdownRenderer
	}
	out, err := p.renderer.Render(p.text, p.Options())
	if err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil, nil
	}
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = clip(line, p.width)
	}
	return lines, nil
}

// clip cuts line to width columns without breaking escape sequences.
func clip(line string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(line, width, "")
}

// WrapPlain lays out text as plain lines no wider than width columns.
// Tabs become spaces, CRLF and CR become LF, and every hard line break is
// kept. Trailing line breaks produce no extra lines. Words longer than the
// width are broken between grapheme clusters; a cluster wider than the
// width gets a line of its own and is clipped.
func WrapPlain(text string, width int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	if width <= 0 {
		return make([]string, strings.Count(text, "\n")+1)
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		if paragraph == "" {
			lines = append(lines, "")
			continue
		}
		// wordwrap breaks before an over-long first word even when nothing
		// precedes it on the line, leaving an empty first line.
		wrapped := strings.TrimPrefix(wordwrap.String(paragraph, width), "\n")
		for _, line := range strings.Split(wrapped, "\n") {
			lines = appendBroken(lines, line, width)
		}
	}
	return lines
}

// appendBroken appends line to lines, split into pieces of at most width
// columns. Escape sequences are never split.
func appendBroken(lines []string, line string, width int) []string {
	broken := false
	for ansi.StringWidth(line) > width {
		head := ansi.Truncate(line, width, "")
		taken := ansi.StringWidth(head)
		if taken == 0 {
			cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(ansi.Strip(line), -1)
			taken = ansi.StringWidth(cluster)
			if taken == 0 {
				break
			}
			head = clip(ansi.Truncate(line, taken, ""), width)
		}
		lines = append(lines, head)
		line = ansi.TruncateLeft(line, taken, "")
		broken = true
	}
	if broken && ansi.StringWidth(line) == 0 {
		// Only escape sequences are left; keep them on the last piece.
		lines[len(lines)-1] += line
		return lines
	}
	return append(lines, clip(line, width))
}
