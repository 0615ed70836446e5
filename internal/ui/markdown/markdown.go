// Package markdown renders Markdown to styled terminal text with glamour.
package markdown

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/glance/internal/cachemanager"
	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/tracing"
	"github.com/zjrosen/glance/internal/ui/layout"
)

// DefaultStyle is used when no style is configured.
const DefaultStyle = "dark"

// rendererTTL keeps a glamour renderer around while its width is in use.
const rendererTTL = 10 * time.Minute

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer converts Markdown with glamour. Building a glamour renderer is
// expensive, so one is kept per distinct set of options.
// Renderer is not safe for concurrent use.
type Renderer struct {
	renderers *cachemanager.ReadThroughCache[string, *glamour.TermRenderer, layout.MarkdownOptions]
	tracer    trace.Tracer
}

var _ layout.MarkdownRenderer = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*Renderer)

// WithTracer sets the tracer for render spans.
// If tracer is nil, the renderer keeps its default noop tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Renderer) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithCache stores glamour renderers in cache instead of a private
// in-memory cache.
func WithCache(cache cachemanager.CacheManager[string, *glamour.TermRenderer]) Option {
	return func(r *Renderer) {
		r.renderers = cachemanager.NewReadThroughCache(cache, cacheKey, build, rendererTTL)
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	WithCache(cachemanager.NewInMemoryCacheManager[string, *glamour.TermRenderer](
		"markdown-renderers", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval,
	))(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts text using the style and width in opts.
func (r *Renderer) Render(text string, opts layout.MarkdownOptions) (string, error) {
	if opts.Style == "" {
		opts.Style = DefaultStyle
	}

	ctx, span := r.tracer.Start(context.Background(), tracing.SpanPrefixMarkdown+"render",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrMarkdownStyle, opts.Style),
		attribute.Int(tracing.AttrLayoutWidth, opts.Width),
	)

	tr, err := r.renderers.Get(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	out, err := tr.Render(text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("glamour render: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return out, nil
}

func cacheKey(opts layout.MarkdownOptions) string {
	return fmt.Sprintf("%s:%d:%t:%t", opts.Style, opts.Width, opts.PreserveNewLines, opts.Emoji)
}

// build creates a glamour renderer. A named style ("dark", "light",
// "notty", ...) or a path to a JSON style file is accepted.
// Named styles avoid the terminal background query WithAutoStyle makes,
// whose response would leak into the input stream.
func build(_ context.Context, opts layout.MarkdownOptions) (*glamour.TermRenderer, error) {
	options := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(opts.Width),
	}
	if opts.PreserveNewLines {
		options = append(options, glamour.WithPreservedNewLines())
	}
	if opts.Emoji {
		options = append(options, glamour.WithEmoji())
	}

	tr, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer (style %q): %w", opts.Style, err)
	}
	log.Debug(log.CatCache, "markdown renderer created", "style", opts.Style, "width", opts.Width)
	return tr, nil
}
