package layout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"pgregory.net/rapid"
)

// countingRenderer records every conversion and echoes the text back
// followed by the width it was asked for.
type countingRenderer struct {
	calls int
	last  MarkdownOptions
	err   error
}

func (r *countingRenderer) Render(text string, opts MarkdownOptions) (string, error) {
	r.calls++
	r.last = opts
	if r.err != nil {
		return "", r.err
	}
	return text + "\n\n", nil
}

func TestWrapPlain_HardWrapsLongWord(t *testing.T) {
	p := New()
	p.SetWidth(5)
	p.SetText("aaaaaaaaaa")

	lines, err := p.Lines(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"aaaaa", "aaaaa"}, lines)
}

func TestWrapPlain(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"word wrap", "hello world", 5, []string{"hello", "world"}},
		{"fits", "hello world", 20, []string{"hello world"}},
		{"hard breaks kept", "a\n\nb", 10, []string{"a", "", "b"}},
		{"crlf normalized", "a\r\nb", 10, []string{"a", "b"}},
		{"tabs expanded", "\tx", 10, []string{"    x"}},
		{"trailing newlines dropped", "a\n\n", 10, []string{"a"}},
		{"empty", "", 10, nil},
		{"zero width keeps line count", "a\nb", 0, []string{"", ""}},
		{"indented long first word", "  indented text", 6, []string{"indent", "ed", "text"}},
		{"long first word", "abcdefgh ij", 4, []string{"abcd", "efgh", "ij"}},
		{"long word after short", "ab cdefghij", 5, []string{"ab", "cdefg", "hij"}},
		{"wide clusters split evenly", "\u4E2D\u6587\u5B57\u7B26", 4, []string{"\u4E2D\u6587", "\u5B57\u7B26"}},
		{"wide cluster wider than width", "\u4E2D\u6587\u5B57\u7B26", 1, []string{"", "", "", ""}},
		{"wide cluster straddling edge", "\u4E2D\u6587\u5B57", 3, []string{"\u4E2D", "\u6587", "\u5B57"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, WrapPlain(tt.text, tt.width))
		})
	}
}

func TestWrapPlain_ANSISafe(t *testing.T) {
	lines := WrapPlain("\x1b[31mred text here\x1b[0m", 4)
	require.NotEmpty(t, lines)
	for _, line := range lines {
		require.LessOrEqual(t, ansi.StringWidth(line), 4, "line %q", line)
	}
	require.Equal(t, "redtexthere", strings.ReplaceAll(ansi.Strip(strings.Join(lines, "")), " ", ""))
}

func TestPipeline_StartsDirtyAndCachesLines(t *testing.T) {
	r := &countingRenderer{}
	p := New(WithMarkdownRenderer(r))
	p.SetMode(Markdown)
	p.SetWidth(40)
	p.SetText("# title")
	require.Equal(t, Dirty, p.State())

	lines, err := p.Lines(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"# title"}, lines, "trailing blank lines are dropped")
	require.Equal(t, Clean, p.State())
	require.Equal(t, 1, r.calls)

	_, err = p.Lines(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, r.calls, "clean pipeline must not recompute")
}

func TestPipeline_UnchangedSettersKeepCache(t *testing.T) {
	r := &countingRenderer{}
	p := New(WithMarkdownRenderer(r))
	p.SetMode(Markdown)
	p.SetWidth(40)
	p.SetText("body")
	p.SetOptions(MarkdownOptions{Style: "dark"})
	_, err := p.Lines(context.Background())
	require.NoError(t, err)

	p.SetMode(Markdown)
	p.SetWidth(40)
	p.SetText("body")
	p.SetOptions(MarkdownOptions{Style: "dark", Width: 99})

	require.Equal(t, Clean, p.State())
	_, err = p.Lines(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, r.calls)
}

func TestPipeline_EachChangeRecomputesOnce(t *testing.T) {
	r := &countingRenderer{}
	p := New(WithMarkdownRenderer(r))
	p.SetMode(Markdown)
	p.SetWidth(40)
	p.SetText("body")
	ctx := context.Background()

	changes := []func(){
		func() { p.SetText("other") },
		func() { p.SetWidth(20) },
		func() { p.SetOptions(MarkdownOptions{Style: "light"}) },
		func() {
			p.SetMode(PlainWrap)
			p.SetMode(Markdown)
		},
		func() { p.MarkDirty() },
	}
	for i, change := range changes {
		_, err := p.Lines(ctx)
		require.NoError(t, err)
		before := r.calls

		change()
		require.Equal(t, Dirty, p.State(), "change %d", i)

		_, err = p.Lines(ctx)
		require.NoError(t, err)
		_, err = p.Lines(ctx)
		require.NoError(t, err)
		require.Equal(t, before+1, r.calls, "change %d recomputes exactly once", i)
	}
}

func TestPipeline_ModeToggleRecomputes(t *testing.T) {
	r := &countingRenderer{}
	p := New(WithMarkdownRenderer(r))
	p.SetMode(Markdown)
	p.SetWidth(40)
	p.SetText("body text")
	ctx := context.Background()

	_, err := p.Lines(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, r.calls)

	p.SetMode(PlainWrap)
	require.Equal(t, Dirty, p.State())
	lines, err := p.Lines(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"body text"}, lines)
	require.Equal(t, Clean, p.State())
	require.Equal(t, 1, r.calls, "plain wrapping does not call the renderer")

	p.SetMode(Markdown)
	require.Equal(t, Dirty, p.State())
	_, err = p.Lines(ctx)
	require.NoError(t, err)
	_, err = p.Lines(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, r.calls, "toggling back renders exactly once")
}

func TestPipeline_PassesWidthToRenderer(t *testing.T) {
	r := &countingRenderer{}
	p := New(WithMarkdownRenderer(r))
	p.SetMode(Markdown)
	p.SetOptions(MarkdownOptions{Style: "dark", Emoji: true})
	p.SetWidth(39)
	p.SetText("x")

	_, err := p.Lines(context.Background())
	require.NoError(t, err)
	require.Equal(t, MarkdownOptions{Width: 39, Style: "dark", Emoji: true}, r.last)
}

func TestPipeline_RendererErrorStaysDirty(t *testing.T) {
	boom := errors.New("boom")
	r := &countingRenderer{err: boom}
	p := New(WithMarkdownRenderer(r))
	p.SetMode(Markdown)
	p.SetWidth(10)
	p.SetText("x")

	_, err := p.Lines(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, Dirty, p.State())

	r.err = nil
	lines, err := p.Lines(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, lines)
	require.Equal(t, 2, r.calls)
}

func TestPipeline_MarkdownWithoutRenderer(t *testing.T) {
	p := New()
	p.SetMode(Markdown)
	p.SetText("x")

	_, err := p.Lines(context.Background())
	require.ErrorIs(t, err, ErrNoMarkdownRenderer)
}

func TestPipeline_EmptyTextHasNoLines(t *testing.T) {
	r := &countingRenderer{}
	p := New(WithMarkdownRenderer(r))
	p.SetMode(Markdown)
	p.SetWidth(10)

	lines, err := p.Lines(context.Background())
	require.NoError(t, err)
	require.Empty(t, lines)
	require.Zero(t, r.calls)
}

func TestPipeline_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	p := New(WithTracer(provider.Tracer("test")))
	p.SetWidth(5)
	p.SetText("aaaaaaaaaa")
	_, err := p.Lines(context.Background())
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "layout.recompute", spans[0].Name())

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	require.Equal(t, "plain", attrs["layout.mode"])
	require.Equal(t, int64(5), attrs["layout.width"])
	require.Equal(t, int64(2), attrs["layout.lines"])
}

func TestProperty_PlainLinesFitWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, 40).Draw(t, "width")
		words := rapid.SliceOfN(rapid.StringMatching(`[a-z中]{0,12}`), 0, 20).Draw(t, "words")
		text := strings.Join(words, " ")

		lines := WrapPlain(text, width)
		for _, line := range lines {
			if ansi.StringWidth(line) > width {
				t.Fatalf("line %q is wider than %d", line, width)
			}
		}
		if len(lines) > 0 && lines[0] == "" && strings.TrimSpace(text) != "" && width > 1 {
			t.Fatalf("unexpected leading empty line for %q at width %d: %q", text, width, lines)
		}
	})
}
