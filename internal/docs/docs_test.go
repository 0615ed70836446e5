package docs

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func isDoc(path string) bool {
	return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".txt")
}

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestStore_Scan(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/docs/b.md":              "# Bravo\n\ntext",
		"/docs/a.txt":             "plain notes",
		"/docs/guide/intro.md":    "---\ntitle: Getting Started\n---\n# Ignored",
		"/docs/main.go":           "package main",
		"/docs/.hidden.md":        "# secret",
		"/docs/.git/HEAD.md":      "# nope",
		"/docs/guide/.draft/x.md": "# draft",
	})
	s := New("/docs", isDoc, WithFs(fs))

	got, err := s.Scan(context.Background())
	require.NoError(t, err)

	paths := make([]string, len(got))
	titles := make([]string, len(got))
	for i, d := range got {
		paths[i] = d.Path
		titles[i] = d.Title
	}
	require.Equal(t, []string{"a.txt", "b.md", "guide/intro.md"}, paths)
	require.Equal(t, []string{"a.txt", "Bravo", "Getting Started"}, titles)
	require.Equal(t, "intro.md", got[2].Name())
	require.Equal(t, int64(len("plain notes")), got[0].Size)
}

func TestStore_ScanNilMatch(t *testing.T) {
	fs := newFs(t, map[string]string{"/d/x.go": "", "/d/y.md": ""})

	got, err := New("/d", nil, WithFs(fs)).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestStore_ScanMissingRoot(t *testing.T) {
	s := New("/missing", isDoc, WithFs(afero.NewMemMapFs()))

	_, err := s.Scan(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "scanning /missing")
}

func TestStore_Load(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/docs/a.md": "---\ntitle: A\n---\n# Body\n",
		"/docs/b.md": "no frontmatter",
	})
	s := New("/docs", isDoc, WithFs(fs))

	text, err := s.Load(context.Background(), Document{Path: "a.md"})
	require.NoError(t, err)
	require.Equal(t, "# Body\n", text)

	text, err = s.Load(context.Background(), Document{Path: "b.md"})
	require.NoError(t, err)
	require.Equal(t, "no frontmatter", text)
}

func TestStore_LoadErrors(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/docs/bin.txt":    "abc\x00def",
		"/docs/latin1.txt": "caf\xe9 au lait",
	})
	s := New("/docs", nil, WithFs(fs))

	_, err := s.Load(context.Background(), Document{Path: "missing.md"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "opening missing.md")

	_, err = s.Load(context.Background(), Document{Path: "bin.txt"})
	require.ErrorIs(t, err, ErrBinary)

	_, err = s.Load(context.Background(), Document{Path: "latin1.txt"})
	require.ErrorIs(t, err, ErrBinary)
}

func TestStore_LoadCapsSize(t *testing.T) {
	fs := newFs(t, map[string]string{"/d/big.txt": strings.Repeat("x", 9) + "é"})
	s := New("/d", nil, WithFs(fs), WithMaxBytes(10))

	text, err := s.Load(context.Background(), Document{Path: "big.txt"})
	require.NoError(t, err, "a rune split by the cap is dropped")
	require.Equal(t, strings.Repeat("x", 9), text)
}

func TestStore_Spans(t *testing.T) {
	fs := newFs(t, map[string]string{"/d/a.md": "# A"})
	recorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	s := New("/d", isDoc, WithFs(fs), WithTracer(tp.Tracer("test")))

	docs, err := s.Scan(context.Background())
	require.NoError(t, err)
	_, err = s.Load(context.Background(), docs[0])
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "docs.scan", spans[0].Name())
	require.Equal(t, "docs.load", spans[1].Name())
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"frontmatter", "---\ntitle: From YAML\n---\n# Heading", "From YAML"},
		{"frontmatter without title", "---\nauthor: x\n---\n## Second Level", "Second Level"},
		{"closing hashes", "# Title ##\n", "Title"},
		{"skips code fence", "```\n# not a heading\n```\n# Real", "Real"},
		{"hashtag is not a heading", "#tag\n# Real", "Real"},
		{"seven hashes", "####### too deep\n", ""},
		{"none", "just text", ""},
		{"unterminated frontmatter", "---\ntitle: x\n# H", "H"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Title(tt.content))
		})
	}
}

func TestStripFrontmatter(t *testing.T) {
	require.Equal(t, "body", StripFrontmatter("---\na: 1\n---\nbody"))
	require.Equal(t, "body", StripFrontmatter("---\n---\nbody"))
	require.Equal(t, "", StripFrontmatter("---\na: 1\n---"))
	require.Equal(t, "---\nnever closed", StripFrontmatter("---\nnever closed"))
	require.Equal(t, "text\n---\n", StripFrontmatter("text\n---\n"))
}
