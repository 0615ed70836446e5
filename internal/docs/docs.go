// Package docs discovers and loads the documents glance browses.
package docs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/tracing"
)

// ErrBinary is returned by Load for files that are not valid UTF-8 text.
var ErrBinary = errors.New("not a text file")

// DefaultMaxBytes caps how much of a document Load reads.
const DefaultMaxBytes = 1 << 20

// titleProbeBytes is how much of each file Scan reads to find a title.
const titleProbeBytes = 4096

// frontmatterDelimiter is the standard YAML frontmatter delimiter.
const frontmatterDelimiter = "---"

// Document describes one file in the browsed tree.
type Document struct {
	// Path is relative to the store root, with forward slashes.
	Path    string
	Title   string
	Size    int64
	ModTime time.Time
}

// Name returns the base file name.
func (d Document) Name() string { return filepath.Base(d.Path) }

// frontmatter represents the YAML frontmatter of a Markdown document.
type frontmatter struct {
	Title string `yaml:"title"`
}

// Option configures a Store.
type Option func(*Store)

// WithFs reads documents from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithTracer sets the tracer for scan and load spans.
// If tracer is nil, the store keeps its default noop tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMaxBytes changes the Load size cap.
func WithMaxBytes(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// Store lists and reads documents under a root directory.
type Store struct {
	fs       afero.Fs
	root     string
	match    func(path string) bool
	maxBytes int64
	tracer   trace.Tracer
}

// New creates a Store for the documents under root accepted by match.
// A nil match accepts every file.
func New(root string, match func(path string) bool, opts ...Option) *Store {
	s := &Store{
		fs:       afero.NewOsFs(),
		root:     root,
		match:    match,
		maxBytes: DefaultMaxBytes,
		tracer:   noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the browsed directory.
func (s *Store) Root() string { return s.root }

// Scan walks the root and returns the matching documents sorted by path.
// Hidden files and directories are skipped. Unreadable subdirectories are
// logged and skipped; an unreadable root is an error.
func (s *Store) Scan(ctx context.Context) ([]Document, error) {
	_, span := s.tracer.Start(ctx, tracing.SpanPrefixDocs+"scan",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrDocPath, s.root))

	var found []Document
	err := afero.Walk(s.fs, s.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			log.Warn(log.CatDocs, "Skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if path != s.root && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		if s.match != nil && !s.match(path) {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		found = append(found, Document{
			Path:    rel,
			Title:   s.probeTitle(path, rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatDocs, "Scan failed", err, "root", s.root)
		return nil, fmt.Errorf("scanning %s: %w", s.root, err)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })

	span.SetAttributes(attribute.Int(tracing.AttrDocCount, len(found)))
	span.SetStatus(codes.Ok, "")
	log.Debug(log.CatDocs, "Scanned", "root", s.root, "count", len(found))
	return found, nil
}

// Load reads a document's text, at most the store's size cap. A leading
// YAML frontmatter block is removed.
func (s *Store) Load(ctx context.Context, doc Document) (string, error) {
	_, span := s.tracer.Start(ctx, tracing.SpanPrefixDocs+"load",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrDocPath, doc.Path))

	text, err := s.read(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatDocs, "Load failed", err, "path", doc.Path)
		return "", err
	}

	span.SetAttributes(attribute.Int(tracing.AttrDocBytes, len(text)))
	span.SetStatus(codes.Ok, "")
	return StripFrontmatter(text), nil
}

func (s *Store) read(doc Document) (string, error) {
	f, err := s.fs.Open(filepath.Join(s.root, filepath.FromSlash(doc.Path)))
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", doc.Path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", doc.Path, err)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("%s: %w", doc.Path, ErrBinary)
	}
	// The size cap may split the last rune.
	if int64(len(data)) == s.maxBytes {
		for i := 0; i < utf8.UTFMax-1 && !utf8.Valid(data); i++ {
			data = data[:len(data)-1]
		}
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", doc.Path, ErrBinary)
	}
	return string(data), nil
}

// probeTitle reads the start of a file for a title. It falls back to the
// file name.
func (s *Store) probeTitle(path, rel string) string {
	f, err := s.fs.Open(path)
	if err != nil {
		return filepath.Base(rel)
	}
	defer func() { _ = f.Close() }()

	head, _ := io.ReadAll(io.LimitReader(f, titleProbeBytes))
	if title := Title(string(head)); title != "" {
		return title
	}
	return filepath.Base(rel)
}

// Title returns the frontmatter title of content, or else the text of its
// first ATX heading. It returns "" when there is neither.
func Title(content string) string {
	if fm, ok := parseFrontmatter(content); ok && fm.Title != "" {
		return strings.TrimSpace(fm.Title)
	}

	sc := bufio.NewScanner(strings.NewReader(StripFrontmatter(content)))
	inFence := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || !strings.HasPrefix(line, "#") {
			continue
		}
		heading := strings.TrimLeft(line, "#")
		if len(line)-len(heading) > 6 || (heading != "" && heading[0] != ' ') {
			continue
		}
		if heading = strings.TrimSpace(strings.TrimRight(heading, "# ")); heading != "" {
			return heading
		}
	}
	return ""
}

// StripFrontmatter removes a leading "---" delimited frontmatter block.
// Content without a complete block is returned unchanged.
func StripFrontmatter(content string) string {
	_, body, ok := splitFrontmatter(content)
	if !ok {
		return content
	}
	return body
}

func splitFrontmatter(content string) (yamlContent, body string, ok bool) {
	if !strings.HasPrefix(content, frontmatterDelimiter+"\n") && !strings.HasPrefix(content, frontmatterDelimiter+"\r\n") {
		return "", content, false
	}
	rest := strings.TrimPrefix(content[len(frontmatterDelimiter):], "\r")
	rest = strings.TrimPrefix(rest, "\n")

	if strings.HasPrefix(rest, frontmatterDelimiter) {
		return "", trimDelimiterLine(rest[len(frontmatterDelimiter):]), true
	}
	yamlContent, after, found := strings.Cut(rest, "\n"+frontmatterDelimiter)
	if !found {
		return "", content, false
	}
	return yamlContent, trimDelimiterLine(after), true
}

// trimDelimiterLine drops the remainder of the closing delimiter line.
func trimDelimiterLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return ""
}

func parseFrontmatter(content string) (frontmatter, bool) {
	var fm frontmatter
	yamlContent, _, ok := splitFrontmatter(content)
	if !ok {
		return fm, false
	}
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return fm, false
	}
	return fm, true
}
