package tracing

// Span attribute keys used by glance.
const (
	// Layout attributes
	AttrLayoutMode      = "layout.mode"
	AttrLayoutWidth     = "layout.width"
	AttrLayoutLines     = "layout.lines"
	AttrLayoutTextBytes = "layout.text_bytes"

	// Document attributes
	AttrDocPath  = "doc.path"
	AttrDocBytes = "doc.bytes"
	AttrDocCount = "doc.count"

	// Markdown attributes
	AttrMarkdownStyle = "markdown.style"
)

// Span name prefixes for consistent naming.
const (
	SpanPrefixLayout   = "layout."
	SpanPrefixMarkdown = "markdown."
	SpanPrefixDocs     = "docs."
)
