// Package config provides configuration types and defaults for glance.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/glance/internal/log"
)

// ErrInvalidConfig is wrapped by every Validate error.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration options for glance.
type Config struct {
	Path        string          `mapstructure:"path"`         // Directory to browse (default: current directory)
	AutoRefresh bool            `mapstructure:"auto_refresh"` // Rescan when files change
	Extensions  []string        `mapstructure:"extensions"`   // File extensions listed, with leading dot
	UI          UIConfig        `mapstructure:"ui"`
	Scrollbar   ScrollbarConfig `mapstructure:"scrollbar"`
	Tracing     TracingConfig   `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle     string `mapstructure:"markdown_style"`     // glamour style name or path to a JSON style
	MarkdownRendering bool   `mapstructure:"markdown_rendering"` // Render markdown files, or show them as plain text
	AmbiguousWide     bool   `mapstructure:"ambiguous_wide"`     // Treat East Asian ambiguous characters as wide
	ListWidth         int    `mapstructure:"list_width"`         // Document list width; 0 sizes it to the longest name
	ListScrollbar     bool   `mapstructure:"list_scrollbar"`     // Draw a scrollbar on the document list
	StickToBottom     bool   `mapstructure:"stick_to_bottom"`    // Keep the log pane scrolled to the newest line
}

// ScrollbarConfig holds the scrollbar cell characters.
// A space draws a colored block.
type ScrollbarConfig struct {
	TrackChar string `mapstructure:"track_char"`
	ThumbChar string `mapstructure:"thumb_char"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether layout and document spans are exported.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/glance/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultExtensions returns the file extensions listed by default.
func DefaultExtensions() []string {
	return []string{".md", ".markdown", ".txt"}
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/glance/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "glance", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoRefresh: true,
		Extensions:  DefaultExtensions(),
		UI: UIConfig{
			MarkdownStyle:     "dark",
			MarkdownRendering: true,
			ListScrollbar:     true,
			StickToBottom:     true,
		},
		Scrollbar: ScrollbarConfig{
			TrackChar: " ",
			ThumbChar: " ",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the whole configuration. Empty values are valid and
// fall back to defaults.
func (c Config) Validate() error {
	if err := ValidateExtensions(c.Extensions); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateScrollbar(c.Scrollbar); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateExtensions checks that every extension starts with a dot.
func ValidateExtensions(exts []string) error {
	for i, ext := range exts {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extensions[%d] must start with \".\", got %q", ErrInvalidConfig, i, ext)
		}
	}
	return nil
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(ui UIConfig) error {
	if ui.ListWidth < 0 {
		return fmt.Errorf("%w: ui.list_width must not be negative, got %d", ErrInvalidConfig, ui.ListWidth)
	}
	return nil
}

// ValidateScrollbar checks that each scrollbar character is a single
// printable rune. Empty values use the defaults.
func ValidateScrollbar(sb ScrollbarConfig) error {
	check := func(name, v string) error {
		if v == "" {
			return nil
		}
		if r := []rune(v); len(r) != 1 || r[0] < ' ' {
			return fmt.Errorf("%w: scrollbar.%s must be a single character, got %q", ErrInvalidConfig, name, v)
		}
		return nil
	}
	if err := check("track_char", sb.TrackChar); err != nil {
		return err
	}
	return check("thumb_char", sb.ThumbChar)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("%w: tracing.sample_rate must be between 0.0 and 1.0, got %v", ErrInvalidConfig, tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("%w: tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", ErrInvalidConfig, tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("%w: tracing.file_path is required when exporter is \"file\"", ErrInvalidConfig)
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("%w: tracing.otlp_endpoint is required when exporter is \"otlp\"", ErrInvalidConfig)
		}
	}

	return nil
}

// HasExtension reports whether path ends in one of the configured
// extensions, ignoring case. An empty list uses DefaultExtensions.
func (c Config) HasExtension(path string) bool {
	exts := c.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// IsMarkdown reports whether path should be rendered as Markdown.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	}
	return false
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Glance Configuration

# Directory to browse (default: current directory)
# path: /path/to/docs

# Rescan the directory when files change
auto_refresh: true

# File extensions shown in the document list
extensions:
  - .md
  - .markdown
  - .txt

# UI settings
ui:
  markdown_style: dark      # glamour style: dark, light, notty, dracula, ... or a path to a JSON style
  markdown_rendering: true  # Render markdown documents (toggle with "m")
  ambiguous_wide: false     # Treat East Asian ambiguous-width characters as two columns
  list_width: 0             # Document list width in columns (0 = fit the longest name)
  list_scrollbar: true      # Draw a scrollbar on the document list
  stick_to_bottom: true     # Keep the log pane (ctrl+x, debug mode) at the newest line

# Scrollbar characters (a space draws a colored block)
scrollbar:
  track_char: " "
  thumb_char: " "

# Distributed tracing configuration
# Records a span for every layout recompute and document load
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/glance/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
