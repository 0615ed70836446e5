package tracing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
)

// FileExporter writes spans as JSON to a file, one span object per export
// record. The file is closed on Shutdown.
type FileExporter struct {
	*stdouttrace.Exporter
	file *os.File
}

// NewFileExporter creates an exporter appending to path. Parent
// directories are created automatically.
func NewFileExporter(path string) (*FileExporter, error) {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}

	file, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 -- path is cleaned above
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("create file exporter: %w", err)
	}
	return &FileExporter{Exporter: exp, file: file}, nil
}

// Shutdown flushes the exporter and closes the file.
func (e *FileExporter) Shutdown(ctx context.Context) error {
	err := e.Exporter.Shutdown(ctx)
	if e.file != nil {
		if cerr := e.file.Close(); err == nil {
			err = cerr
		}
		e.file = nil
	}
	return err
}
