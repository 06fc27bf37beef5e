package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/features"
	"olistcli/internal/files"
	"olistcli/internal/infrastructure"
)

// outputs prepares export paths relative to the working directory
var outputs = files.NewManager("")

// Supported output formats
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// Sink persists a training table
type Sink interface {
	Write(ctx context.Context, table *features.TrainingTable) (Result, error)
}

// Result describes a completed export
type Result struct {
	Format      string
	Path        string
	RecordCount int
	Duration    time.Duration
}

type options struct {
	bom    bool
	logger *slog.Logger
}

// Option configures a sink built by New
type Option func(*options)

// WithBOM prefixes CSV output with a UTF-8 byte order mark
func WithBOM(bom bool) Option {
	return func(o *options) { o.bom = bom }
}

// WithLogger sets the logger of the sink
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New returns the sink for format writing to path
func New(format, path string, opts ...Option) (Sink, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := infrastructure.WithComponent(o.logger, "exporter")

	if strings.TrimSpace(path) == "" {
		return nil, apperrors.NewAppValidationError("output path is required")
	}

	switch strings.ToLower(format) {
	case FormatCSV:
		w := NewCSVWriter(path, o.bom)
		w.logger = logger
		return w, nil
	case FormatXLSX:
		w := NewXLSXWriter(path)
		w.logger = logger
		return w, nil
	case FormatSQLite:
		w := NewSQLiteWriter(path)
		w.logger = logger
		return w, nil
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported output format %q", format)).
			WithContext("format", format)
	}
}
