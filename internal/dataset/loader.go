package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"olistcli/internal/config"
	apperrors "olistcli/internal/errors"
	"olistcli/internal/files"
	"olistcli/internal/infrastructure"
)

// DefaultConcurrency bounds how many files are read at once
const DefaultConcurrency = 4

// Loader reads every CSV file of a directory into a Tables mapping
type Loader struct {
	Dir         string
	Prefix      string
	Suffixes    []string
	Concurrency int

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *infrastructure.PipelineMetrics
}

// NewLoader creates a loader from the data section of the configuration
func NewLoader(cfg config.DataConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		Dir:         cfg.Dir,
		Prefix:      cfg.FilePrefix,
		Suffixes:    cfg.FileSuffixes,
		Concurrency: cfg.Concurrency,
		Logger:      infrastructure.WithComponent(logger, "loader"),
	}
}

// Load discovers and parses all CSV files of the directory.
//
// Files are read in parallel but assembled in discovery (lexical) order, so
// when two files map to the same logical name the later file wins. The
// collision is logged, not resolved.
func (l *Loader) Load(ctx context.Context) (tables Tables, err error) {
	start := time.Now()
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, span := infrastructure.StartSpan(ctx, l.Tracer, "dataset.load",
		attribute.String("dir", l.Dir))
	defer func() { infrastructure.EndSpan(span, err) }()

	found, err := files.NewDiscovery("").FindCSVFiles(l.Dir)
	if err != nil {
		return nil, apperrors.NewFileAccessError("failed to list data directory", err).
			WithContext("dir", l.Dir)
	}

	logger.InfoContext(ctx, "found CSV files",
		slog.String("dir", l.Dir),
		slog.Int("count", len(found)))

	limit := l.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	loaded := make([]*Table, len(found))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, f := range found {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := files.TableName(f.Name, l.Prefix, l.Suffixes)
			t, err := ReadTable(name, f.Path)
			if err != nil {
				return err
			}
			loaded[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("load cancelled: %w", ctxErr)
		}
		return nil, err
	}

	tables = make(Tables, len(loaded))
	for _, t := range loaded {
		if prev, ok := tables[t.Name()]; ok {
			logger.WarnContext(ctx, "table name collision, last file wins",
				slog.String("table", t.Name()),
				slog.String("replaced", prev.Path()),
				slog.String("file", t.Path()))
		}
		tables[t.Name()] = t
		l.Metrics.RecordTable(ctx, t.Name(), t.Len())
		logger.DebugContext(ctx, "loaded table",
			slog.String("table", t.Name()),
			slog.String("file", t.Path()),
			slog.Int("rows", t.Len()),
			slog.Int("columns", len(t.header)))
	}

	logger.InfoContext(ctx, "data loading completed",
		slog.Int("tables", len(tables)),
		slog.Duration("duration", time.Since(start)))

	return tables, nil
}

// ReadTable parses one CSV file with a header row. Every row must have as
// many fields as the header.
func ReadTable(name, path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewFileAccessError("failed to open CSV file", err).
			WithContext("file", path)
	}
	defer file.Close()

	t, err := readCSV(name, bufio.NewReader(file))
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("file", path)
		}
		return nil, err
	}
	t.path = path
	return t, nil
}

// readCSV parses CSV content from r into a table
func readCSV(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewParsingError("missing header row", nil).
			WithContext("table", name)
	}
	if err != nil {
		return nil, csvParseError(name, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvParseError(name, err)
		}
		rows = append(rows, record)
	}

	return NewTable(name, header, rows), nil
}

// csvParseError wraps a csv reader error, keeping its line number
func csvParseError(name string, err error) error {
	appErr := apperrors.NewParsingError("malformed CSV content", err).WithContext("table", name)
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		appErr.WithContext("line", pe.Line)
	}
	return appErr
}
