package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/features"
)

// utf8BOM helps Excel recognise UTF-8 CSV files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes the training table as a CSV file
type CSVWriter struct {
	path   string
	bom    bool
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(path string, bom bool) *CSVWriter {
	return &CSVWriter{path: path, bom: bom, logger: slog.Default()}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   func(yield func([]string) error) error
	BOMPrefix bool
}

// Write exports table with a header row
func (w *CSVWriter) Write(ctx context.Context, table *features.TrainingTable) (Result, error) {
	start := time.Now()
	err := w.WriteCSV(ctx, WriteOptions{
		Headers:   table.Columns(),
		BOMPrefix: w.bom,
		Records: func(yield func([]string) error) error {
			for i := range table.Rows {
				if err := yield(formatRecord(table, i)); err != nil {
					return err
				}
			}
			return nil
		},
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Format:      FormatCSV,
		Path:        w.path,
		RecordCount: table.Len(),
		Duration:    time.Since(start),
	}, nil
}

// WriteCSV writes data to the CSV file with the given options
func (w *CSVWriter) WriteCSV(ctx context.Context, options WriteOptions) error {
	w.logger.InfoContext(ctx, "Writing CSV file",
		slog.String("file_path", w.path))

	if _, err := outputs.PrepareOutput(w.path); err != nil {
		return apperrors.NewStorageError("failed to prepare output", err).WithContext("file", w.path)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return apperrors.NewStorageError("failed to open file", err).WithContext("file", w.path)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err).WithContext("file", w.path)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write headers", err).WithContext("file", w.path)
		}
	}

	if options.Records != nil {
		n := 0
		err := options.Records(func(record []string) error {
			if n%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			n++
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write record %d: %w", n, err)
			}
			return nil
		})
		if err != nil {
			return apperrors.NewStorageError("failed to write records", err).WithContext("file", w.path)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush CSV", err).WithContext("file", w.path)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError("failed to close file", err).WithContext("file", w.path)
	}
	return nil
}
