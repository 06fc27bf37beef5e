package exporter

import (
	"context"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/features"
)

// SheetName is the worksheet the training table is written to
const SheetName = "training"

// XLSXWriter writes the training table as an Excel workbook
type XLSXWriter struct {
	path   string
	logger *slog.Logger
}

// NewXLSXWriter creates a writer for path
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path, logger: slog.Default()}
}

// Write exports table to a single sheet with a bold, frozen header row
func (w *XLSXWriter) Write(ctx context.Context, table *features.TrainingTable) (res Result, err error) {
	start := time.Now()
	w.logger.InfoContext(ctx, "Writing XLSX file",
		slog.String("file_path", w.path),
		slog.Int("record_count", table.Len()))

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = apperrors.NewStorageError("failed to close workbook", cerr)
		}
	}()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return Result{}, apperrors.NewStorageError("failed to create sheet", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return Result{}, apperrors.NewStorageError("failed to delete default sheet", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Result{}, apperrors.NewStorageError("failed to create header style", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return Result{}, apperrors.NewStorageError("failed to create stream writer", err)
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return Result{}, apperrors.NewStorageError("failed to freeze header", err)
	}

	columns := table.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return Result{}, apperrors.NewStorageError("failed to write header", err)
	}

	for i := range table.Rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return Result{}, apperrors.NewStorageError("invalid cell", err)
		}
		if err := sw.SetRow(cell, table.Values(i)); err != nil {
			return Result{}, apperrors.NewStorageError("failed to write row", err).WithContext("row", i+2)
		}
	}

	if err := sw.Flush(); err != nil {
		return Result{}, apperrors.NewStorageError("failed to flush sheet", err)
	}
	if _, err := outputs.PrepareOutput(w.path); err != nil {
		return Result{}, apperrors.NewStorageError("failed to prepare output", err).WithContext("file", w.path)
	}
	if err := f.SaveAs(w.path); err != nil {
		return Result{}, apperrors.NewStorageError("failed to save workbook", err).WithContext("file", w.path)
	}

	return Result{
		Format:      FormatXLSX,
		Path:        w.path,
		RecordCount: table.Len(),
		Duration:    time.Since(start),
	}, nil
}
