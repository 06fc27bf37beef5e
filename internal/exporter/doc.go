// Package exporter writes the training table to a sink.
//
// Three sinks are available, chosen by format with New:
//
// CSVWriter: header row plus one record per order, with an optional UTF-8
// BOM so Excel recognises the encoding.
//
// XLSXWriter: a single "training" sheet written with the excelize stream
// writer, numbers stored as numeric cells.
//
// SQLiteWriter: a training_rows table managed by gorm. Each run replaces
// the rows of the previous one.
//
// Example usage:
//
//	sink, err := exporter.New(exporter.FormatCSV, "reports/training.csv", exporter.WithBOM(true))
//	if err != nil {
//		return err
//	}
//	result, err := sink.Write(ctx, table)
package exporter
