package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"olistcli/internal/features"
)

func TestXLSXWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "training.xlsx")
	table := sampleTable(true)

	result, err := NewXLSXWriter(path).Write(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, result.Format)
	assert.Equal(t, 2, result.RecordCount)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Columns(), rows[0])
	assert.Equal(t, "o2", rows[2][0])
	assert.Equal(t, "1.5", rows[2][1])
	assert.Equal(t, "400", rows[2][12])

	cellType, err := f.GetCellType(SheetName, "L2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType, "numbers are stored as numbers")
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)
}

func TestXLSXWriter_EmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "training.xlsx")

	result, err := NewXLSXWriter(path).Write(context.Background(), &features.TrainingTable{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.RecordCount)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 12)
}
