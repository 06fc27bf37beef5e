package exporter

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "olistcli/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		format   string
		wantType any
	}{
		{format: "csv", wantType: &CSVWriter{}},
		{format: "CSV", wantType: &CSVWriter{}},
		{format: "xlsx", wantType: &XLSXWriter{}},
		{format: "sqlite", wantType: &SQLiteWriter{}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			sink, err := New(tt.format, filepath.Join(t.TempDir(), "out"))
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, sink)
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New("parquet", "out.parquet")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	_, err = New("csv", " ")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestNew_Options(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	path := filepath.Join(t.TempDir(), "training.csv")

	sink, err := New(FormatCSV, path, WithBOM(true), WithLogger(logger))
	require.NoError(t, err)

	w, ok := sink.(*CSVWriter)
	require.True(t, ok)
	assert.True(t, w.bom)

	_, err = sink.Write(context.Background(), sampleTable(false))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"component":"exporter"`)
}
