package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindCSVFiles(t *testing.T) {
	tests := []struct {
		name          string
		files         []string
		expectedNames []string
	}{
		{
			name:          "only CSV files",
			files:         []string{"olist_orders_dataset.csv", "olist_sellers_dataset.csv"},
			expectedNames: []string{"olist_orders_dataset.csv", "olist_sellers_dataset.csv"},
		},
		{
			name:          "mixed file types",
			files:         []string{"orders.csv", "notes.txt", "report.xlsx", ".keep"},
			expectedNames: []string{"orders.csv"},
		},
		{
			name:          "upper case extension",
			files:         []string{"GEO.CSV"},
			expectedNames: []string{"GEO.CSV"},
		},
		{
			name:          "lexical order",
			files:         []string{"c.csv", "a.csv", "b.csv"},
			expectedNames: []string{"a.csv", "b.csv", "c.csv"},
		},
		{
			name:  "empty directory",
			files: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			discovery := NewDiscovery(tmpDir)

			require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "csv", "nested.csv"), 0755))
			for _, filename := range tt.files {
				err := os.WriteFile(filepath.Join(tmpDir, "csv", filename), []byte("a,b\n"), 0644)
				require.NoError(t, err)
			}

			found, err := discovery.FindCSVFiles("csv")
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(tmpDir, "csv", f.Name), f.Path)
				assert.Equal(t, int64(4), f.Size)
			}
			assert.Equal(t, tt.expectedNames, names, "directories named *.csv are skipped")
		})
	}
}

func TestFindCSVFiles_AbsoluteDir(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "x.csv"), nil, 0644))

	found, err := NewDiscovery("/ignored").FindCSVFiles(tmpDir)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "x.csv", found[0].Name)
}

func TestFindCSVFiles_MissingDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindCSVFiles("does-not-exist")
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTableName(t *testing.T) {
	suffixes := []string{"_dataset.csv", ".csv"}
	tests := []struct {
		fileName string
		want     string
	}{
		{"olist_orders_dataset.csv", "orders"},
		{"olist_order_items_dataset.csv", "order_items"},
		{"olist_geolocation_dataset.csv", "geolocation"},
		{"product_category_name_translation.csv", "product_category_name_translation"},
		{"olist_custom.csv", "custom"},
		{"orders", "orders"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			assert.Equal(t, tt.want, TableName(tt.fileName, "olist_", suffixes))
		})
	}
}
