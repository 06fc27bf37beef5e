package dataset

import (
	"sort"
	"strings"

	apperrors "olistcli/internal/errors"
)

// utf8BOM is stripped from the first header cell of files saved by Excel
const utf8BOM = "\ufeff"

// Table is an immutable, loaded CSV file: a header and rows of raw cells.
// Cells stay strings; typed access goes through the Decode* functions.
type Table struct {
	name   string
	path   string
	header []string
	index  map[string]int
	rows   [][]string
}

// NewTable builds a table from a header and rows. Both are copied.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{
		name:   name,
		header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
		rows:   make([][]string, len(rows)),
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		t.header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	for i, row := range rows {
		t.rows[i] = append([]string(nil), row...)
	}
	return t
}

// Name returns the logical table name
func (t *Table) Name() string { return t.name }

// Path returns the file the table was loaded from, empty for in-memory tables
func (t *Table) Path() string { return t.path }

// Header returns a copy of the column names
func (t *Table) Header() []string { return append([]string(nil), t.header...) }

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.rows) }

// Row returns a copy of row i
func (t *Table) Row(i int) []string { return append([]string(nil), t.rows[i]...) }

// Column returns the index of the named column
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// value returns the cell at row i, column col; "" for absent columns or short rows
func (t *Table) value(i, col int) string {
	if col < 0 || col >= len(t.rows[i]) {
		return ""
	}
	return t.rows[i][col]
}

// Tables maps logical table names to loaded tables
type Tables map[string]*Table

// Get returns the named table or a NOT_FOUND error
func (ts Tables) Get(name string) (*Table, error) {
	t, ok := ts[name]
	if !ok {
		return nil, apperrors.NewNotFoundError("table " + name).WithContext("table", name)
	}
	return t, nil
}

// Names returns the loaded table names, sorted
func (ts Tables) Names() []string {
	names := make([]string, 0, len(ts))
	for name := range ts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
