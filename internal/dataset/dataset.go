// Package dataset loads, mutates, and persists the tabular coordinate
// datasets the enrichment pass runs over. XLSX and CSV are supported,
// dispatched on file extension.
package dataset

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Dataset is an ordered sequence of rows under a fixed column schema. Row
// identity is positional and stable for the life of the run; rows are never
// added or removed, only cell values change.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// Load reads a dataset from path, dispatching on the file extension.
func Load(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".csv":
		return loadCSV(path)
	default:
		return nil, eris.Errorf("dataset: unsupported file extension %q", filepath.Ext(path))
	}
}

// Save writes the full dataset to path, dispatching on the file extension.
func (d *Dataset) Save(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return d.saveXLSX(path)
	case ".csv":
		return d.saveCSV(path)
	default:
		return eris.Errorf("dataset: unsupported file extension %q", filepath.Ext(path))
	}
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex returns the index of the named column.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, col := range d.Columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

// AddColumn appends an empty column and returns its index.
func (d *Dataset) AddColumn(name string) int {
	d.Columns = append(d.Columns, name)
	for i := range d.Rows {
		d.Rows[i] = append(d.Rows[i], "")
	}
	return len(d.Columns) - 1
}

// Cell returns the value at (row, col).
func (d *Dataset) Cell(row, col int) string {
	return d.Rows[row][col]
}

// SetCell sets the value at (row, col).
func (d *Dataset) SetCell(row, col int, value string) {
	d.Rows[row][col] = value
}

// SetColumn assigns the whole column in one block, one value per row.
func (d *Dataset) SetColumn(col int, values []string) error {
	if len(values) != len(d.Rows) {
		return eris.Errorf("dataset: column assignment length %d does not match %d rows", len(values), len(d.Rows))
	}
	for i, v := range values {
		d.Rows[i][col] = v
	}
	return nil
}

// NormalizeColumn rewrites every cell of the column into the uniform
// optional-string representation: trimmed, placeholder markers blanked, and
// spreadsheet float artifacts like "110001.0" reduced to "110001".
func (d *Dataset) NormalizeColumn(col int) {
	for i := range d.Rows {
		d.Rows[i][col] = normalizeValue(d.Rows[i][col])
	}
}

func normalizeValue(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return ""
	}
	// Numeric cells read back from spreadsheets may carry a float suffix.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && f == math.Trunc(f) {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return s
}

// padRows extends short rows so every row has one cell per column.
func padRows(columns []string, rows [][]string) [][]string {
	for i := range rows {
		for len(rows[i]) < len(columns) {
			rows[i] = append(rows[i], "")
		}
	}
	return rows
}
