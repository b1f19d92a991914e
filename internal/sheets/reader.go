// Package sheets reads tabular seed files (.xlsx or .csv) into a header-keyed table.
package sheets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv
var ErrUnsupportedFormat = errors.New("unsupported seed file format")

// Table is a header row plus data rows. Column lookups ignore case, spaces
// and underscores, so "EMIs paid on Time" matches "emis_paid_on_time".
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

func newTable(records [][]string) *Table {
	t := &Table{index: make(map[string]int)}
	if len(records) == 0 {
		return t
	}
	t.Header = records[0]
	for i, h := range t.Header {
		key := NormalizeHeader(h)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	for _, row := range records[1:] {
		if !isBlank(row) {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// NormalizeHeader lowercases and strips spaces and underscores
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	return strings.ReplaceAll(h, "_", "")
}

// Has reports whether the table has a column under any of the given names
func (t *Table) Has(names ...string) bool {
	_, ok := t.column(names)
	return ok
}

func (t *Table) column(names []string) (int, bool) {
	for _, name := range names {
		if i, ok := t.index[NormalizeHeader(name)]; ok {
			return i, true
		}
	}
	return 0, false
}

// Missing returns, for each required column without a match under any of its
// names, the first name of that column.
func (t *Table) Missing(required ...[]string) []string {
	var missing []string
	for _, names := range required {
		if len(names) > 0 && !t.Has(names...) {
			missing = append(missing, names[0])
		}
	}
	return missing
}

// Value returns the trimmed cell of row under the first matching column name,
// or "" when no such column exists or the row is short.
func (t *Table) Value(row []string, names ...string) string {
	i, ok := t.column(names)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Read picks the parser from the extension of name
func Read(r io.Reader, name string) (*Table, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// ReadXLSX reads the first sheet. Cells are returned raw, so dates come back
// as serial day numbers rather than display strings.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return newTable(rows), nil
}

// ReadCSV reads a comma separated file with a header row
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading csv: %w", err)
	}
	return newTable(records), nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
