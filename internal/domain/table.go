package domain

import "fmt"

// Column names used by the pipelines. Every other column is passed through untouched.
const (
	ColTimestamp   = "data_hora"
	ColLatitude    = "latitude"
	ColLongitude   = "longitude"
	ColYear        = "ano"
	ColGeometry    = "geometry"
	ColQuarterYear = "trimestre_ano"
)

// Table is an in-memory occurrence table: a header row and text cells.
// Transform functions never modify a Table they receive; they return a new one.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable builds a Table from a header and rows, copying both.
func NewTable(header []string, rows [][]string) Table {
	t := Table{
		Header: append([]string(nil), header...),
		Rows:   make([][]string, len(rows)),
	}
	for i, row := range rows {
		t.Rows[i] = append([]string(nil), row...)
	}
	return t
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column.
func (t Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
}

// HasColumn reports whether the named column exists.
func (t Table) HasColumn(name string) bool {
	_, err := t.ColumnIndex(name)
	return err == nil
}

// Column returns a copy of every cell in the named column.
func (t Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = cell(row, idx)
	}
	return values, nil
}

// filter returns a new table holding copies of the rows for which keep is true.
func (t Table) filter(keep func(i int, row []string) bool) Table {
	out := Table{Header: append([]string(nil), t.Header...)}
	for i, row := range t.Rows {
		if keep(i, row) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}

// withColumn returns a new table with name appended and values[i] added to row i.
func (t Table) withColumn(name string, values []string) Table {
	out := Table{
		Header: append(append([]string(nil), t.Header...), name),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		r := make([]string, 0, len(row)+1)
		r = append(r, row...)
		out.Rows[i] = append(r, values[i])
	}
	return out
}

// cell returns row[idx], or "" for short rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// padded returns a copy of row extended with empty cells up to n columns.
func padded(row []string, n int) []string {
	r := make([]string, max(n, len(row)))
	copy(r, row)
	return r
}
