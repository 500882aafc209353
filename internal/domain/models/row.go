package models

// Field is one named cell of a row bound for a remote store.
type Field struct {
	Column string
	Value  interface{}
}

// Row is an ordered list of fields. Columns and values travel together so that
// a store can never receive a header and a value list in different orders.
type Row []Field

// Columns returns the column names in row order.
func (r Row) Columns() []string {
	cols := make([]string, len(r))
	for i, f := range r {
		cols[i] = f.Column
	}
	return cols
}

// Values returns the cell values in row order.
func (r Row) Values() []interface{} {
	values := make([]interface{}, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Table is the read shape of a remote store: a header plus string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len reports the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i for the named column, or "" when either is
// missing. Short rows are common when trailing sheet cells are blank.
func (t Table) Cell(i int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) || idx >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][idx]
}

// Reversed returns a copy of the table with data rows in reverse order.
func (t Table) Reversed() Table {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[len(t.Rows)-1-i] = row
	}
	return Table{Columns: append([]string(nil), t.Columns...), Rows: rows}
}
