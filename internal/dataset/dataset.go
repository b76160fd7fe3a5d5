package dataset

import "fmt"

// Table holds generated rows for one table. Column order matches the
// schema's declaration order; each cell is a typed scalar or nil.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

func NewTable(name string, columns []string, rowCount int) *Table {
	rows := make([][]interface{}, rowCount)
	for i := range rows {
		rows[i] = make([]interface{}, len(columns))
	}
	return &Table{Name: name, Columns: columns, Rows: rows}
}

func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns all values of the named column in row order.
func (t *Table) Column(name string) ([]interface{}, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("table %s has no column %s", t.Name, name)
	}
	values := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// SetColumn overwrites the named column with the given values.
func (t *Table) SetColumn(name string, values []interface{}) error {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return fmt.Errorf("table %s has no column %s", t.Name, name)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("table %s: column %s has %d values for %d rows", t.Name, name, len(values), len(t.Rows))
	}
	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return nil
}

// Dataset maps table names to their generated rows. Once a table is
// added it is treated as read-only input by dependent tables.
type Dataset map[string]*Table
