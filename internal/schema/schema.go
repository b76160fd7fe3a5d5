package schema

import "fmt"

// Column describes a single table column. Type is the raw declared type
// (e.g. "VARCHAR(100)"); generation infers a type family from it.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  interface{}
	Check    string
	Unique   bool
}

// PrimaryKey is an ordered set of column names. A table has at most one.
type PrimaryKey struct {
	Columns []string
}

// ForeignKey links local columns to columns of a referenced table.
// Local and referenced column lists must have the same arity.
type ForeignKey struct {
	Columns           []string
	ReferencesTable   string
	ReferencesColumns []string
	OnDelete          string
	OnUpdate          string
}

// CheckConstraint keeps the raw expression plus the columns it nominally
// restricts. It is mined for IN (...) value lists, never evaluated.
type CheckConstraint struct {
	Expression string
	Columns    []string
}

// UniqueConstraint is an ordered set of columns that must jointly be unique.
type UniqueConstraint struct {
	Columns []string
}

type TableSchema struct {
	Name              string
	Columns           []Column
	PrimaryKey        *PrimaryKey
	ForeignKeys       []ForeignKey
	CheckConstraints  []CheckConstraint
	UniqueConstraints []UniqueConstraint
}

// GetColumn returns the column with the given name, or nil.
func (t *TableSchema) GetColumn(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns column names in declaration order.
func (t *TableSchema) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// NotNullColumns returns the names of all NOT NULL columns.
func (t *TableSchema) NotNullColumns() []string {
	var names []string
	for _, col := range t.Columns {
		if !col.Nullable {
			names = append(names, col.Name)
		}
	}
	return names
}

// UniqueColumns returns every column requiring uniqueness: the union of
// column-level unique flags and declared unique constraints, in
// declaration order without duplicates.
func (t *TableSchema) UniqueColumns() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, col := range t.Columns {
		if col.Unique {
			add(col.Name)
		}
	}
	for _, uc := range t.UniqueConstraints {
		for _, name := range uc.Columns {
			add(name)
		}
	}
	return names
}

// ForeignKeyFor returns the foreign key covering the named column, or nil.
func (t *TableSchema) ForeignKeyFor(columnName string) *ForeignKey {
	for i := range t.ForeignKeys {
		for _, col := range t.ForeignKeys[i].Columns {
			if col == columnName {
				return &t.ForeignKeys[i]
			}
		}
	}
	return nil
}

// DatabaseSchema is the read-only schema model the whole pipeline consumes.
// It is built once by an adapter (SQL DDL parser or caller code).
type DatabaseSchema struct {
	Tables  map[string]*TableSchema
	Dialect string
}

func NewDatabaseSchema(dialect string) *DatabaseSchema {
	if dialect == "" {
		dialect = "postgresql"
	}
	return &DatabaseSchema{
		Tables:  make(map[string]*TableSchema),
		Dialect: dialect,
	}
}

func (s *DatabaseSchema) AddTable(table *TableSchema) {
	s.Tables[table.Name] = table
}

func (s *DatabaseSchema) GetTable(name string) *TableSchema {
	return s.Tables[name]
}

// SchemaError reports an inconsistency that makes referentially
// meaningful generation impossible. Raised before any row is generated.
type SchemaError struct {
	Table  string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema inconsistency in table %s: %s", e.Table, e.Detail)
}

// Validate checks structural consistency: FK arity, FK targets existing
// tables and columns, PK names existing columns.
func (s *DatabaseSchema) Validate() error {
	for name, table := range s.Tables {
		if table.PrimaryKey != nil {
			for _, col := range table.PrimaryKey.Columns {
				if table.GetColumn(col) == nil {
					return &SchemaError{Table: name, Detail: fmt.Sprintf("primary key references unknown column %s", col)}
				}
			}
		}
		for _, fk := range table.ForeignKeys {
			if len(fk.Columns) != len(fk.ReferencesColumns) {
				return &SchemaError{Table: name, Detail: fmt.Sprintf("foreign key arity mismatch: %d local columns vs %d referenced", len(fk.Columns), len(fk.ReferencesColumns))}
			}
			for _, col := range fk.Columns {
				if table.GetColumn(col) == nil {
					return &SchemaError{Table: name, Detail: fmt.Sprintf("foreign key references unknown local column %s", col)}
				}
			}
			parent := s.GetTable(fk.ReferencesTable)
			if parent == nil {
				return &SchemaError{Table: name, Detail: fmt.Sprintf("foreign key references unknown table %s", fk.ReferencesTable)}
			}
			for _, col := range fk.ReferencesColumns {
				if parent.GetColumn(col) == nil {
					return &SchemaError{Table: name, Detail: fmt.Sprintf("foreign key references unknown column %s.%s", fk.ReferencesTable, col)}
				}
			}
		}
	}
	return nil
}
