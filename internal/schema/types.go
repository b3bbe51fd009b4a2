// Package schema builds database-agnostic table definitions from DICOM
// attribute catalogs and renders a plain CREATE TABLE statement from them.
//
// Dialect-specific renderers live next to each storage backend
// (internal/storage/<kind>/ddl) and consume the same TableDef model.
package schema

import (
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dictionary"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/sqltype"
)

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: column name (unquoted; quoting happens at render time)
//   - SQLType: rendered type, e.g. VARCHAR(384), DATE
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression
//   - Tag: source DICOM tag, empty for surrogate columns
//   - Type: resolved column type; zero for surrogate columns
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
	Tag        string
	Type       sqltype.Column
}

// TableDef holds the table name (optionally schema-qualified, e.g.
// "dicom.patient") and an ordered list of columns.
type TableDef struct {
	FQN     string
	Policy  sqltype.Policy
	Columns []ColumnDef
}

// Skipped records an attribute that could not be mapped to a column.
type Skipped struct {
	Attribute dictionary.Attribute
	Err       error
}

func (s Skipped) Error() string {
	return s.Attribute.Tag + " " + s.Attribute.Keyword + ": " + s.Err.Error()
}

func (s Skipped) Unwrap() error { return s.Err }
