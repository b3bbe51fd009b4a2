// Package sqltype resolves a DICOM attribute's value representation (VR) and
// value multiplicity (VM) into a MySQL-family column type.
//
// Resolution is a pure lookup over two fixed tables selected by Policy:
//
//   - Native maps each VR to the most specific relational type (numeric,
//     date, binary).
//   - StringOnly restricts output to text-family types, with lengths sized
//     for the decimal/text rendering of each value.
//
// Both tables are package-level data built once in init and never mutated, so
// Resolve is safe for concurrent use without synchronization.
package sqltype

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy selects the mapping table used by Resolve.
type Policy int

const (
	// Native maps to typed columns (INT, DATE, DOUBLE, LONGBLOB, ...).
	Native Policy = iota
	// StringOnly maps every VR to a text-family column.
	StringOnly
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case Native:
		return "native"
	case StringOnly:
		return "string"
	default:
		return "Policy(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePolicy accepts "native" or "string" (also "string_only",
// "string-only", "stringonly"), case-insensitive. An empty string yields
// Native.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return Native, nil
	case "string", "string_only", "string-only", "stringonly":
		return StringOnly, nil
	default:
		return Native, fmt.Errorf("sqltype: unknown policy %q", s)
	}
}

// Column is the resolved column type. Length is zero when the database's
// default length for Type applies.
type Column struct {
	Type   string
	Length int64
}

// HasLength reports whether the column carries an explicit length.
func (c Column) HasLength() bool { return c.Length > 0 }

// SQL renders the column type as it appears in DDL, e.g. "VARCHAR(48)" or
// "DATE".
func (c Column) SQL() string {
	if !c.HasLength() {
		return c.Type
	}
	return c.Type + "(" + strconv.FormatInt(c.Length, 10) + ")"
}

// String implements fmt.Stringer.
func (c Column) String() string { return c.SQL() }

// Type names produced by the resolver.
const (
	TypeVarchar  = "VARCHAR"
	TypeChar     = "CHAR"
	TypeDate     = "DATE"
	TypeDecimal  = "DECIMAL"
	TypeDatetime = "DATETIME"
	TypeDouble   = "DOUBLE"
	TypeFloat    = "FLOAT"
	TypeInt      = "INT"
	TypeSmallint = "SMALLINT"
	TypeBlob     = "BLOB"
	TypeLongblob = "LONGBLOB"
	TypeText     = "TEXT"
	TypeLongtext = "LONGTEXT"

	// TypeTime is the type emitted for TM. The spelling is kept as consumers
	// of the generated schema already match on it.
	TypeTime = "DATATIME"
)
