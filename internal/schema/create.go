package schema

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a generic CREATE TABLE statement from a TableDef.
//
// It does not quote identifiers and does not add dialect-specific clauses such
// as IF NOT EXISTS; backend packages wrap or replace it. A column is rendered
// as
//
//	<Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
// and primary key columns are collected into a trailing PRIMARY KEY clause.
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 1)

	for _, c := range t.Columns {
		def, err := ColumnClause(fqn, c, func(s string) string { return s })
		if err != nil {
			return "", fmt.Errorf("ddl: %w", err)
		}
		cols = append(cols, def)
		if c.PrimaryKey {
			pks = append(pks, strings.TrimSpace(c.Name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		fqn,
		strings.Join(cols, ",\n  "),
	), nil
}

// ColumnClause renders "<quoted name> <type> [NOT NULL] [DEFAULT expr]" for
// one column. Dialect renderers pass their own quote function.
func ColumnClause(table string, c ColumnDef, quote func(string) string) (string, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return "", fmt.Errorf("column with empty name in table %s", table)
	}
	typ := strings.TrimSpace(c.SQLType)
	if typ == "" {
		return "", fmt.Errorf("column %s missing SQLType", name)
	}

	var sb strings.Builder
	sb.WriteString(quote(name))
	sb.WriteByte(' ')
	sb.WriteString(typ)

	if !c.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if def := strings.TrimSpace(c.Default); def != "" {
		sb.WriteString(" DEFAULT ")
		// Default is emitted as a raw SQL expression.
		sb.WriteString(def)
	}
	return sb.String(), nil
}

// SplitFQN splits "schema.table" into trimmed, non-empty parts.
func SplitFQN(fqn string) []string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
