// Package ddl renders SQLite CREATE TABLE statements from schema.TableDef.
//
// SQLite accepts the MySQL type names as declared types and applies its own
// affinity rules, so column types pass through unchanged. Identifiers are
// double-quoted and the statement carries IF NOT EXISTS.
package ddl

import (
	"fmt"
	"strings"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/schema"
)

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement:
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "col1" TYPE [NOT NULL] [DEFAULT expr],
//	  PRIMARY KEY ("pk")
//	);
//
// Dotted names ("main.patient") have each segment quoted.
func BuildCreateTableSQL(t schema.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("sqlite ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("sqlite ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 1)

	for _, c := range t.Columns {
		def, err := schema.ColumnClause(fqn, c, quoteIdent)
		if err != nil {
			return "", fmt.Errorf("sqlite ddl: %w", err)
		}
		cols = append(cols, def)
		if c.PrimaryKey {
			pks = append(pks, quoteIdent(strings.TrimSpace(c.Name)))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteFQN(fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func quoteFQN(fqn string) string {
	parts := schema.SplitFQN(fqn)
	for i, p := range parts {
		parts[i] = quoteIdent(p)
	}
	return strings.Join(parts, ".")
}
