// Package ddl renders MySQL CREATE TABLE statements from schema.TableDef.
//
// The builder here:
//   - Quotes identifiers with backticks: `db`.`table`, `col`.
//   - Emits CREATE TABLE IF NOT EXISTS.
//   - Adds the source DICOM tag as a column COMMENT.
//   - Appends InnoDB/utf8mb4 table options.
package ddl

import (
	"fmt"
	"strings"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/schema"
)

// TableOptions is appended after the closing parenthesis.
const TableOptions = "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

// BuildCreateTableSQL returns a MySQL CREATE TABLE statement of the form:
//
//	CREATE TABLE IF NOT EXISTS `db`.`table` (
//	  `col1` TYPE [NOT NULL] [DEFAULT expr] [COMMENT '(gggg,eeee)'],
//	  PRIMARY KEY (`pk`)
//	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
func BuildCreateTableSQL(t schema.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("mysql ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("mysql ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 1)

	for _, c := range t.Columns {
		def, err := schema.ColumnClause(fqn, c, quoteIdent)
		if err != nil {
			return "", fmt.Errorf("mysql ddl: %w", err)
		}
		if c.Tag != "" {
			def += " COMMENT " + quoteString(c.Tag)
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
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n) %s;",
		quoteFQN(fqn),
		strings.Join(cols, ",\n  "),
		TableOptions,
	), nil
}

func quoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

func quoteFQN(fqn string) string {
	parts := schema.SplitFQN(fqn)
	for i, p := range parts {
		parts[i] = quoteIdent(p)
	}
	return strings.Join(parts, ".")
}

func quoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
