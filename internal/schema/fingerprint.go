package schema

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Fingerprint returns a stable 16-hex-digit digest of the table's shape
// (name, column names, types, nullability, key membership and defaults). It
// changes whenever a regenerated table would need a migration.
func Fingerprint(t TableDef) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(t.FQN)))
	for _, c := range t.Columns {
		b.WriteByte(0)
		b.WriteString(c.Name)
		b.WriteByte(0)
		b.WriteString(c.SQLType)
		b.WriteByte(0)
		if c.Nullable {
			b.WriteByte('n')
		}
		if c.PrimaryKey {
			b.WriteByte('k')
		}
		b.WriteString(c.Default)
	}
	return fmt.Sprintf("%016x", xxh3.HashString(b.String()))
}
