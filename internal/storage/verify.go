package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/schema"
)

// Describer is implemented by repositories that can list the columns of an
// existing table. Keys are column names, values the database-reported type.
type Describer interface {
	ColumnTypes(ctx context.Context, fqn string) (map[string]string, error)
}

// Drift lists column differences between a TableDef and the live table.
// Names are compared case-insensitively; types are not compared because
// servers report them in their own canonical spelling (decimal(16,0)).
type Drift struct {
	Missing []string // declared by the TableDef, absent from the table
	Extra   []string // present in the table, not declared
}

// Empty reports whether the live table has exactly the declared columns.
func (d Drift) Empty() bool { return len(d.Missing) == 0 && len(d.Extra) == 0 }

func (d Drift) String() string {
	return fmt.Sprintf("missing=%v extra=%v", d.Missing, d.Extra)
}

// VerifyTable compares t with the table repo holds under the same name.
// Because EnsureTable uses IF NOT EXISTS, a table left by an earlier run with
// another shape is kept as is; VerifyTable is how that shows up. ok is false
// when repo cannot describe tables.
func VerifyTable(ctx context.Context, repo Repository, t schema.TableDef) (d Drift, ok bool, err error) {
	desc, ok := repo.(Describer)
	if !ok {
		return Drift{}, false, nil
	}
	live, err := desc.ColumnTypes(ctx, t.FQN)
	if err != nil {
		return Drift{}, true, fmt.Errorf("storage: describe %s: %w", t.FQN, err)
	}
	if len(live) == 0 {
		return Drift{}, true, fmt.Errorf("storage: table %s not found after create", t.FQN)
	}

	have := make(map[string]bool, len(live))
	for name := range live {
		have[strings.ToLower(name)] = true
	}
	declared := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		declared[name] = true
		if !have[name] {
			d.Missing = append(d.Missing, name)
		}
	}
	for name := range have {
		if !declared[name] {
			d.Extra = append(d.Extra, name)
		}
	}
	sort.Strings(d.Extra)
	return d, true, nil
}
