package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dicom/vr"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dictionary"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/sqltype"
)

// PrimaryKeyType is the SQL type of the optional surrogate key column.
const PrimaryKeyType = "BIGINT"

// Build resolves every attribute into a column of table name under policy p.
//
// Attributes whose VM string does not parse, or that the resolver rejects
// (invalid multiplicity, OB/OF/OW/SQ, codes without a mapping) are collected
// in the returned Skipped slice rather than aborting the table. Column names
// come from ColumnName; collisions get a numeric suffix ("_2", "_3", ...).
//
// When pk is non-empty, a BIGINT NOT NULL primary key column of that name is
// placed first. Build fails only when name is empty or no column remains.
func Build(name string, attrs []dictionary.Attribute, p sqltype.Policy, pk string) (TableDef, []Skipped, error) {
	fqn := strings.TrimSpace(name)
	if fqn == "" {
		return TableDef{}, nil, fmt.Errorf("schema: missing table name")
	}

	var (
		cols    = make([]ColumnDef, 0, len(attrs)+1)
		skipped []Skipped
		used    = map[string]int{}
	)

	if pk = strings.TrimSpace(pk); pk != "" {
		cols = append(cols, ColumnDef{
			Name:       pk,
			SQLType:    PrimaryKeyType,
			PrimaryKey: true,
		})
		used[strings.ToLower(pk)] = 1
	}

	for _, a := range attrs {
		col, err := resolveAttribute(a, p)
		if err != nil {
			skipped = append(skipped, Skipped{Attribute: a, Err: err})
			continue
		}
		col.Name = uniqueName(ColumnName(a), used)
		cols = append(cols, col)
	}

	if len(cols) == 0 || (pk != "" && len(cols) == 1) {
		return TableDef{}, skipped, fmt.Errorf("schema: table %s has no resolvable columns (%d skipped)", fqn, len(skipped))
	}

	return TableDef{FQN: fqn, Policy: p, Columns: cols}, skipped, nil
}

func resolveAttribute(a dictionary.Attribute, p sqltype.Policy) (ColumnDef, error) {
	vm, err := vr.ParseVM(a.VM)
	if err != nil {
		return ColumnDef{}, err
	}
	typ, err := sqltype.Resolve(a.VR, vm, p)
	if err != nil {
		return ColumnDef{}, err
	}
	return ColumnDef{
		SQLType:  typ.SQL(),
		Nullable: true,
		Tag:      a.Tag,
		Type:     typ,
	}, nil
}

func uniqueName(base string, used map[string]int) string {
	key := strings.ToLower(base)
	n := used[key]
	used[key] = n + 1
	if n == 0 {
		return base
	}
	for {
		n++
		cand := base + "_" + strconv.Itoa(n)
		if used[strings.ToLower(cand)] == 0 {
			used[strings.ToLower(cand)] = 1
			used[key] = n
			return cand
		}
	}
}
