package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/schema"
)

// DDLBuilder renders a backend-specific CREATE TABLE statement for a table
// definition. Backends register one per storage kind at init time.
type DDLBuilder func(t schema.TableDef) (string, error)

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBuilder{}
)

// RegisterDDL registers (or replaces) the DDLBuilder for kind.
func RegisterDDL(kind string, fn DDLBuilder) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// BuildDDL renders t with the builder registered for kind. The kind
// "generic" always resolves to schema.BuildCreateTableSQL.
func BuildDDL(kind string, t schema.TableDef) (string, error) {
	if kind == "generic" {
		return schema.BuildCreateTableSQL(t)
	}
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("storage: no DDL builder registered for kind=%q", kind)
	}
	return fn(t)
}

// EnsureTable renders t for kind and executes it via repo. Builders emit
// IF NOT EXISTS guards, so calling it repeatedly for the same table is safe.
func EnsureTable(ctx context.Context, kind string, repo Repository, t schema.TableDef) error {
	stmt, err := BuildDDL(kind, t)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("storage: create %s: %w", t.FQN, err)
	}
	return nil
}
