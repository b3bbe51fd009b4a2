// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc.org/sqlite driver. It is the
// zero-infrastructure target for trying generated schemas locally.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/schema"
)

// Config holds SQLite repository configuration.
type Config struct {
	DSN string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens a SQLite database. The pool is limited to one connection so
// ":memory:" databases are shared by every statement.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// New wraps an already opened database.
func New(db *sql.DB) *Repository { return &Repository{db: db} }

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
//
// DSN is passed directly to database/sql; for example:
//
//	"file:dicom.db?_pragma=foreign_keys(1)"
//	":memory:"
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := Open(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { _ = db.Close() }
	return New(db), closeFn, nil
}

// Exec runs a single statement.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Column is one row of PRAGMA table_info.
type Column struct {
	Name    string
	SQLType string
	NotNull bool
	PK      bool
}

// Columns lists the columns of fqn in declaration order. A "schema.table"
// name reads the table from the attached database of that name.
func (r *Repository) Columns(ctx context.Context, fqn string) ([]Column, error) {
	query, args := `SELECT name, type, "notnull", pk FROM pragma_table_info(?)`, []any{fqn}
	if parts := schema.SplitFQN(fqn); len(parts) == 2 {
		query, args = `SELECT name, type, "notnull", pk FROM pragma_table_info(?, ?)`, []any{parts[1], parts[0]}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: table_info %s: %w", fqn, err)
	}
	defer rows.Close()

	var out []Column
	for rows.Next() {
		var (
			c       Column
			notNull int
			pk      int
		)
		if err := rows.Scan(&c.Name, &c.SQLType, &notNull, &pk); err != nil {
			return nil, fmt.Errorf("sqlite: scan table_info: %w", err)
		}
		c.NotNull = notNull != 0
		c.PK = pk > 0
		out = append(out, c)
	}
	return out, rows.Err()
}

// ColumnTypes implements storage.Describer on top of Columns.
func (r *Repository) ColumnTypes(ctx context.Context, fqn string) (map[string]string, error) {
	cols, err := r.Columns(ctx, fqn)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(cols))
	for _, c := range cols {
		out[c.Name] = c.SQLType
	}
	return out, nil
}
