// Package mysql implements a MySQL-backed storage.Repository on top of
// database/sql and github.com/go-sql-driver/mysql. It only runs DDL; the
// generator uses it to create the tables it renders.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/schema"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN         string
	PingTimeout time.Duration
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository parses the DSN, opens a pool and pings the server. It
// returns a Close function for cleanup.
//
// DSN uses the go-sql-driver format, for example:
//
//	"user:pass@tcp(127.0.0.1:3306)/dicom?parseTime=true"
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	// Validate DSN early to fail fast on obvious mistakes.
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: connector: %w", err)
	}
	db := sql.OpenDB(connector)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql: ping %s: %w", Redact(cfg.DSN), err)
	}

	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// Exec runs a single statement.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// ColumnTypes returns column name -> COLUMN_TYPE for fqn, read from
// information_schema. An unqualified name is looked up in the current
// database. It implements storage.Describer.
func (r *Repository) ColumnTypes(ctx context.Context, fqn string) (map[string]string, error) {
	query := `SELECT COLUMN_NAME, COLUMN_TYPE FROM information_schema.COLUMNS
		 WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`
	args := []any{fqn}
	if parts := schema.SplitFQN(fqn); len(parts) == 2 {
		query = `SELECT COLUMN_NAME, COLUMN_TYPE FROM information_schema.COLUMNS
		 WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?`
		args = []any{parts[0], parts[1]}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mysql: columns of %s: %w", fqn, err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("mysql: scan column: %w", err)
		}
		out[name] = typ
	}
	return out, rows.Err()
}

// Redact returns dsn with its password masked, suitable for logs. DSNs that
// do not parse are replaced entirely.
func Redact(dsn string) string {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	if mc.Passwd != "" {
		mc.Passwd = "xxxxx"
	}
	return mc.FormatDSN()
}
