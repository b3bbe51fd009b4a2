package mysql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/schema"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/storage"
)

func TestRedact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dsn     string
		want    string
		notWant string
	}{
		{name: "password masked", dsn: "root:s3cret@tcp(db:3306)/dicom", want: "root:xxxxx@tcp(db:3306)/dicom", notWant: "s3cret"},
		{name: "no password", dsn: "root@tcp(db:3306)/dicom", want: "root@tcp(db:3306)/dicom"},
		{name: "invalid", dsn: "::not a dsn", want: "<invalid dsn>"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Redact(tt.dsn)
			if !strings.HasPrefix(got, tt.want) {
				t.Fatalf("Redact(%q) = %q, want prefix %q", tt.dsn, got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Fatalf("Redact(%q) = %q leaks %q", tt.dsn, got, tt.notWant)
			}
		})
	}
}

func TestNewRepository_RejectsBadDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{DSN: " "}); err == nil {
		t.Fatalf("NewRepository(empty) error = nil, want error")
	}
	_, _, err := NewRepository(context.Background(), Config{DSN: "::not a dsn"})
	if err == nil || !strings.Contains(err.Error(), "mysql dsn") {
		t.Fatalf("NewRepository(bad) error = %v, want mysql dsn error", err)
	}
}

func TestRegisteredFactoryAndDDL(t *testing.T) {
	// Not parallel: swaps the package-level constructor hook.
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	closed := false
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		if cfg.DSN != "u@tcp(h)/d" {
			return nil, nil, errors.New("unexpected dsn " + cfg.DSN)
		}
		return &Repository{cfg: cfg}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "mysql", DSN: "u@tcp(h)/d"})
	if err != nil {
		t.Fatalf("storage.New(mysql) error = %v", err)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close() did not call cleanup")
	}

	stmt, err := storage.BuildDDL("mysql", schema.TableDef{
		FQN:     "t",
		Columns: []schema.ColumnDef{{Name: "a", SQLType: "INT", Nullable: true}},
	})
	if err != nil || !strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS `t`") {
		t.Fatalf("storage.BuildDDL(mysql) = %q, %v", stmt, err)
	}
}
