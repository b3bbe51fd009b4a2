package sqlite

import (
	"context"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/storage"
	sqliteddl "github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/storage/sqlite/ddl"
)

// wrappedRepo adapts *Repository to storage.Repository, calling the cleanup
// function returned by NewRepository on Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var (
	_ storage.Repository = (*wrappedRepo)(nil)
	_ storage.Describer  = (*wrappedRepo)(nil)
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := NewRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL("sqlite", sqliteddl.BuildCreateTableSQL)
}
