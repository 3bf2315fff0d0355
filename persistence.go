package userapi

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"
)

// OpenDB opens a bun handle for the given DSN using the sqlite shim driver.
func OpenDB(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to open database")
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate applies the embedded SQL migrations to the given database.
func Migrate(ctx context.Context, db *bun.DB) error {
	source, err := fs.Sub(GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to load migrations")
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(source); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to discover migrations")
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to initialize migrator")
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to run migrations")
	}

	return nil
}
