package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"reportdesk/internal/repository/postgres/migrations"
)

// gooseUpContext is a seam for testing goose.UpContext
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the given table prefix.
// The version table is prefixed too, so environments sharing a database
// migrate independently.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	// The SQL files read the prefix through ENVSUB
	if err := os.Setenv("TABLE_PREFIX", tables.Prefix); err != nil {
		return fmt.Errorf("set table prefix: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	goose.SetTableName(tables.Prefix + "goose_db_version")
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
