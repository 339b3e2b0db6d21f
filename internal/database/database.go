// Package database opens the relational store for the configured dialect,
// applies the embedded migrations and vends repositories bound to it.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/invkeeper/internal/database/migrations"
	"github.com/dmitrijs2005/invkeeper/internal/dbx"
	"github.com/dmitrijs2005/invkeeper/internal/repositories/inventory"
	"github.com/dmitrijs2005/invkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/invkeeper/internal/repositories/projects"
	"github.com/pressly/goose/v3"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB is an open, migrated database together with its dialect.
type DB struct {
	*sql.DB
	Dialect dbx.Dialect
}

// Metadata returns a metadata.Repository bound to the provided DBTX.
func (d *DB) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLRepository(db, d.Dialect)
}

// Projects returns a projects.Repository bound to the provided DBTX.
func (d *DB) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewSQLRepository(db, d.Dialect)
}

// Inventory returns the inventory repository. It opens its own
// transactions, so it is always bound to the pool.
func (d *DB) Inventory() inventory.Repository {
	return inventory.NewSQLRepository(d.DB, d.Dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for dialect.
func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, string(dialect)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Open connects with the dialect's driver, verifies the connection and
// migrates the schema. SQLite is limited to one connection.
func Open(ctx context.Context, dialect dbx.Dialect, dsn string) (*DB, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == dbx.SQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{DB: db, Dialect: dialect}, nil
}
