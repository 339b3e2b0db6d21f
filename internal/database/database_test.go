package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/invkeeper/internal/database/migrations"
	"github.com/dmitrijs2005/invkeeper/internal/dbx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_SQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, dbx.SQLite, filepath.Join(t.TempDir(), "invkeeper.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"goose_db_version", "metadata", "proyectos", "inventarios"} {
		require.True(t, tableExists(t, db.DB, table), table)
	}
	require.Equal(t, dbx.SQLite, db.Dialect)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "invkeeper.db")

	db, err := Open(ctx, dbx.SQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, db.DB, dbx.SQLite))
	require.NoError(t, db.Close())

	db, err = Open(ctx, dbx.SQLite, dsn)
	require.NoError(t, err)
	defer db.Close()
	require.True(t, tableExists(t, db.DB, "inventarios"))
}

func TestRunMigrations_UsesDialectDirectory(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDir string
	orig := gooseUpContext
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	defer func() { gooseUpContext = orig }()

	for _, d := range []dbx.Dialect{dbx.SQLite, dbx.Postgres, dbx.MySQL} {
		require.NoError(t, RunMigrations(context.Background(), db, d))
		require.Equal(t, string(d), gotDir)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	err = RunMigrations(context.Background(), db, dbx.Postgres)
	require.ErrorContains(t, err, "boom")
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, d := range []dbx.Dialect{dbx.SQLite, dbx.Postgres, dbx.MySQL} {
		entries, err := migrations.Migrations.ReadDir(string(d))
		require.NoError(t, err)
		require.NotEmpty(t, entries, d)
	}
}

func TestOpen_PingFailure(t *testing.T) {
	_, err := Open(context.Background(), dbx.SQLite, filepath.Join(t.TempDir(), "missing", "x.db"))
	require.Error(t, err)
}

func TestRepositoriesBound(t *testing.T) {
	db, err := Open(context.Background(), dbx.SQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NotNil(t, db.Metadata(db.DB))
	require.NotNil(t, db.Projects(db.DB))
	require.NotNil(t, db.Inventory())
}
