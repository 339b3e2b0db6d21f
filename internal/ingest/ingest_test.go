package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/database"
	"github.com/dmitrijs2005/invkeeper/internal/dbx"
	"github.com/dmitrijs2005/invkeeper/internal/logging"
	"github.com/dmitrijs2005/invkeeper/internal/repositories/inventory"
	"github.com/dmitrijs2005/invkeeper/internal/repositories/projects"
	"github.com/dmitrijs2005/invkeeper/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleRows() [][]any {
	full := testutil.InventoryRow("pc-01", "Windows 11", "Latitude 5420")

	noSystem := testutil.InventoryRow("pc-02", "", "OptiPlex")

	noModel := testutil.InventoryRow("pc-03", "Ubuntu 22.04", "")
	noModel[12] = "2.0"

	empty := testutil.InventoryRow("pc-04", "", "")

	short := []any{"2024-05-01", "ana", "pc-05", "macOS", "Apple", "MacBook"}

	badDisks := testutil.InventoryRow("pc-06", "Windows 10", "ThinkPad")
	badDisks[12] = "two"

	return [][]any{full, noSystem, noModel, empty, short, badDisks}
}

func TestParseRows(t *testing.T) {
	payload := testutil.Workbook(t, common.InventorySheet, sampleRows())

	got, err := ParseRows(payload, common.InventorySheet)
	require.NoError(t, err)
	require.Len(t, got, 5)

	hosts := make([]string, len(got))
	for i, r := range got {
		hosts[i] = r.Hostname
	}
	require.Equal(t, []string{"pc-01", "pc-02", "pc-03", "pc-05", "pc-06"}, hosts)

	first := got[0]
	require.Equal(t, "2024-05-01 10:00:00", first.Fecha)
	require.Equal(t, "jdoe", first.Usuario)
	require.Equal(t, "Windows 11", first.Sistema)
	require.Equal(t, "Dell", first.Fabricante)
	require.Equal(t, "Latitude 5420", first.Modelo)
	require.Equal(t, "SN-pc-01", first.Serie)
	require.Equal(t, "PL-pc-01", first.Placa)
	require.Equal(t, "Intel i5", first.Procesador)
	require.Equal(t, "Intel UHD", first.TarjetaGrafica)
	require.Equal(t, "16 GB", first.MemoriaRAM)
	require.Equal(t, "512 GB SSD", first.DiscoDuro)
	require.Equal(t, 2, first.NumDiscos)
	require.Equal(t, "10.0.0.1", first.IP)

	require.Equal(t, 2, got[2].NumDiscos, "2.0 is a whole number")
	require.Equal(t, 1, got[3].NumDiscos, "missing column defaults to one")
	require.Equal(t, "", got[3].IP)
	require.Equal(t, 1, got[4].NumDiscos, "unparsable count defaults to one")
}

func TestParseRows_HeaderOnly(t *testing.T) {
	got, err := ParseRows(testutil.Workbook(t, common.InventorySheet, nil), common.InventorySheet)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestParseRows_Errors(t *testing.T) {
	_, err := ParseRows(testutil.Workbook(t, "Hoja1", sampleRows()), common.InventorySheet)
	require.ErrorIs(t, err, common.ErrMissingSheet)

	_, err = ParseRows([]byte("not a workbook"), common.InventorySheet)
	require.ErrorIs(t, err, common.ErrCorrupt)
}

func TestParseDiskCount(t *testing.T) {
	tests := map[string]int{"": 1, "1": 1, "3": 3, "2.0": 2, "2.5": 1, "x": 1, "0": 0}
	for in, want := range tests {
		require.Equal(t, want, parseDiskCount(in), in)
	}
}

func TestIngest_SamePayloadIntoTwoProjects(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, dbx.SQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	pr := projects.NewSQLRepository(db, dbx.SQLite)
	a, err := pr.Create(ctx, "Acme")
	require.NoError(t, err)
	b, err := pr.Create(ctx, "Beta")
	require.NoError(t, err)

	repo := inventory.NewSQLRepository(db.DB, dbx.SQLite)
	l := NewLoader(repo, logging.Nop(), "")
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	payload := testutil.Workbook(t, common.InventorySheet, sampleRows())

	na, err := l.Ingest(ctx, payload, a.ID)
	require.NoError(t, err)
	nb, err := l.Ingest(ctx, payload, b.ID)
	require.NoError(t, err)
	require.Equal(t, 5, na)
	require.Equal(t, na, nb)

	for _, id := range []int64{a.ID, b.ID} {
		count, err := repo.Count(ctx, id)
		require.NoError(t, err)
		require.Equal(t, 5, count)
	}

	rows, err := repo.List(ctx, b.ID)
	require.NoError(t, err)
	for _, r := range rows {
		require.Equal(t, b.ID, r.ProyectoID)
		require.True(t, fixed.Equal(r.FechaEscaneo))
		require.False(t, r.Empty())
	}
}

func TestIngest_EmptySheetTouchesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := NewLoader(inventory.NewSQLRepository(db, dbx.SQLite), logging.Nop(), common.InventorySheet)
	n, err := l.Ingest(context.Background(), testutil.Workbook(t, common.InventorySheet, nil), 1)
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIngest_DatabaseFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO inventarios`)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	core, logs := observer.New(zapcore.ErrorLevel)
	l := NewLoader(inventory.NewSQLRepository(db, dbx.SQLite), logging.NewZapLogger(zap.New(core)), "")

	n, err := l.Ingest(context.Background(), testutil.Workbook(t, common.InventorySheet, sampleRows()), 1)
	require.ErrorIs(t, err, common.ErrDatabase)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "inventory ingest failed", entry.Message)
	require.Equal(t, int64(5), entry.ContextMap()["rows"])
	require.NotEmpty(t, entry.ContextMap()["batch"])
}

func TestIngest_EachCallLogsItsOwnBatch(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, dbx.SQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	p, err := projects.NewSQLRepository(db, dbx.SQLite).Create(ctx, "Acme")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoader(inventory.NewSQLRepository(db.DB, dbx.SQLite), logging.NewZapLogger(zap.New(core)), "")
	payload := testutil.Workbook(t, common.InventorySheet, sampleRows())

	for range 2 {
		_, err := l.Ingest(ctx, payload, p.ID)
		require.NoError(t, err)
	}

	entries := logs.FilterMessage("inventory ingested").All()
	require.Len(t, entries, 2)
	first, _ := entries[0].ContextMap()["batch"].(string)
	second, _ := entries[1].ContextMap()["batch"].(string)
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	require.NotEqual(t, first, second)
	require.Equal(t, p.ID, entries[0].ContextMap()["project"])
}

func TestIngest_MissingSheet(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := NewLoader(inventory.NewSQLRepository(db, dbx.SQLite), logging.Nop(), "")
	n, err := l.Ingest(context.Background(), testutil.Workbook(t, "Other", sampleRows()), 1)
	require.ErrorIs(t, err, common.ErrMissingSheet)
	require.Zero(t, n)
}
