package dbx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"", SQLite, false},
		{"sqlite3", SQLite, false},
		{"Postgres", Postgres, false},
		{"pgx", Postgres, false},
		{"mysql", MySQL, false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDriverAndGooseNames(t *testing.T) {
	require.Equal(t, "pgx", Postgres.DriverName())
	require.Equal(t, "sqlite", SQLite.DriverName())
	require.Equal(t, "mysql", MySQL.DriverName())

	require.Equal(t, "sqlite3", SQLite.GooseDialect())
	require.Equal(t, "postgres", Postgres.GooseDialect())
	require.Equal(t, "mysql", MySQL.GooseDialect())
}

func TestRebind(t *testing.T) {
	q := `INSERT INTO t (a, b, c) VALUES (?, ?, '?')`

	require.Equal(t, q, SQLite.Rebind(q))
	require.Equal(t, q, MySQL.Rebind(q))
	require.Equal(t, `INSERT INTO t (a, b, c) VALUES ($1, $2, '?')`, Postgres.Rebind(q))
}
