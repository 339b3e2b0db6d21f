// Package inventory persists parsed inventory rows in the inventarios table.
package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/invkeeper/internal/dbx"
	"github.com/dmitrijs2005/invkeeper/internal/models"
)

type Repository interface {
	BulkInsert(ctx context.Context, records []models.InventoryRecord) (int, error)
	Count(ctx context.Context, projectID int64) (int, error)
	List(ctx context.Context, projectID int64) ([]models.InventoryRecord, error)
}

const insertQuery = `INSERT INTO inventarios (proyecto_id, fecha, usuario, hostname, sistema, fabricante,
	modelo, serie, placa, procesador, tarjeta_grafica, memoria_ram, disco_duro, num_discos, ip, fecha_escaneo)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `id, proyecto_id, fecha, usuario, hostname, sistema, fabricante, modelo, serie,
	placa, procesador, tarjeta_grafica, memoria_ram, disco_duro, num_discos, ip, fecha_escaneo`

type SQLRepository struct {
	db      *sql.DB
	dialect dbx.Dialect
}

func NewSQLRepository(db *sql.DB, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// BulkInsert stores records with one prepared statement inside a single
// transaction. Either every record is committed or none is; the returned
// count is the number of rows the database reported as inserted.
func (r *SQLRepository) BulkInsert(ctx context.Context, records []models.InventoryRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var inserted int
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		stmt, err := tx.PrepareContext(ctx, r.dialect.Rebind(insertQuery))
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, rec := range records {
			res, err := stmt.ExecContext(ctx,
				rec.ProyectoID, rec.Fecha, rec.Usuario, rec.Hostname, rec.Sistema, rec.Fabricante,
				rec.Modelo, rec.Serie, rec.Placa, rec.Procesador, rec.TarjetaGrafica, rec.MemoriaRAM,
				rec.DiscoDuro, rec.NumDiscos, rec.IP, rec.FechaEscaneo)
			if err != nil {
				return fmt.Errorf("insert row %d: %w", i, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				n = 1
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert inventory batch: %w", err)
	}
	return inserted, nil
}

func (r *SQLRepository) Count(ctx context.Context, projectID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT COUNT(*) FROM inventarios WHERE proyecto_id = ?`), projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count inventory of project %d: %w", projectID, err)
	}
	return n, nil
}

func (r *SQLRepository) List(ctx context.Context, projectID int64) ([]models.InventoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		`SELECT `+selectColumns+` FROM inventarios WHERE proyecto_id = ? ORDER BY id`), projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory of project %d: %w", projectID, err)
	}
	defer rows.Close()

	var out []models.InventoryRecord
	for rows.Next() {
		var rec models.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.ProyectoID, &rec.Fecha, &rec.Usuario, &rec.Hostname, &rec.Sistema,
			&rec.Fabricante, &rec.Modelo, &rec.Serie, &rec.Placa, &rec.Procesador, &rec.TarjetaGrafica,
			&rec.MemoriaRAM, &rec.DiscoDuro, &rec.NumDiscos, &rec.IP, &rec.FechaEscaneo); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory rows: %w", err)
	}
	return out, nil
}
