// Package ingest loads the inventory worksheet of a decrypted workbook into
// the relational store as one all-or-nothing batch.
package ingest

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/logging"
	"github.com/dmitrijs2005/invkeeper/internal/models"
	"github.com/dmitrijs2005/invkeeper/internal/repositories/inventory"
	"github.com/dmitrijs2005/invkeeper/internal/workbook"
	"github.com/google/uuid"
)

// Worksheet layout: a title row, a header row, then data.
const firstDataRow = 2

// Positional columns; anything right of colIP is ignored.
const (
	colFecha = iota
	colUsuario
	colHostname
	colSistema
	colFabricante
	colModelo
	colSerie
	colPlaca
	colProcesador
	colTarjetaGrafica
	colMemoriaRAM
	colDiscoDuro
	colNumDiscos
	colIP
)

type Loader struct {
	repo  inventory.Repository
	log   logging.Logger
	sheet string
	now   func() time.Time
}

func NewLoader(repo inventory.Repository, log logging.Logger, sheet string) *Loader {
	if sheet == "" {
		sheet = common.InventorySheet
	}
	return &Loader{
		repo:  repo,
		log:   log,
		sheet: sheet,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Ingest parses payload and stores its non-empty rows under projectID.
//
// A missing worksheet returns common.ErrMissingSheet. A failed insert is
// logged and returned wrapped in common.ErrDatabase together with a zero
// count; nothing from the batch is committed in that case.
func (l *Loader) Ingest(ctx context.Context, payload []byte, projectID int64) (int, error) {
	records, err := ParseRows(payload, l.sheet)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	log := l.log.With("batch", uuid.NewString())
	scanned := l.now().Truncate(time.Second)
	for i := range records {
		records[i].ProyectoID = projectID
		records[i].FechaEscaneo = scanned
	}

	n, err := l.repo.BulkInsert(ctx, records)
	if err != nil {
		log.Error(ctx, "inventory ingest failed", "project", projectID, "rows", len(records), "error", err)
		return 0, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}

	log.Info(ctx, "inventory ingested", "project", projectID, "rows", n)
	return n, nil
}

// ParseRows reads sheet from a workbook payload into records, skipping the
// title and header rows and every row with neither sistema nor modelo.
// ProyectoID and FechaEscaneo are left for the caller.
func ParseRows(payload []byte, sheet string) ([]models.InventoryRecord, error) {
	f, err := workbook.Open(payload)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := workbook.ReadRows(f, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) <= firstDataRow {
		return nil, nil
	}

	out := make([]models.InventoryRecord, 0, len(rows)-firstDataRow)
	for _, row := range rows[firstDataRow:] {
		rec := toRecord(row)
		if rec.Empty() {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRecord(row []string) models.InventoryRecord {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	return models.InventoryRecord{
		Fecha:          cell(colFecha),
		Usuario:        cell(colUsuario),
		Hostname:       cell(colHostname),
		Sistema:        cell(colSistema),
		Fabricante:     cell(colFabricante),
		Modelo:         cell(colModelo),
		Serie:          cell(colSerie),
		Placa:          cell(colPlaca),
		Procesador:     cell(colProcesador),
		TarjetaGrafica: cell(colTarjetaGrafica),
		MemoriaRAM:     cell(colMemoriaRAM),
		DiscoDuro:      cell(colDiscoDuro),
		NumDiscos:      parseDiskCount(cell(colNumDiscos)),
		IP:             cell(colIP),
	}
}

// parseDiskCount accepts integers and whole floats ("2.0"); anything else,
// including an empty cell, counts as one disk.
func parseDiskCount(s string) int {
	if s == "" {
		return 1
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
		return int(f)
	}
	return 1
}
