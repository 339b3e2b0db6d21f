// Package testutil builds workbook fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// InventoryHeader is the header row written under the title row.
var InventoryHeader = []any{
	"fecha", "usuario", "hostname", "sistema", "fabricante", "modelo", "serie",
	"placa", "procesador", "tarjeta_grafica", "memoria_ram", "disco_duro", "num_discos", "ip",
}

// Workbook returns xlsx bytes with sheet holding a title row, the inventory
// header and rows starting at row 3.
func Workbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}

	require.NoError(t, f.SetCellValue(sheet, "A1", "Inventario"))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &InventoryHeader))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// InventoryRow returns a complete 14-column row for host.
func InventoryRow(host, system, model string) []any {
	return []any{
		"2024-05-01 10:00:00", "jdoe", host, system, "Dell", model, "SN-" + host,
		"PL-" + host, "Intel i5", "Intel UHD", "16 GB", "512 GB SSD", "2", "10.0.0.1",
	}
}
