// Package models defines the data carried between the locator, the rotation
// orchestrator, the ingest loader and the repositories.
package models

import "time"

// InventoryRecord is one worksheet row destined for the inventarios table.
// Every field is the cell's string value except NumDiscos and FechaEscaneo.
type InventoryRecord struct {
	ID             int64
	ProyectoID     int64
	Fecha          string
	Usuario        string
	Hostname       string
	Sistema        string
	Fabricante     string
	Modelo         string
	Serie          string
	Placa          string
	Procesador     string
	TarjetaGrafica string
	MemoriaRAM     string
	DiscoDuro      string
	NumDiscos      int
	IP             string

	// FechaEscaneo is when the row was ingested, in UTC.
	FechaEscaneo time.Time
}

// Empty reports whether the row carries neither an operating system nor a
// model. Such rows are never stored.
func (r InventoryRecord) Empty() bool {
	return r.Sistema == "" && r.Modelo == ""
}

// Project groups the inventory rows of one customer or site.
type Project struct {
	ID     int64
	Nombre string
	Creado time.Time
	// Index is the 1-based position of the project ordered by ID. It is
	// computed on read and used in file names.
	Index  int
}
