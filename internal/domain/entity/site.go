package entity

import "time"

// Tipos de sitio.
const (
	SiteTypeWarehouse = "warehouse"
	SiteTypeStore     = "store"
)

// Site representa una bodega o tienda donde se almacena inventario.
type Site struct {
	ID        string
	Name      string
	Address   string
	Type      string // warehouse, store
	CreatedAt time.Time
	UpdatedAt time.Time
}
