package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock se maneja por sitio en Stock.
type Product struct {
	ID          string
	Name        string
	Reference   string // código único
	Description string
	Price       decimal.Decimal
	CategoryID  string // vacío si no tiene categoría
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
