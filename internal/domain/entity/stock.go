package entity

import "time"

// Stock representa la cantidad disponible de un producto en un sitio, con sus cuatro umbrales.
// Un umbral en 0 está deshabilitado y no se evalúa.
type Stock struct {
	ID                string
	ProductID         string
	SiteID            string
	QuantityAvailable int
	AlertThreshold    int
	SecurityThreshold int
	MinimumThreshold  int
	MaximumThreshold  int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ApplyDelta suma delta a la cantidad disponible y la recorta a 0 si queda negativa.
func (s *Stock) ApplyDelta(delta int) {
	s.QuantityAvailable += delta
	s.ClampQuantity()
}

// ClampQuantity garantiza QuantityAvailable >= 0.
func (s *Stock) ClampQuantity() {
	if s.QuantityAvailable < 0 {
		s.QuantityAvailable = 0
	}
}

// StockDetails stock con los nombres de producto y sitio (para mensajes de alerta y listados).
type StockDetails struct {
	Stock
	ProductName string
	SiteName    string
}
