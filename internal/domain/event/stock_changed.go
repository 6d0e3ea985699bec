// Package event define los eventos de dominio que se publican en proceso.
package event

import (
	"time"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// StockChanged se emite una vez por cada alta, modificación o baja de movimiento confirmada.
// En una baja, MovementType es el tipo inverso al del movimiento eliminado.
type StockChanged struct {
	StockID       string
	MovementID    string
	MovementType  entity.MovementType
	DeltaQuantity int
	NewQuantity   int
	OccurredAt    time.Time
}
