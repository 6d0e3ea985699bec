package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	StockID string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// StockMovementRepository define el puerto de persistencia para movimientos de stock (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockMovement, error)
	Update(ctx context.Context, movement *entity.StockMovement) error
	// Delete devuelve domain.ErrNotFound si no se eliminó ninguna fila.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
