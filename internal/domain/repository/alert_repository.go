package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// AlertFilter filtros para listar alertas. Campos vacíos no filtran.
type AlertFilter struct {
	StockID string
	Status  entity.AlertStatus
	Type    entity.AlertType
	Limit   int
	Offset  int
}

// AlertRepository define el puerto de persistencia para alertas.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	// FindOpenByTypeAndStock busca la alerta abierta de un fingerprint; (nil, nil) si no hay.
	FindOpenByTypeAndStock(ctx context.Context, alertType entity.AlertType, stockID string) (*entity.Alert, error)
	Update(ctx context.Context, alert *entity.Alert) error
	List(ctx context.Context, filter AlertFilter) ([]*entity.Alert, error)
	Delete(ctx context.Context, id string) error
}
