package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// StockFilter filtros para listar stocks.
type StockFilter struct {
	ProductID string
	SiteID    string
	Limit     int
	Offset    int
}

// StockRepository define el puerto para consultar/actualizar stock por producto+sitio.
// Los métodos ForUpdate bloquean la fila hasta el fin de la transacción; fuera de una tx no bloquean.
// Las búsquedas devuelven (nil, nil) si no existe la fila.
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	GetByID(ctx context.Context, id string) (*entity.Stock, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Stock, error)
	GetByProductAndSite(ctx context.Context, productID, siteID string) (*entity.Stock, error)
	GetByProductAndSiteForUpdate(ctx context.Context, productID, siteID string) (*entity.Stock, error)
	// GetDetails devuelve el stock con los nombres de producto y sitio.
	GetDetails(ctx context.Context, id string) (*entity.StockDetails, error)
	List(ctx context.Context, filter StockFilter) ([]*entity.StockDetails, error)
	Update(ctx context.Context, stock *entity.Stock) error
	// UpdateThresholds escribe solo los umbrales y updated_at; la cantidad no cambia.
	UpdateThresholds(ctx context.Context, stock *entity.Stock) error
	Delete(ctx context.Context, id string) error
}
