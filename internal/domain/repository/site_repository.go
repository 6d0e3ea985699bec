package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// SiteRepository define el puerto de persistencia para Site (DIP).
type SiteRepository interface {
	Create(ctx context.Context, site *entity.Site) error
	GetByID(ctx context.Context, id string) (*entity.Site, error)
	Update(ctx context.Context, site *entity.Site) error
	List(ctx context.Context, limit, offset int) ([]*entity.Site, error)
	Delete(ctx context.Context, id string) error
}
