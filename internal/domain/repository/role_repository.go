package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// RoleRepository define el puerto de persistencia para roles y sus permisos.
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByID(ctx context.Context, id string) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	Update(ctx context.Context, role *entity.Role) error
	List(ctx context.Context) ([]*entity.Role, error)
	Delete(ctx context.Context, id string) error
}
