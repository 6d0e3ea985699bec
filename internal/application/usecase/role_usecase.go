package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// RoleUseCase catálogo de roles y permisos.
type RoleUseCase struct {
	repo repository.RoleRepository
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(repo repository.RoleRepository) *RoleUseCase {
	return &RoleUseCase{repo: repo}
}

// Create registra un rol. El nombre debe ser uno de los roles que emite el login.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	name := strings.TrimSpace(in.Name)
	if !entity.IsValidRole(name) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Name)
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: rol %s", domain.ErrDuplicate, name)
	}
	now := time.Now()
	role := &entity.Role{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Permissions: normalizePermissions(in.Permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

// GetByID obtiene un rol por ID.
func (uc *RoleUseCase) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil || role == nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

// Update modifica descripción y permisos. El nombre no cambia.
func (uc *RoleUseCase) Update(ctx context.Context, in dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil || role == nil {
		return nil, err
	}
	if in.Description != nil {
		role.Description = *in.Description
	}
	if in.Permissions != nil {
		role.Permissions = normalizePermissions(in.Permissions)
	}
	role.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

// List devuelve todos los roles.
func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRoleResponse(r))
	}
	return out, nil
}

// Delete elimina un rol.
func (uc *RoleUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// normalizePermissions ordena, recorta y quita duplicados.
func normalizePermissions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func toRoleResponse(r *entity.Role) *dto.RoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
