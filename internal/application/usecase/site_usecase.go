package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// SiteUseCase casos de uso CRUD para sitios (bodegas y tiendas).
type SiteUseCase struct {
	repo repository.SiteRepository
}

// NewSiteUseCase construye el caso de uso.
func NewSiteUseCase(repo repository.SiteRepository) *SiteUseCase {
	return &SiteUseCase{repo: repo}
}

func validSiteType(t string) bool {
	return t == entity.SiteTypeWarehouse || t == entity.SiteTypeStore
}

// Create crea un nuevo sitio. Type vacío equivale a warehouse.
func (uc *SiteUseCase) Create(ctx context.Context, in dto.CreateSiteRequest) (*dto.SiteResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	siteType := strings.ToLower(strings.TrimSpace(in.Type))
	if siteType == "" {
		siteType = entity.SiteTypeWarehouse
	}
	if !validSiteType(siteType) {
		return nil, fmt.Errorf("%w: tipo de sitio %q", domain.ErrInvalidInput, in.Type)
	}
	now := time.Now()
	site := &entity.Site{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   in.Address,
		Type:      siteType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, site); err != nil {
		return nil, err
	}
	return toSiteResponse(site), nil
}

// GetByID obtiene un sitio por ID.
func (uc *SiteUseCase) GetByID(ctx context.Context, id string) (*dto.SiteResponse, error) {
	site, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, nil
	}
	return toSiteResponse(site), nil
}

// Update actualiza un sitio.
func (uc *SiteUseCase) Update(ctx context.Context, in dto.UpdateSiteRequest) (*dto.SiteResponse, error) {
	site, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, nil
	}
	if in.Name != nil {
		site.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		site.Address = *in.Address
	}
	if in.Type != nil {
		t := strings.ToLower(strings.TrimSpace(*in.Type))
		if !validSiteType(t) {
			return nil, fmt.Errorf("%w: tipo de sitio %q", domain.ErrInvalidInput, *in.Type)
		}
		site.Type = t
	}
	if site.Name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	site.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, site); err != nil {
		return nil, err
	}
	return toSiteResponse(site), nil
}

// List lista sitios con paginación.
func (uc *SiteUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SiteListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SiteResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSiteResponse(s))
	}
	return &dto.SiteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un sitio por ID.
func (uc *SiteUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toSiteResponse(s *entity.Site) *dto.SiteResponse {
	if s == nil {
		return nil
	}
	return &dto.SiteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Type:      s.Type,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
