package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// StockUseCase alta, baja y umbrales de los stocks. La cantidad solo cambia con movimientos.
type StockUseCase struct {
	repo     repository.StockRepository
	products repository.ProductRepository
	sites    repository.SiteRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockRepository, products repository.ProductRepository, sites repository.SiteRepository) *StockUseCase {
	return &StockUseCase{repo: repo, products: products, sites: sites}
}

// Create crea el stock de un producto en un sitio. Un par (producto, sitio) solo tiene un stock.
func (uc *StockUseCase) Create(ctx context.Context, in dto.CreateStockRequest) (*dto.StockResponse, error) {
	if in.ProductID == "" || in.SiteID == "" {
		return nil, fmt.Errorf("%w: productId y siteId son requeridos", domain.ErrInvalidInput)
	}
	if in.QuantityAvailable < 0 {
		return nil, fmt.Errorf("%w: quantityAvailable no puede ser negativa", domain.ErrInvalidInput)
	}
	if err := checkThresholds(in.AlertThreshold, in.SecurityThreshold, in.MinimumThreshold, in.MaximumThreshold); err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, in.ProductID)
	}
	site, err := uc.sites.GetByID(ctx, in.SiteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, fmt.Errorf("%w: sitio %s no existe", domain.ErrInvalidInput, in.SiteID)
	}
	existing, err := uc.repo.GetByProductAndSite(ctx, in.ProductID, in.SiteID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe stock para el producto en el sitio", domain.ErrDuplicate)
	}

	now := time.Now()
	stock := &entity.Stock{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		SiteID:            in.SiteID,
		QuantityAvailable: in.QuantityAvailable,
		AlertThreshold:    in.AlertThreshold,
		SecurityThreshold: in.SecurityThreshold,
		MinimumThreshold:  in.MinimumThreshold,
		MaximumThreshold:  in.MaximumThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, stock); err != nil {
		return nil, err
	}
	return toStockResponse(&entity.StockDetails{Stock: *stock, ProductName: product.Name, SiteName: site.Name}), nil
}

// GetByID obtiene un stock con nombres de producto y sitio.
func (uc *StockUseCase) GetByID(ctx context.Context, id string) (*dto.StockResponse, error) {
	d, err := uc.repo.GetDetails(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	return toStockResponse(d), nil
}

// UpdateThresholds modifica los umbrales informados. Los cambios se evalúan en el siguiente movimiento.
func (uc *StockUseCase) UpdateThresholds(ctx context.Context, in dto.UpdateStockRequest) (*dto.StockResponse, error) {
	stock, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil || stock == nil {
		return nil, err
	}
	if in.AlertThreshold != nil {
		stock.AlertThreshold = *in.AlertThreshold
	}
	if in.SecurityThreshold != nil {
		stock.SecurityThreshold = *in.SecurityThreshold
	}
	if in.MinimumThreshold != nil {
		stock.MinimumThreshold = *in.MinimumThreshold
	}
	if in.MaximumThreshold != nil {
		stock.MaximumThreshold = *in.MaximumThreshold
	}
	if err := checkThresholds(stock.AlertThreshold, stock.SecurityThreshold, stock.MinimumThreshold, stock.MaximumThreshold); err != nil {
		return nil, err
	}
	stock.UpdatedAt = time.Now()
	if err := uc.repo.UpdateThresholds(ctx, stock); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, stock.ID)
}

// List lista stocks, filtrando por producto o sitio si se indica.
func (uc *StockUseCase) List(ctx context.Context, productID, siteID string, page dto.PageRequest) (*dto.StockListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, repository.StockFilter{
		ProductID: productID,
		SiteID:    siteID,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toStockResponse(d))
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un stock junto con sus alertas.
func (uc *StockUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func checkThresholds(values ...int) error {
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: los umbrales no pueden ser negativos", domain.ErrInvalidInput)
		}
	}
	return nil
}

func toStockResponse(d *entity.StockDetails) *dto.StockResponse {
	return &dto.StockResponse{
		ID:                d.ID,
		ProductID:         d.ProductID,
		ProductName:       d.ProductName,
		SiteID:            d.SiteID,
		SiteName:          d.SiteName,
		QuantityAvailable: d.QuantityAvailable,
		AlertThreshold:    d.AlertThreshold,
		SecurityThreshold: d.SecurityThreshold,
		MinimumThreshold:  d.MinimumThreshold,
		MaximumThreshold:  d.MaximumThreshold,
		UpdatedAt:         d.UpdatedAt,
	}
}
