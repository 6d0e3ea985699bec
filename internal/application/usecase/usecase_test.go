package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
)

func TestUserUseCase_CreateHashesAndRejectsDuplicates(t *testing.T) {
	repo := &fakeUsers{m: map[string]entity.User{}}
	uc := usecase.NewUserUseCase(repo)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateUserRequest{Email: " Ana@Example.com ", Password: "secreta123", FirstName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Equal(t, entity.RoleOperator, out.Role)
	assert.True(t, out.Active)

	stored := repo.m[out.ID]
	assert.NotEqual(t, "secreta123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta123")))

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "ana@example.com", Password: "otraclave1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "b@example.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "c@example.com", Password: "secreta123", Role: "vendedor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUseCase_UpdateRoleAndStatus(t *testing.T) {
	repo := &fakeUsers{m: map[string]entity.User{}}
	uc := usecase.NewUserUseCase(repo)
	ctx := context.Background()
	u, err := uc.Create(ctx, dto.CreateUserRequest{Email: "op@example.com", Password: "secreta123"})
	require.NoError(t, err)

	role, active := entity.RoleStockManager, false
	out, err := uc.Update(ctx, dto.UpdateUserRequest{ID: u.ID, Role: &role, Active: &active})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStockManager, out.Role)
	assert.False(t, out.Active)

	missing, err := uc.Update(ctx, dto.UpdateUserRequest{ID: "nope"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStockUseCase_Create(t *testing.T) {
	store := memory.New()
	products := newFakeProducts()
	products.m["p1"] = entity.Product{ID: "p1", Name: "Arena"}
	sites := &fakeSites{m: map[string]entity.Site{"s1": {ID: "s1", Name: "Patio"}}}
	uc := usecase.NewStockUseCase(store.Stocks(), products, sites)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateStockRequest{ProductID: "p1", SiteID: "s1", QuantityAvailable: 12, AlertThreshold: 5})
	require.NoError(t, err)
	assert.Equal(t, "Arena", out.ProductName)
	assert.Equal(t, "Patio", out.SiteName)
	assert.Equal(t, 12, out.QuantityAvailable)

	_, err = uc.Create(ctx, dto.CreateStockRequest{ProductID: "p1", SiteID: "s1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateStockRequest{ProductID: "p9", SiteID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateStockRequest{ProductID: "p1", SiteID: "s1", MinimumThreshold: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockUseCase_UpdateThresholdsKeepsQuantity(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Stocks().Create(ctx, &entity.Stock{ID: "st1", ProductID: "p1", SiteID: "s1", QuantityAvailable: 9, AlertThreshold: 3}))
	uc := usecase.NewStockUseCase(store.Stocks(), newFakeProducts(), &fakeSites{m: map[string]entity.Site{}})

	maxT := 50
	out, err := uc.UpdateThresholds(ctx, dto.UpdateStockRequest{ID: "st1", MaximumThreshold: &maxT})
	require.NoError(t, err)
	assert.Equal(t, 9, out.QuantityAvailable)
	assert.Equal(t, 3, out.AlertThreshold)
	assert.Equal(t, 50, out.MaximumThreshold)

	neg := -4
	_, err = uc.UpdateThresholds(ctx, dto.UpdateStockRequest{ID: "st1", AlertThreshold: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// racingStocks confirma una salida de 4 unidades justo después de la lectura del use case.
type racingStocks struct {
	*memory.StockRepo
	once bool
}

func (r *racingStocks) GetByID(ctx context.Context, id string) (*entity.Stock, error) {
	st, err := r.StockRepo.GetByID(ctx, id)
	if err != nil || st == nil || r.once {
		return st, err
	}
	r.once = true
	committed := *st
	committed.QuantityAvailable -= 4
	return st, r.StockRepo.Update(ctx, &committed)
}

func TestStockUseCase_UpdateThresholdsDoesNotOverwriteConcurrentMovement(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Stocks().Create(ctx, &entity.Stock{ID: "st1", ProductID: "p1", SiteID: "s1", QuantityAvailable: 10, AlertThreshold: 2}))
	uc := usecase.NewStockUseCase(&racingStocks{StockRepo: store.Stocks()}, newFakeProducts(), &fakeSites{m: map[string]entity.Site{}})

	alertT := 5
	out, err := uc.UpdateThresholds(ctx, dto.UpdateStockRequest{ID: "st1", AlertThreshold: &alertT})
	require.NoError(t, err)
	assert.Equal(t, 5, out.AlertThreshold)
	assert.Equal(t, 6, out.QuantityAvailable)

	stored, err := store.Stocks().GetByID(ctx, "st1")
	require.NoError(t, err)
	assert.Equal(t, 6, stored.QuantityAvailable)
	assert.Equal(t, 5, stored.AlertThreshold)
}

func TestProductUseCase_ReferenceIsUnique(t *testing.T) {
	products := newFakeProducts()
	categories := &fakeCategories{m: map[string]entity.Category{"c1": {ID: "c1", Name: "Ferretería"}}}
	uc := usecase.NewProductUseCase(products, categories)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Martillo", Reference: "MRT-01", Price: decimal.RequireFromString("12.50"), CategoryID: "c1"})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(p.Price))

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Otro", Reference: "MRT-01"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Sierra", Reference: "SRR-01", CategoryID: "c9"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Sierra", Reference: "SRR-01", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSiteUseCase_DefaultsToWarehouse(t *testing.T) {
	uc := usecase.NewSiteUseCase(&fakeSites{m: map[string]entity.Site{}})
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.CreateSiteRequest{Name: "Central"})
	require.NoError(t, err)
	assert.Equal(t, entity.SiteTypeWarehouse, s.Type)

	_, err = uc.Create(ctx, dto.CreateSiteRequest{Name: "Kiosco", Type: "kiosk"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	store := "Store"
	upd, err := uc.Update(ctx, dto.UpdateSiteRequest{ID: s.ID, Type: &store})
	require.NoError(t, err)
	assert.Equal(t, entity.SiteTypeStore, upd.Type)
}

func TestRoleUseCase_NormalizesPermissions(t *testing.T) {
	uc := usecase.NewRoleUseCase(&fakeRoles{m: map[string]entity.Role{}})
	ctx := context.Background()

	r, err := uc.Create(ctx, dto.CreateRoleRequest{Name: entity.RoleOperator, Permissions: []string{"movement.write", " stock.read", "movement.write", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"movement.write", "stock.read"}, r.Permissions)

	_, err = uc.Create(ctx, dto.CreateRoleRequest{Name: entity.RoleOperator})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateRoleRequest{Name: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryUseCase_RequiresName(t *testing.T) {
	uc := usecase.NewCategoryUseCase(&fakeCategories{m: map[string]entity.Category{}})
	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
