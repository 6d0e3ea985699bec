package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStock(t *testing.T, s *Store, qty int) *entity.Stock {
	t.Helper()
	s.AddProduct("p1", "Clavos")
	s.AddSite("s1", "Bodega Norte")
	st := &entity.Stock{ID: "st1", ProductID: "p1", SiteID: "s1", QuantityAvailable: qty}
	require.NoError(t, s.Stocks().Create(context.Background(), st))
	return st
}

func TestRun_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedStock(t, s, 10)

	boom := errors.New("boom")
	err := s.Run(ctx, func(r repository.Repositories) error {
		st, err := r.Stocks.GetByIDForUpdate(ctx, "st1")
		require.NoError(t, err)
		st.QuantityAvailable = 99
		require.NoError(t, r.Stocks.Update(ctx, st))
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ID: "m1", StockID: "st1", Quantity: 89, Type: entity.MovementEntry}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	st, err := s.Stocks().GetByID(ctx, "st1")
	require.NoError(t, err)
	assert.Equal(t, 10, st.QuantityAvailable)
	m, err := s.Movements().GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRun_CommitKeepsState(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedStock(t, s, 10)

	err := s.Run(ctx, func(r repository.Repositories) error {
		st, _ := r.Stocks.GetByIDForUpdate(ctx, "st1")
		st.QuantityAvailable = 4
		return r.Stocks.Update(ctx, st)
	})
	require.NoError(t, err)

	d, err := s.Stocks().GetDetails(ctx, "st1")
	require.NoError(t, err)
	assert.Equal(t, 4, d.QuantityAvailable)
	assert.Equal(t, "Clavos", d.ProductName)
	assert.Equal(t, "Bodega Norte", d.SiteName)
}

func TestStockRepo_DuplicatePair(t *testing.T) {
	s := New()
	seedStock(t, s, 1)
	err := s.Stocks().Create(context.Background(), &entity.Stock{ID: "st2", ProductID: "p1", SiteID: "s1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStockRepo_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedStock(t, s, 1)
	require.NoError(t, s.Movements().Create(ctx, &entity.StockMovement{ID: "m1", StockID: "st1", Quantity: 1, Type: entity.MovementEntry}))
	require.NoError(t, s.Alerts().Create(ctx, &entity.Alert{ID: "a1", StockID: "st1", Type: entity.AlertStockAlerte, Status: entity.AlertOpen}))

	require.NoError(t, s.Stocks().Delete(ctx, "st1"))

	m, _ := s.Movements().GetByID(ctx, "m1")
	require.NotNil(t, m)
	assert.Empty(t, m.StockID)
	a, _ := s.Alerts().GetByID(ctx, "a1")
	assert.Nil(t, a)
	assert.ErrorIs(t, s.Stocks().Delete(ctx, "st1"), domain.ErrNotFound)
}

func TestMovementRepo_DeleteMissing(t *testing.T) {
	err := New().Movements().Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertRepo_FindOpenAndList(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	closedAt := base
	alerts := []entity.Alert{
		{ID: "a1", Type: entity.AlertMinStock, StockID: "st1", Status: entity.AlertClosed, ClosedAt: &closedAt, DateCreation: base},
		{ID: "a2", Type: entity.AlertMinStock, StockID: "st1", Status: entity.AlertOpen, DateCreation: base.Add(time.Hour)},
		{ID: "a3", Type: entity.AlertStockMaximum, StockID: "st2", Status: entity.AlertOpen, DateCreation: base.Add(2 * time.Hour)},
	}
	for i := range alerts {
		alerts[i].Fingerprint = entity.Fingerprint(alerts[i].Type, alerts[i].StockID)
		require.NoError(t, s.Alerts().Create(ctx, &alerts[i]))
	}

	open, err := s.Alerts().FindOpenByTypeAndStock(ctx, entity.AlertMinStock, "st1")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "a2", open.ID)

	none, err := s.Alerts().FindOpenByTypeAndStock(ctx, entity.AlertOutOfStock, "st1")
	require.NoError(t, err)
	assert.Nil(t, none)

	list, err := s.Alerts().List(ctx, repository.AlertFilter{Status: entity.AlertOpen})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a3", list[0].ID)

	page, err := s.Alerts().List(ctx, repository.AlertFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a2", page[0].ID)
}

func TestWindow(t *testing.T) {
	from, to := window(5, 2, 4)
	assert.Equal(t, 4, from)
	assert.Equal(t, 5, to)
	from, to = window(3, 0, 10)
	assert.Equal(t, 3, from)
	assert.Equal(t, 3, to)
}

func TestAlertRepo_OpenFingerprintUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	fp := entity.Fingerprint(entity.AlertStockAlerte, "st1")
	first := &entity.Alert{ID: "a1", Type: entity.AlertStockAlerte, StockID: "st1", Status: entity.AlertOpen, Fingerprint: fp}
	require.NoError(t, s.Alerts().Create(ctx, first))

	err := s.Alerts().Create(ctx, &entity.Alert{ID: "a2", Type: entity.AlertStockAlerte, StockID: "st1", Status: entity.AlertOpen, Fingerprint: fp})
	assert.ErrorIs(t, err, domain.ErrConflict)

	closedAt := time.Now()
	closed := &entity.Alert{ID: "a3", Type: entity.AlertStockAlerte, StockID: "st1", Status: entity.AlertClosed, ClosedAt: &closedAt, Fingerprint: fp}
	require.NoError(t, s.Alerts().Create(ctx, closed))

	// reabrir una cerrada con la abierta vigente también choca
	closed.Status, closed.ClosedAt = entity.AlertOpen, nil
	assert.ErrorIs(t, s.Alerts().Update(ctx, closed), domain.ErrConflict)

	first.Status, first.ClosedAt = entity.AlertClosed, &closedAt
	require.NoError(t, s.Alerts().Update(ctx, first))
	require.NoError(t, s.Alerts().Update(ctx, closed))
}
