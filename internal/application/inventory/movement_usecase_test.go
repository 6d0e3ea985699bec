package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/alerting"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/events"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/event"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

type fixture struct {
	store  *memory.Store
	uc     *inventory.MovementUseCase
	mu     sync.Mutex
	events []event.StockChanged
}

func newFixture(t *testing.T, stock entity.Stock) *fixture {
	t.Helper()
	f := &fixture{store: memory.New()}
	f.store.AddProduct("p1", "Tornillos")
	f.store.AddSite("s1", "Bodega Central")
	stock.ID, stock.ProductID, stock.SiteID = "st1", "p1", "s1"
	require.NoError(t, f.store.Stocks().Create(context.Background(), &stock))

	log := logger.NewNop()
	d := events.NewDispatcher(log)
	d.Subscribe(events.HandlerFunc(func(_ context.Context, ev event.StockChanged) error {
		f.mu.Lock()
		f.events = append(f.events, ev)
		f.mu.Unlock()
		return nil
	}))
	d.Subscribe(alerting.NewEvaluator(f.store, nil, log))
	f.uc = inventory.NewMovementUseCase(f.store, f.store.Movements(), d, log)
	return f
}

func (f *fixture) quantity(t *testing.T) int {
	t.Helper()
	s, err := f.store.Stocks().GetByID(context.Background(), "st1")
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.QuantityAvailable
}

func (f *fixture) openAlerts(t *testing.T) map[entity.AlertType]*entity.Alert {
	t.Helper()
	list, err := f.store.Alerts().List(context.Background(), repository.AlertFilter{StockID: "st1", Status: entity.AlertOpen})
	require.NoError(t, err)
	out := make(map[entity.AlertType]*entity.Alert, len(list))
	for _, a := range list {
		out[a.Type] = a
	}
	return out
}

func TestCreateMovement_ExitOpensStockAlerte(t *testing.T) {
	f := newFixture(t, entity.Stock{QuantityAvailable: 10, AlertThreshold: 5})

	mov, err := f.uc.CreateMovement(context.Background(), dto.CreateMovementRequest{
		StockID: "st1", Quantity: 6, Type: "exit", Reason: "venta",
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "exit", mov.Type)
	assert.Equal(t, "u1", mov.UserID)
	assert.Equal(t, 4, f.quantity(t))

	open := f.openAlerts(t)
	require.Len(t, open, 1)
	a := open[entity.AlertStockAlerte]
	require.NotNil(t, a)
	assert.Equal(t, entity.SeverityWarning, a.Severity)
	assert.Equal(t, "STOCK_ALERTE|st1", a.Fingerprint)

	require.Len(t, f.events, 1)
	assert.Equal(t, -6, f.events[0].DeltaQuantity)
	assert.Equal(t, 4, f.events[0].NewQuantity)
}

func TestCreateMovement_ClampsToZeroAndCollapsesHierarchy(t *testing.T) {
	f := newFixture(t, entity.Stock{QuantityAvailable: 10, AlertThreshold: 8, SecurityThreshold: 6, MinimumThreshold: 3})
	ctx := context.Background()

	_, err := f.uc.CreateMovement(ctx, dto.CreateMovementRequest{StockID: "st1", Quantity: 6, Type: "exit"}, "u1")
	require.NoError(t, err)
	assert.Contains(t, f.openAlerts(t), entity.AlertStockSecurite)

	_, err = f.uc.CreateMovement(ctx, dto.CreateMovementRequest{StockID: "st1", Quantity: 10, Type: "sortie"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, f.quantity(t))

	open := f.openAlerts(t)
	require.Len(t, open, 1)
	assert.Equal(t, entity.SeverityCritical, open[entity.AlertOutOfStock].Severity)

	prev, err := f.store.Alerts().List(ctx, repository.AlertFilter{StockID: "st1", Type: entity.AlertStockSecurite})
	require.NoError(t, err)
	require.Len(t, prev, 1)
	assert.Equal(t, entity.AlertClosed, prev[0].Status)
	assert.True(t, prev[0].Resolved)
	assert.NotNil(t, prev[0].ClosedAt)
}

func TestCreateMovement_AccentedEntryRecordsInformationalAlert(t *testing.T) {
	f := newFixture(t, entity.Stock{QuantityAvailable: 0})
	ctx := context.Background()

	mov, err := f.uc.CreateMovement(ctx, dto.CreateMovementRequest{
		ProductID: "p1", SiteID: "s1", Quantity: 5, Type: "Entrée",
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "entry", mov.Type)
	assert.Equal(t, "st1", mov.StockID)
	assert.Equal(t, 5, f.quantity(t))

	info, err := f.store.Alerts().List(ctx, repository.AlertFilter{StockID: "st1", Type: entity.AlertEntryValidated})
	require.NoError(t, err)
	require.Len(t, info, 1)
	assert.Equal(t, entity.SeverityInfo, info[0].Severity)
	assert.Equal(t, entity.AlertClosed, info[0].Status)
	assert.True(t, info[0].Resolved)
	assert.Contains(t, info[0].Message, "Tornillos")
	assert.Contains(t, info[0].Message, "Bodega Central")
	assert.Contains(t, info[0].Message, "+5")
	assert.Empty(t, f.openAlerts(t))
}

func TestCreateMovement_Validation(t *testing.T) {
	cases := []struct {
		name string
		req  dto.CreateMovementRequest
		want error
	}{
		{"tipo desconocido", dto.CreateMovementRequest{StockID: "st1", Quantity: 1, Type: "unknown"}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateMovementRequest{StockID: "st1", Quantity: 0, Type: "entry"}, domain.ErrInvalidInput},
		{"cantidad negativa", dto.CreateMovementRequest{StockID: "st1", Quantity: -2, Type: "entry"}, domain.ErrInvalidInput},
		{"sin stock ni producto", dto.CreateMovementRequest{Quantity: 1, Type: "entry"}, domain.ErrInvalidInput},
		{"stock inexistente", dto.CreateMovementRequest{StockID: "nope", Quantity: 1, Type: "entry"}, domain.ErrNotFound},
		{"par inexistente", dto.CreateMovementRequest{ProductID: "p1", SiteID: "s9", Quantity: 1, Type: "entry"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, entity.Stock{QuantityAvailable: 7})
			_, err := f.uc.CreateMovement(context.Background(), tc.req, "u1")
			require.ErrorIs(t, err, tc.want)

			assert.Equal(t, 7, f.quantity(t))
			movs, err := f.store.Movements().List(context.Background(), repository.MovementFilter{})
			require.NoError(t, err)
			assert.Empty(t, movs)
			assert.Empty(t, f.events)
		})
	}
}

func TestUpdateMovement_ReversesOldImpact(t *testing.T) {
	f := newFixture(t, entity.Stock{QuantityAvailable: 10})
	ctx := context.Background()

	mov, err := f.uc.CreateMovement(ctx, dto.CreateMovementRequest{StockID: "st1", Quantity: 3, Type: "exit"}, "u1")
	require.NoError(t, err)
	require.Equal(t, 7, f.quantity(t))

	note := "corregido"
	updated, err := f.uc.UpdateMovement(ctx, dto.UpdateMovementRequest{ID: mov.ID, Quantity: 3, Type: "entry", Note: &note})
	require.NoError(t, err)
	assert.Equal(t, 13, f.quantity(t))
	assert.Equal(t, "entry", updated.Type)
	assert.Equal(t, "corregido", updated.Note)
	assert.Equal(t, "u1", updated.UserID)

	last := f.events[len(f.events)-1]
	assert.Equal(t, entity.MovementEntry, last.MovementType)
	assert.Equal(t, 3, last.DeltaQuantity)
	assert.Equal(t, 13, last.NewQuantity)
}

func TestUpdateMovement_Errors(t *testing.T) {
	f := newFixture(t, entity.Stock{QuantityAvailable: 10})
	ctx := context.Background()

	_, err := f.uc.UpdateMovement(ctx, dto.UpdateMovementRequest{Quantity: 1, Type: "entry"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateMovement(ctx, dto.UpdateMovementRequest{ID: "nope", Quantity: 1, Type: "entry"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mov, err := f.uc.CreateMovement(ctx, dto.CreateMovementRequest{StockID: "st1", Quantity: 2, Type: "entry"}, "u1")
	require.NoError(t, err)

	_, err = f.uc.UpdateMovement(ctx, dto.UpdateMovementRequest{ID: mov.ID, Quantity: 2, Type: "transfer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 12, f.quantity(t))

	require.NoError(t, f.store.Stocks().Delete(ctx, "st1"))
	_, err = f.uc.UpdateMovement(ctx, dto.UpdateMovementRequest{ID: mov.ID, Quantity: 2, Type: "exit"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMovement_EmitsFlippedEvent(t *testing.T) {
	f := newFixture(t, entity.Stock{QuantityAvailable: 7, AlertThreshold: 8})
	ctx := context.Background()

	mov, err := f.uc.CreateMovement(ctx, dto.CreateMovementRequest{StockID: "st1", Quantity: 5, Type: "entry"}, "u1")
	require.NoError(t, err)
	require.Equal(t, 12, f.quantity(t))
	assert.Empty(t, f.openAlerts(t))

	require.NoError(t, f.uc.DeleteMovement(ctx, mov.ID))
	assert.Equal(t, 7, f.quantity(t))

	last := f.events[len(f.events)-1]
	assert.Equal(t, entity.MovementExit, last.MovementType)
	assert.Equal(t, -5, last.DeltaQuantity)
	assert.Equal(t, 7, last.NewQuantity)
	assert.Contains(t, f.openAlerts(t), entity.AlertStockAlerte)

	got, err := f.uc.GetByID(ctx, mov.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, f.uc.DeleteMovement(ctx, mov.ID), domain.ErrNotFound)
}

func TestDeleteMovement_OrphanedMovementEmitsNothing(t *testing.T) {
	f := newFixture(t, entity.Stock{QuantityAvailable: 1})
	ctx := context.Background()

	mov, err := f.uc.CreateMovement(ctx, dto.CreateMovementRequest{StockID: "st1", Quantity: 1, Type: "entry"}, "u1")
	require.NoError(t, err)
	require.NoError(t, f.store.Stocks().Delete(ctx, "st1"))
	n := len(f.events)

	require.NoError(t, f.uc.DeleteMovement(ctx, mov.ID))
	assert.Len(t, f.events, n)
}

func TestCreateMovement_EvaluationFailureDoesNotFailMovement(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.Stocks().Create(context.Background(), &entity.Stock{ID: "st1", ProductID: "p1", SiteID: "s1", QuantityAvailable: 1}))
	d := events.NewDispatcher(logger.NewNop())
	d.Subscribe(events.HandlerFunc(func(context.Context, event.StockChanged) error {
		return errors.New("redis caído")
	}))
	uc := inventory.NewMovementUseCase(store, store.Movements(), d, logger.NewNop())

	mov, err := uc.CreateMovement(context.Background(), dto.CreateMovementRequest{StockID: "st1", Quantity: 2, Type: "entry"}, "u1")
	require.NoError(t, err)
	require.NotNil(t, mov)

	s, _ := store.Stocks().GetByID(context.Background(), "st1")
	assert.Equal(t, 3, s.QuantityAvailable)
}

func TestList_FiltersByStock(t *testing.T) {
	f := newFixture(t, entity.Stock{QuantityAvailable: 0})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.uc.CreateMovement(ctx, dto.CreateMovementRequest{StockID: "st1", Quantity: 1, Type: "entry"}, "u1")
		require.NoError(t, err)
	}

	res, err := f.uc.List(ctx, "st1", dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Page.Limit)

	res, err = f.uc.List(ctx, "otro", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

// op es un paso de la secuencia; idx indica el movimiento creado sobre el que actúa update o delete.
type op struct {
	kind string
	idx  int
	typ  string
	qty  int
}

func TestMovementSequence_QuantityMatchesRemainingMovements(t *testing.T) {
	cases := []struct {
		name    string
		initial int
		ops     []op
		want    int
		clamped bool
	}{
		{
			name:    "alta, salida, corrección y borrado",
			initial: 10,
			ops: []op{
				{kind: "create", typ: "entry", qty: 5},
				{kind: "create", typ: "exit", qty: 3},
				{kind: "update", idx: 1, typ: "exit", qty: 2},
				{kind: "delete", idx: 0},
			},
			want: 8,
		},
		{
			name:    "cambio de tipo desde cero",
			initial: 0,
			ops: []op{
				{kind: "create", typ: "entrée", qty: 7},
				{kind: "create", typ: "sortie", qty: 2},
				{kind: "update", idx: 0, typ: "entry", qty: 4},
				{kind: "delete", idx: 1},
			},
			want: 4,
		},
		{
			name:    "recorte a cero",
			initial: 2,
			ops: []op{
				{kind: "create", typ: "exit", qty: 5},
				{kind: "create", typ: "entry", qty: 3},
			},
			want:    3,
			clamped: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, entity.Stock{QuantityAvailable: tc.initial})
			ctx := context.Background()
			var ids []string

			for _, o := range tc.ops {
				switch o.kind {
				case "create":
					mov, err := f.uc.CreateMovement(ctx, dto.CreateMovementRequest{StockID: "st1", Quantity: o.qty, Type: o.typ}, "u1")
					require.NoError(t, err)
					ids = append(ids, mov.ID)
				case "update":
					_, err := f.uc.UpdateMovement(ctx, dto.UpdateMovementRequest{ID: ids[o.idx], Quantity: o.qty, Type: o.typ})
					require.NoError(t, err)
				case "delete":
					require.NoError(t, f.uc.DeleteMovement(ctx, ids[o.idx]))
				}
				assert.GreaterOrEqual(t, f.quantity(t), 0)
			}

			assert.Equal(t, tc.want, f.quantity(t))
			if tc.clamped {
				return
			}
			movs, err := f.store.Movements().List(ctx, repository.MovementFilter{StockID: "st1"})
			require.NoError(t, err)
			sum := tc.initial
			for _, m := range movs {
				sum += m.Delta()
			}
			assert.Equal(t, sum, f.quantity(t))
		})
	}
}

func TestCreateMovement_ConcurrentEntriesAreAllApplied(t *testing.T) {
	f := newFixture(t, entity.Stock{QuantityAvailable: 0})
	ctx := context.Background()
	const workers, qty = 20, 3

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateMovement(ctx, dto.CreateMovementRequest{StockID: "st1", Quantity: qty, Type: "entry"}, "u1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, workers*qty, f.quantity(t))
	movs, err := f.store.Movements().List(ctx, repository.MovementFilter{StockID: "st1"})
	require.NoError(t, err)
	assert.Len(t, movs, workers)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Len(t, f.events, workers)
}
