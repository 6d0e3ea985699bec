package alerting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/event"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

type recordingNotifier struct {
	opened []entity.Alert
	closed []entity.Alert
}

func (n *recordingNotifier) AlertOpened(_ context.Context, a entity.Alert) { n.opened = append(n.opened, a) }
func (n *recordingNotifier) AlertClosed(_ context.Context, a entity.Alert) { n.closed = append(n.closed, a) }

type evalFixture struct {
	store    *memory.Store
	eval     *Evaluator
	notifier *recordingNotifier
	clock    time.Time
}

func newEvalFixture(t *testing.T, stock entity.Stock) *evalFixture {
	t.Helper()
	f := &evalFixture{
		store:    memory.New(),
		notifier: &recordingNotifier{},
		clock:    time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
	}
	f.store.AddProduct("p1", "Cemento")
	f.store.AddSite("s1", "Tienda Sur")
	stock.ID, stock.ProductID, stock.SiteID = "st1", "p1", "s1"
	require.NoError(t, f.store.Stocks().Create(context.Background(), &stock))
	f.eval = NewEvaluator(f.store, f.notifier, logger.NewNop())
	f.eval.now = func() time.Time { return f.clock }
	return f
}

// move fija la cantidad del stock y evalúa como lo haría un movimiento.
func (f *evalFixture) move(t *testing.T, mt entity.MovementType, delta int) {
	t.Helper()
	ctx := context.Background()
	s, err := f.store.Stocks().GetByID(ctx, "st1")
	require.NoError(t, err)
	s.ApplyDelta(delta)
	require.NoError(t, f.store.Stocks().Update(ctx, s))
	f.clock = f.clock.Add(time.Minute)
	require.NoError(t, f.eval.HandleStockChanged(ctx, event.StockChanged{
		StockID: "st1", MovementID: "m", MovementType: mt, DeltaQuantity: delta, NewQuantity: s.QuantityAvailable, OccurredAt: f.clock,
	}))
}

func (f *evalFixture) alerts(t *testing.T, filter repository.AlertFilter) []*entity.Alert {
	t.Helper()
	filter.StockID = "st1"
	list, err := f.store.Alerts().List(context.Background(), filter)
	require.NoError(t, err)
	return list
}

func (f *evalFixture) openTypes(t *testing.T) []entity.AlertType {
	t.Helper()
	var out []entity.AlertType
	for _, a := range f.alerts(t, repository.AlertFilter{Status: entity.AlertOpen}) {
		out = append(out, a.Type)
	}
	return out
}

func TestEvaluator_AtMostOneLowStockAlertOpen(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 20, AlertThreshold: 10, SecurityThreshold: 7, MinimumThreshold: 3})

	steps := []struct {
		delta int
		want  entity.AlertType
	}{
		{-11, entity.AlertStockAlerte},
		{-2, entity.AlertStockSecurite},
		{-4, entity.AlertMinStock},
		{-5, entity.AlertOutOfStock},
		{+8, entity.AlertStockAlerte},
	}
	for _, s := range steps {
		mt := entity.MovementExit
		if s.delta > 0 {
			mt = entity.MovementEntry
		}
		f.move(t, mt, s.delta)
		assert.Equal(t, []entity.AlertType{s.want}, f.openTypes(t))
	}

	f.move(t, entity.MovementEntry, 5)
	assert.Empty(t, f.openTypes(t))
}

func TestEvaluator_UpsertRefreshesOpenAlert(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 10, AlertThreshold: 5})

	f.move(t, entity.MovementExit, -6)
	first := f.alerts(t, repository.AlertFilter{Status: entity.AlertOpen})
	require.Len(t, first, 1)

	f.move(t, entity.MovementExit, -1)
	second := f.alerts(t, repository.AlertFilter{Status: entity.AlertOpen})
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, second[0].DateCreation.After(first[0].DateCreation))
	assert.Contains(t, second[0].Message, "(3 ≤ 5)")

	assert.Len(t, f.notifier.opened, 1)
}

func TestEvaluator_CloseIsIdempotent(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 4, AlertThreshold: 5})

	f.move(t, entity.MovementExit, -1)
	f.move(t, entity.MovementEntry, 10)
	closed := f.alerts(t, repository.AlertFilter{Type: entity.AlertStockAlerte})
	require.Len(t, closed, 1)
	closedAt := *closed[0].ClosedAt

	f.move(t, entity.MovementEntry, 1)
	again := f.alerts(t, repository.AlertFilter{Type: entity.AlertStockAlerte})
	require.Len(t, again, 1)
	assert.Equal(t, entity.AlertClosed, again[0].Status)
	assert.Equal(t, closedAt, *again[0].ClosedAt)
	assert.Len(t, f.notifier.closed, 1)
}

func TestEvaluator_MaximumIsIndependent(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 5, AlertThreshold: 50, MaximumThreshold: 40})

	f.move(t, entity.MovementEntry, 40)
	assert.ElementsMatch(t, []entity.AlertType{entity.AlertStockAlerte, entity.AlertStockMaximum}, f.openTypes(t))

	f.move(t, entity.MovementExit, -10)
	assert.Equal(t, []entity.AlertType{entity.AlertStockAlerte}, f.openTypes(t))

	maxAlerts := f.alerts(t, repository.AlertFilter{Type: entity.AlertStockMaximum})
	require.Len(t, maxAlerts, 1)
	assert.Equal(t, entity.SeverityWarning, maxAlerts[0].Severity)
	assert.Equal(t, entity.AlertClosed, maxAlerts[0].Status)
}

func TestEvaluator_DisabledThresholds(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 5})

	f.move(t, entity.MovementExit, -4)
	assert.Empty(t, f.openTypes(t))

	f.move(t, entity.MovementExit, -1)
	assert.Equal(t, []entity.AlertType{entity.AlertOutOfStock}, f.openTypes(t))
}

func TestEvaluator_InformationalAlertPerMovement(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 5})

	f.move(t, entity.MovementExit, -2)
	f.move(t, entity.MovementEntry, 4)

	exits := f.alerts(t, repository.AlertFilter{Type: entity.AlertExitValidated})
	require.Len(t, exits, 1)
	assert.Equal(t, "Sortie validée : -2 Cemento sur le site Tienda Sur. Nouvelle quantité : 3.", exits[0].Message)
	assert.Equal(t, entity.AlertClosed, exits[0].Status)
	assert.Equal(t, "EXIT_VALIDATED|st1", exits[0].Fingerprint)

	entries := f.alerts(t, repository.AlertFilter{Type: entity.AlertEntryValidated})
	require.Len(t, entries, 1)
	assert.Equal(t, entity.SeverityInfo, entries[0].Severity)
	assert.Empty(t, f.notifier.opened)
}

func TestEvaluator_MissingStockIsNoop(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 5})
	require.NoError(t, f.store.Stocks().Delete(context.Background(), "st1"))

	err := f.eval.HandleStockChanged(context.Background(), event.StockChanged{StockID: "st1", MovementType: entity.MovementExit, DeltaQuantity: -1})
	require.NoError(t, err)

	list, err := f.store.Alerts().List(context.Background(), repository.AlertFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotifiers_FanOut(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{}
	ns := Notifiers{a, b, NoopNotifier{}}
	ns.AlertOpened(context.Background(), entity.Alert{ID: "x"})
	ns.AlertClosed(context.Background(), entity.Alert{ID: "y"})
	assert.Len(t, a.opened, 1)
	assert.Len(t, b.closed, 1)
}

func TestEvaluator_RulesUseLockedQuantityNotEventSnapshot(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 2, AlertThreshold: 3, MaximumThreshold: 40})

	// El evento trae una cantidad vieja; entre tanto otra salida dejó el stock en 2.
	require.NoError(t, f.eval.HandleStockChanged(context.Background(), event.StockChanged{
		StockID: "st1", MovementID: "m1", MovementType: entity.MovementExit, DeltaQuantity: -1, NewQuantity: 50, OccurredAt: f.clock,
	}))

	open := f.openTypes(t)
	assert.Contains(t, open, entity.AlertStockAlerte)
	assert.NotContains(t, open, entity.AlertStockMaximum)
}
