package alerting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

type fakeReport struct {
	rows []ReportRow
}

func (r *fakeReport) AlertReport(_ time.Time, rows []ReportRow) ([]byte, error) {
	r.rows = rows
	return []byte("%PDF"), nil
}

func TestAlertUseCase_ResolveAndExport(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 10, AlertThreshold: 5, MaximumThreshold: 2})
	f.move(t, entity.MovementExit, -7)

	report := &fakeReport{}
	notifier := &recordingNotifier{}
	uc := NewAlertUseCase(f.store.Alerts(), f.store.Stocks(), report, notifier, logger.NewNop())
	ctx := context.Background()

	open, err := uc.List(ctx, dto.AlertQuery{StockID: "st1", Status: "Open"})
	require.NoError(t, err)
	require.Len(t, open.Items, 2)

	pdf, err := uc.ExportOpen(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
	require.Len(t, report.rows, 2)
	assert.Equal(t, "Cemento", report.rows[0].Product)
	assert.Equal(t, 3, report.rows[0].Quantity)

	var alerte dto.AlertResponse
	for _, a := range open.Items {
		if a.Type == string(entity.AlertStockAlerte) {
			alerte = a
		}
	}
	resolved, err := uc.Resolve(ctx, alerte.ID)
	require.NoError(t, err)
	assert.Equal(t, "Closed", resolved.Status)
	assert.True(t, resolved.Resolved)
	require.Len(t, notifier.closed, 1)

	again, err := uc.Resolve(ctx, alerte.ID)
	require.NoError(t, err)
	assert.Equal(t, resolved.ClosedAt, again.ClosedAt)
	assert.Len(t, notifier.closed, 1)

	_, err = uc.Resolve(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertUseCase_ListRejectsUnknownStatus(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{})
	uc := NewAlertUseCase(f.store.Alerts(), f.store.Stocks(), nil, nil, logger.NewNop())

	_, err := uc.List(context.Background(), dto.AlertQuery{Status: "Pending"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAlertUseCase_Delete(t *testing.T) {
	f := newEvalFixture(t, entity.Stock{QuantityAvailable: 1})
	f.move(t, entity.MovementExit, -1)
	uc := NewAlertUseCase(f.store.Alerts(), f.store.Stocks(), nil, nil, logger.NewNop())
	ctx := context.Background()

	list, err := uc.List(ctx, dto.AlertQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, list.Items)

	require.NoError(t, uc.Delete(ctx, list.Items[0].ID))
	got, err := uc.GetByID(ctx, list.Items[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, uc.Delete(ctx, list.Items[0].ID), domain.ErrNotFound)
}
