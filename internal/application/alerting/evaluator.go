// Package alerting evalúa las reglas de umbrales tras cada cambio de stock y mantiene las alertas.
package alerting

import (
	"context"
	"time"

	"github.com/google/uuid"
	rules "github.com/jhoicas/gestion-stock/internal/domain/alerting"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/event"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// Evaluator suscriptor de StockChanged. Registra la alerta informativa del movimiento y deja
// abierta como máximo una alerta de la jerarquía de stock bajo, más STOCK_MAXIMUM si aplica.
type Evaluator struct {
	txRunner repository.TxRunner
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewEvaluator construye el evaluador. notifier puede ser nil.
func NewEvaluator(txRunner repository.TxRunner, notifier Notifier, log *logger.Logger) *Evaluator {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Evaluator{
		txRunner: txRunner,
		notifier: notifier,
		log:      log.Named("alerting"),
		now:      time.Now,
	}
}

// transitions alertas abiertas y cerradas en una evaluación, notificadas tras el Commit.
type transitions struct {
	opened []entity.Alert
	closed []entity.Alert
}

// HandleStockChanged implementa events.StockChangedHandler.
// La fila del stock se bloquea para serializar evaluaciones concurrentes del mismo stock. Las
// reglas de umbral usan la cantidad leída bajo ese bloqueo, no ev.NewQuantity: si otro movimiento
// confirmó después del que originó el evento, la cantidad leída ya lo incluye.
// Del evento solo se usan MovementType y DeltaQuantity, para la alerta informativa.
// Si el stock ya no existe no hace nada.
func (e *Evaluator) HandleStockChanged(ctx context.Context, ev event.StockChanged) error {
	var tr transitions
	err := e.txRunner.Run(ctx, func(r repository.Repositories) error {
		tr = transitions{}
		locked, err := r.Stocks.GetByIDForUpdate(ctx, ev.StockID)
		if err != nil {
			return err
		}
		if locked == nil {
			return nil
		}
		details, err := r.Stocks.GetDetails(ctx, ev.StockID)
		if err != nil {
			return err
		}
		if details == nil {
			return nil
		}
		now := e.now()

		if err := e.recordInformational(ctx, r.Alerts, details, ev, now); err != nil {
			return err
		}

		decision := rules.Evaluate(details.QuantityAvailable, rules.ThresholdsOf(&details.Stock))
		for _, t := range entity.ThresholdAlertTypes {
			if t == decision.LowStock {
				continue
			}
			if err := e.close(ctx, r.Alerts, t, details.ID, now, &tr); err != nil {
				return err
			}
		}
		if decision.LowStock != "" {
			if err := e.upsertOpen(ctx, r.Alerts, decision.LowStock, decision.LowStockSeverity, details, now, &tr); err != nil {
				return err
			}
		}

		if decision.Maximum {
			return e.upsertOpen(ctx, r.Alerts, entity.AlertStockMaximum, entity.SeverityWarning, details, now, &tr)
		}
		return e.close(ctx, r.Alerts, entity.AlertStockMaximum, details.ID, now, &tr)
	})
	if err != nil {
		return err
	}

	for _, a := range tr.opened {
		e.log.Debug().Str("alert_id", a.ID).Str("type", string(a.Type)).Str("stock_id", a.StockID).Msg("alerta abierta")
		e.notifier.AlertOpened(ctx, a)
	}
	for _, a := range tr.closed {
		e.log.Debug().Str("alert_id", a.ID).Str("type", string(a.Type)).Str("stock_id", a.StockID).Msg("alerta cerrada")
		e.notifier.AlertClosed(ctx, a)
	}
	return nil
}

// recordInformational guarda el historial del movimiento como alerta Info ya cerrada.
func (e *Evaluator) recordInformational(
	ctx context.Context,
	alerts repository.AlertRepository,
	s *entity.StockDetails,
	ev event.StockChanged,
	now time.Time,
) error {
	t := rules.InformationalType(ev.MovementType)
	closedAt := now
	return alerts.Create(ctx, &entity.Alert{
		ID:           uuid.New().String(),
		Type:         t,
		Message:      informationalMessage(s, ev.MovementType, ev.DeltaQuantity),
		DateCreation: now,
		Resolved:     true,
		Severity:     entity.SeverityInfo,
		Status:       entity.AlertClosed,
		Fingerprint:  entity.Fingerprint(t, s.ID),
		ClosedAt:     &closedAt,
		StockID:      s.ID,
	})
}

// upsertOpen refresca mensaje y fecha de la alerta abierta del fingerprint o inserta una nueva.
func (e *Evaluator) upsertOpen(
	ctx context.Context,
	alerts repository.AlertRepository,
	t entity.AlertType,
	severity entity.Severity,
	s *entity.StockDetails,
	now time.Time,
	tr *transitions,
) error {
	msg := thresholdMessage(t, s)
	existing, err := alerts.FindOpenByTypeAndStock(ctx, t, s.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Message = msg
		existing.DateCreation = now
		existing.Severity = severity
		return alerts.Update(ctx, existing)
	}
	a := &entity.Alert{
		ID:           uuid.New().String(),
		Type:         t,
		Message:      msg,
		DateCreation: now,
		Resolved:     false,
		Severity:     severity,
		Status:       entity.AlertOpen,
		Fingerprint:  entity.Fingerprint(t, s.ID),
		StockID:      s.ID,
	}
	if err := alerts.Create(ctx, a); err != nil {
		return err
	}
	tr.opened = append(tr.opened, *a)
	return nil
}

// close cierra la alerta abierta del fingerprint; no hace nada si no hay ninguna.
func (e *Evaluator) close(
	ctx context.Context,
	alerts repository.AlertRepository,
	t entity.AlertType,
	stockID string,
	now time.Time,
	tr *transitions,
) error {
	existing, err := alerts.FindOpenByTypeAndStock(ctx, t, stockID)
	if err != nil {
		return err
	}
	if existing == nil || !existing.Close(now) {
		return nil
	}
	if err := alerts.Update(ctx, existing); err != nil {
		return err
	}
	tr.closed = append(tr.closed, *existing)
	return nil
}
