package alerting

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// Notifier recibe las transiciones de alertas después del Commit.
// Las implementaciones no deben bloquear ni fallar la evaluación.
type Notifier interface {
	AlertOpened(ctx context.Context, alert entity.Alert)
	AlertClosed(ctx context.Context, alert entity.Alert)
}

// NoopNotifier descarta las notificaciones.
type NoopNotifier struct{}

func (NoopNotifier) AlertOpened(context.Context, entity.Alert) {}
func (NoopNotifier) AlertClosed(context.Context, entity.Alert) {}

// Notifiers reparte cada notificación entre varios destinos.
type Notifiers []Notifier

// AlertOpened implementa Notifier.
func (ns Notifiers) AlertOpened(ctx context.Context, alert entity.Alert) {
	for _, n := range ns {
		n.AlertOpened(ctx, alert)
	}
}

// AlertClosed implementa Notifier.
func (ns Notifiers) AlertClosed(ctx context.Context, alert entity.Alert) {
	for _, n := range ns {
		n.AlertClosed(ctx, alert)
	}
}
