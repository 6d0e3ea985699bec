package inventory

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/event"
)

// EventPublisher publica StockChanged y espera a que los suscriptores terminen.
// Lo implementa *events.Dispatcher.
type EventPublisher interface {
	PublishStockChanged(ctx context.Context, ev event.StockChanged) error
}
