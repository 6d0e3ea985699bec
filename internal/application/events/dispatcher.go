// Package events publica eventos de dominio en proceso: cada suscriptor se invoca de forma
// síncrona, en orden de suscripción, antes de que Publish retorne.
package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/gestion-stock/internal/domain/event"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// StockChangedHandler suscriptor de StockChanged.
type StockChangedHandler interface {
	HandleStockChanged(ctx context.Context, ev event.StockChanged) error
}

// HandlerFunc adapta una función a StockChangedHandler.
type HandlerFunc func(ctx context.Context, ev event.StockChanged) error

// HandleStockChanged implementa StockChangedHandler.
func (f HandlerFunc) HandleStockChanged(ctx context.Context, ev event.StockChanged) error {
	return f(ctx, ev)
}

// Dispatcher lista de observadores de StockChanged. Se configura al arrancar; no es seguro
// suscribir mientras se publica.
type Dispatcher struct {
	handlers []StockChangedHandler
	log      *logger.Logger
}

// NewDispatcher construye un dispatcher sin suscriptores.
func NewDispatcher(log *logger.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Subscribe agrega un suscriptor.
func (d *Dispatcher) Subscribe(h StockChangedHandler) {
	d.handlers = append(d.handlers, h)
}

// PublishStockChanged invoca a todos los suscriptores aunque alguno falle y devuelve los errores unidos.
func (d *Dispatcher) PublishStockChanged(ctx context.Context, ev event.StockChanged) error {
	var errs []error
	for i, h := range d.handlers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := h.HandleStockChanged(ctx, ev); err != nil {
			d.log.Error().Err(err).
				Int("handler", i).
				Str("stock_id", ev.StockID).
				Str("movement_id", ev.MovementID).
				Msg("suscriptor de StockChanged falló")
			errs = append(errs, fmt.Errorf("handler %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
