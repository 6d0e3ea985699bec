package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/event"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// MovementUseCase registra, modifica y elimina movimientos de stock.
// Cada operación bloquea la fila del stock (SELECT FOR UPDATE) y escribe movimiento + stock en la
// misma transacción; tras el Commit publica StockChanged y espera a los suscriptores.
type MovementUseCase struct {
	txRunner  repository.TxRunner
	movements repository.StockMovementRepository
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner repository.TxRunner,
	movements repository.StockMovementRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:  txRunner,
		movements: movements,
		publisher: publisher,
		log:       log.Named("movements"),
		now:       time.Now,
	}
}

// CreateMovement registra una entrada o salida. actorID es el usuario del token; se usa si
// el body no trae userId.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, in dto.CreateMovementRequest, actorID string) (*dto.MovementResponse, error) {
	mt, ok := entity.ParseMovementType(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser positiva", domain.ErrInvalidInput)
	}
	if in.StockID == "" && (in.ProductID == "" || in.SiteID == "") {
		return nil, fmt.Errorf("%w: stockId o productId + siteId son requeridos", domain.ErrInvalidInput)
	}
	userID := in.UserID
	if userID == "" {
		userID = actorID
	}

	now := uc.now()
	var mov *entity.StockMovement
	var ev event.StockChanged

	err := uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		stock, err := lockStock(ctx, r.Stocks, in.StockID, in.ProductID, in.SiteID)
		if err != nil {
			return err
		}
		if stock == nil {
			return fmt.Errorf("%w: no existe stock para el producto y sitio indicados", domain.ErrNotFound)
		}

		mov = &entity.StockMovement{
			ID:       uuid.New().String(),
			DateTime: now,
			Reason:   in.Reason,
			Quantity: in.Quantity,
			Type:     mt,
			Note:     in.Note,
			StockID:  stock.ID,
			UserID:   userID,
		}
		if in.DateTime != nil && !in.DateTime.IsZero() {
			mov.DateTime = *in.DateTime
		}

		delta := mov.Delta()
		stock.ApplyDelta(delta)
		stock.UpdatedAt = now

		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
		if err := r.Stocks.Update(ctx, stock); err != nil {
			return err
		}
		ev = event.StockChanged{
			StockID:       stock.ID,
			MovementID:    mov.ID,
			MovementType:  mt,
			DeltaQuantity: delta,
			NewQuantity:   stock.QuantityAvailable,
			OccurredAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("stock_id", mov.StockID).
		Str("type", string(mt)).
		Int("delta", ev.DeltaQuantity).
		Int("new_quantity", ev.NewQuantity).
		Msg("movimiento registrado")
	uc.publish(ctx, ev)
	return toMovementResponse(mov), nil
}

// UpdateMovement revierte el efecto anterior del movimiento y aplica el nuevo.
func (uc *MovementUseCase) UpdateMovement(ctx context.Context, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	if in.ID == "" {
		return nil, fmt.Errorf("%w: id es requerido", domain.ErrInvalidInput)
	}

	now := uc.now()
	var mov *entity.StockMovement
	var ev event.StockChanged

	err := uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		var err error
		mov, err = r.Movements.GetByIDForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if mov == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, in.ID)
		}
		if mov.StockID == "" {
			return fmt.Errorf("%w: el stock del movimiento ya no existe", domain.ErrNotFound)
		}
		stock, err := r.Stocks.GetByIDForUpdate(ctx, mov.StockID)
		if err != nil {
			return err
		}
		if stock == nil {
			return fmt.Errorf("%w: el stock del movimiento ya no existe", domain.ErrNotFound)
		}

		newType, ok := entity.ParseMovementType(in.Type)
		if !ok {
			return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
		}
		if in.Quantity <= 0 {
			return fmt.Errorf("%w: quantity debe ser positiva", domain.ErrInvalidInput)
		}

		// Revertir el efecto anterior; el recorte a 0 se aplica al final.
		stock.QuantityAvailable -= mov.Delta()

		mov.Type = newType
		mov.Quantity = in.Quantity
		if in.Reason != nil {
			mov.Reason = *in.Reason
		}
		if in.Note != nil {
			mov.Note = *in.Note
		}
		if in.UserID != nil && *in.UserID != "" {
			mov.UserID = *in.UserID
		}
		if in.DateTime != nil && !in.DateTime.IsZero() {
			mov.DateTime = *in.DateTime
		}

		delta := mov.Delta()
		stock.ApplyDelta(delta)
		stock.UpdatedAt = now

		if err := r.Movements.Update(ctx, mov); err != nil {
			return err
		}
		if err := r.Stocks.Update(ctx, stock); err != nil {
			return err
		}
		ev = event.StockChanged{
			StockID:       stock.ID,
			MovementID:    mov.ID,
			MovementType:  newType,
			DeltaQuantity: delta,
			NewQuantity:   stock.QuantityAvailable,
			OccurredAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("stock_id", mov.StockID).
		Int("new_quantity", ev.NewQuantity).
		Msg("movimiento actualizado")
	uc.publish(ctx, ev)
	return toMovementResponse(mov), nil
}

// DeleteMovement elimina el movimiento y, si su stock sigue existiendo, revierte su efecto y
// publica un StockChanged con el tipo invertido.
func (uc *MovementUseCase) DeleteMovement(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id es requerido", domain.ErrInvalidInput)
	}

	now := uc.now()
	var ev event.StockChanged
	emit := false

	err := uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		mov, err := r.Movements.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
		}

		var stock *entity.Stock
		if mov.StockID != "" {
			if stock, err = r.Stocks.GetByIDForUpdate(ctx, mov.StockID); err != nil {
				return err
			}
		}
		if stock != nil {
			reversal := -mov.Delta()
			stock.ApplyDelta(reversal)
			stock.UpdatedAt = now
			if err := r.Stocks.Update(ctx, stock); err != nil {
				return err
			}
			ev = event.StockChanged{
				StockID:       stock.ID,
				MovementID:    mov.ID,
				MovementType:  mov.Type.Opposite(),
				DeltaQuantity: reversal,
				NewQuantity:   stock.QuantityAvailable,
				OccurredAt:    now,
			}
			emit = true
		}
		return r.Movements.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.log.Info().Str("movement_id", id).Bool("stock_reverted", emit).Msg("movimiento eliminado")
	if emit {
		uc.publish(ctx, ev)
	}
	return nil
}

// GetByID obtiene un movimiento; (nil, nil) si no existe.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	mov, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, nil
	}
	return toMovementResponse(mov), nil
}

// List lista movimientos, opcionalmente filtrados por stock.
func (uc *MovementUseCase) List(ctx context.Context, stockID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.Normalize()
	list, err := uc.movements.List(ctx, repository.MovementFilter{StockID: stockID, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// publish entrega el evento tras el Commit. El movimiento ya está confirmado: un fallo de los
// suscriptores se registra pero no se devuelve al cliente.
func (uc *MovementUseCase) publish(ctx context.Context, ev event.StockChanged) {
	if err := uc.publisher.PublishStockChanged(context.WithoutCancel(ctx), ev); err != nil {
		uc.log.Error().Err(err).
			Str("stock_id", ev.StockID).
			Str("movement_id", ev.MovementID).
			Msg("evaluación de alertas falló tras confirmar el movimiento")
	}
}

func lockStock(ctx context.Context, stocks repository.StockRepository, stockID, productID, siteID string) (*entity.Stock, error) {
	if stockID != "" {
		return stocks.GetByIDForUpdate(ctx, stockID)
	}
	return stocks.GetByProductAndSiteForUpdate(ctx, productID, siteID)
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:       m.ID,
		DateTime: m.DateTime,
		Reason:   m.Reason,
		Quantity: m.Quantity,
		Type:     string(m.Type),
		Note:     m.Note,
		StockID:  m.StockID,
		UserID:   m.UserID,
	}
}
