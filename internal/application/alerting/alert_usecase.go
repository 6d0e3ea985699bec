package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// ReportRow línea del informe de alertas abiertas.
type ReportRow struct {
	Type     string
	Severity string
	Product  string
	Site     string
	Quantity int
	Message  string
	Since    time.Time
}

// ReportGenerator genera el documento del informe (PDF en producción).
type ReportGenerator interface {
	AlertReport(generatedAt time.Time, rows []ReportRow) ([]byte, error)
}

// reportLimit máximo de alertas abiertas incluidas en un informe.
const reportLimit = 1000

// AlertUseCase consulta, resuelve, elimina y exporta alertas.
type AlertUseCase struct {
	alerts   repository.AlertRepository
	stocks   repository.StockRepository
	report   ReportGenerator
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewAlertUseCase construye el caso de uso. report y notifier pueden ser nil.
func NewAlertUseCase(
	alerts repository.AlertRepository,
	stocks repository.StockRepository,
	report ReportGenerator,
	notifier Notifier,
	log *logger.Logger,
) *AlertUseCase {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &AlertUseCase{
		alerts:   alerts,
		stocks:   stocks,
		report:   report,
		notifier: notifier,
		log:      log.Named("alerts"),
		now:      time.Now,
	}
}

// List lista alertas con filtros opcionales por stock, estado y tipo.
func (uc *AlertUseCase) List(ctx context.Context, q dto.AlertQuery) (*dto.AlertListResponse, error) {
	filter := repository.AlertFilter{StockID: q.StockID}
	if q.Status != "" {
		status := entity.AlertStatus(q.Status)
		if status != entity.AlertOpen && status != entity.AlertClosed {
			return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, q.Status)
		}
		filter.Status = status
	}
	if q.Type != "" {
		filter.Type = entity.AlertType(q.Type)
	}
	page := q.PageRequest
	page.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	list, err := uc.alerts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAlertResponse(a))
	}
	return &dto.AlertListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetByID obtiene una alerta; (nil, nil) si no existe.
func (uc *AlertUseCase) GetByID(ctx context.Context, id string) (*dto.AlertResponse, error) {
	a, err := uc.alerts.GetByID(ctx, id)
	if err != nil || a == nil {
		return nil, err
	}
	return toAlertResponse(a), nil
}

// Resolve cierra manualmente una alerta. Resolver una alerta ya cerrada no la modifica.
// Si el stock sigue bajo el umbral, el siguiente movimiento abrirá una alerta nueva.
func (uc *AlertUseCase) Resolve(ctx context.Context, id string) (*dto.AlertResponse, error) {
	a, err := uc.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: alerta %s", domain.ErrNotFound, id)
	}
	if !a.Close(uc.now()) {
		return toAlertResponse(a), nil
	}
	if err := uc.alerts.Update(ctx, a); err != nil {
		return nil, err
	}
	uc.log.Info().Str("alert_id", a.ID).Str("type", string(a.Type)).Msg("alerta resuelta manualmente")
	uc.notifier.AlertClosed(ctx, *a)
	return toAlertResponse(a), nil
}

// Delete elimina una alerta.
func (uc *AlertUseCase) Delete(ctx context.Context, id string) error {
	return uc.alerts.Delete(ctx, id)
}

// ExportOpen genera el informe de alertas abiertas, opcionalmente de un solo stock.
func (uc *AlertUseCase) ExportOpen(ctx context.Context, stockID string) ([]byte, error) {
	if uc.report == nil {
		return nil, fmt.Errorf("generador de informes no configurado")
	}
	list, err := uc.alerts.List(ctx, repository.AlertFilter{
		StockID: stockID,
		Status:  entity.AlertOpen,
		Limit:   reportLimit,
	})
	if err != nil {
		return nil, err
	}

	details := make(map[string]*entity.StockDetails)
	rows := make([]ReportRow, 0, len(list))
	for _, a := range list {
		d, ok := details[a.StockID]
		if !ok {
			if d, err = uc.stocks.GetDetails(ctx, a.StockID); err != nil {
				return nil, err
			}
			details[a.StockID] = d
		}
		row := ReportRow{
			Type:     string(a.Type),
			Severity: string(a.Severity),
			Message:  a.Message,
			Since:    a.DateCreation,
		}
		if d != nil {
			row.Product, row.Site, row.Quantity = d.ProductName, d.SiteName, d.QuantityAvailable
		}
		rows = append(rows, row)
	}
	return uc.report.AlertReport(uc.now(), rows)
}

func toAlertResponse(a *entity.Alert) *dto.AlertResponse {
	if a == nil {
		return nil
	}
	return &dto.AlertResponse{
		ID:           a.ID,
		Type:         string(a.Type),
		Message:      a.Message,
		DateCreation: a.DateCreation,
		Resolved:     a.Resolved,
		Severity:     string(a.Severity),
		Status:       string(a.Status),
		Fingerprint:  a.Fingerprint,
		ClosedAt:     a.ClosedAt,
		StockID:      a.StockID,
	}
}
