package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, type, message, date_creation, resolved, severity, status, fingerprint, closed_at, stock_id`

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	var t, sev, status string
	if err := row.Scan(&a.ID, &t, &a.Message, &a.DateCreation, &a.Resolved, &sev, &status,
		&a.Fingerprint, &a.ClosedAt, &a.StockID); err != nil {
		return nil, err
	}
	a.Type, a.Severity, a.Status = entity.AlertType(t), entity.Severity(sev), entity.AlertStatus(status)
	return &a, nil
}

// Create inserta una alerta. El índice único parcial impide dos alertas abiertas con el mismo fingerprint.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, string(a.Type), a.Message, a.DateCreation, a.Resolved,
		string(a.Severity), string(a.Status), a.Fingerprint, a.ClosedAt, a.StockID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: alerta abierta %s", domain.ErrConflict, a.Fingerprint)
		}
		return dbError("insert alert", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get alert", err)
	}
	return a, nil
}

// FindOpenByTypeAndStock busca la alerta abierta del fingerprint (índice fingerprint, status).
func (r *AlertRepo) FindOpenByTypeAndStock(ctx context.Context, alertType entity.AlertType, stockID string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE fingerprint = $1 AND status = $2 LIMIT 1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, entity.Fingerprint(alertType, stockID), string(entity.AlertOpen)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("find open alert", err)
	}
	return a, nil
}

// Update persiste el estado mutable de la alerta.
func (r *AlertRepo) Update(ctx context.Context, a *entity.Alert) error {
	query := `
		UPDATE alerts SET message = $2, date_creation = $3, resolved = $4, severity = $5, status = $6, closed_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.Message, a.DateCreation, a.Resolved, string(a.Severity), string(a.Status), a.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: alerta abierta %s", domain.ErrConflict, a.Fingerprint)
		}
		return dbError("update alert", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: alerta %s", domain.ErrNotFound, a.ID)
	}
	return nil
}

// List lista alertas por fecha descendente con filtros opcionales.
func (r *AlertRepo) List(ctx context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts
		WHERE ($1 = '' OR stock_id::text = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR type = $3)
		ORDER BY date_creation DESC, id
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.StockID, string(f.Status), string(f.Type), limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, dbError("list alerts", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, dbError("scan alert", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Delete elimina una alerta.
func (r *AlertRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return dbError("delete alert", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: alerta %s", domain.ErrNotFound, id)
	}
	return nil
}
