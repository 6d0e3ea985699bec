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

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// stock_id es NULL cuando el stock fue eliminado.
const movementColumns = `id, date_time, reason, quantity, type, note, COALESCE(stock_id::text, ''), user_id`

// MovementRepo implementación de StockMovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var mt string
	if err := row.Scan(&m.ID, &m.DateTime, &m.Reason, &m.Quantity, &mt, &m.Note, &m.StockID, &m.UserID); err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(mt)
	return &m, nil
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, date_time, reason, quantity, type, note, stock_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.DateTime, m.Reason, m.Quantity, string(m.Type), m.Note, nullIfEmpty(m.StockID), m.UserID,
	)
	if err != nil {
		return dbError("insert stock movement", err)
	}
	return nil
}

func (r *MovementRepo) getOne(ctx context.Context, op, query, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError(op, err)
	}
	return m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.getOne(ctx, "get stock movement", `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el movimiento bloqueando la fila.
func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.getOne(ctx, "get stock movement for update",
		`SELECT `+movementColumns+` FROM stock_movements WHERE id = $1 FOR UPDATE`, id)
}

// Update reescribe todos los campos del movimiento.
func (r *MovementRepo) Update(ctx context.Context, m *entity.StockMovement) error {
	query := `
		UPDATE stock_movements SET date_time = $2, reason = $3, quantity = $4, type = $5, note = $6,
			stock_id = $7, user_id = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, m.DateTime, m.Reason, m.Quantity, string(m.Type), m.Note, nullIfEmpty(m.StockID), m.UserID,
	)
	if err != nil {
		return dbError("update stock movement", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, m.ID)
	}
	return nil
}

// Delete elimina un movimiento; ErrNotFound si no había fila.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return dbError("delete stock movement", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return nil
}

// List lista movimientos por fecha descendente con filtros opcionales.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE ($1 = '' OR stock_id::text = $1)
		  AND ($2::timestamptz IS NULL OR date_time >= $2)
		  AND ($3::timestamptz IS NULL OR date_time <= $3)
		ORDER BY date_time DESC, id
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.StockID, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, dbError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, dbError("scan stock movement", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
