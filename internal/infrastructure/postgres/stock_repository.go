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

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `s.id, s.product_id, s.site_id, s.quantity_available,
	s.alert_threshold, s.security_threshold, s.minimum_threshold, s.maximum_threshold,
	s.created_at, s.updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row, s *entity.Stock, extra ...any) error {
	dest := []any{
		&s.ID, &s.ProductID, &s.SiteID, &s.QuantityAvailable,
		&s.AlertThreshold, &s.SecurityThreshold, &s.MinimumThreshold, &s.MaximumThreshold,
		&s.CreatedAt, &s.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *StockRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Stock, error) {
	var s entity.Stock
	if err := scanStock(r.q.QueryRow(ctx, query, args...), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError(op, err)
	}
	return &s, nil
}

// Create inserta un stock. El par (product_id, site_id) es único.
func (r *StockRepo) Create(ctx context.Context, s *entity.Stock) error {
	query := `
		INSERT INTO stocks (id, product_id, site_id, quantity_available,
			alert_threshold, security_threshold, minimum_threshold, maximum_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProductID, s.SiteID, s.QuantityAvailable,
		s.AlertThreshold, s.SecurityThreshold, s.MinimumThreshold, s.MaximumThreshold,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe stock para el producto y sitio", domain.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o sitio inexistente", domain.ErrInvalidInput)
		}
		return dbError("insert stock", err)
	}
	return nil
}

// GetByID obtiene un stock por ID.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.Stock, error) {
	return r.getOne(ctx, "get stock", `SELECT `+stockColumns+` FROM stocks s WHERE s.id = $1`, id)
}

// GetByIDForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Stock, error) {
	return r.getOne(ctx, "get stock for update", `SELECT `+stockColumns+` FROM stocks s WHERE s.id = $1 FOR UPDATE`, id)
}

// GetByProductAndSite obtiene el stock de un producto en un sitio.
func (r *StockRepo) GetByProductAndSite(ctx context.Context, productID, siteID string) (*entity.Stock, error) {
	return r.getOne(ctx, "get stock by product and site",
		`SELECT `+stockColumns+` FROM stocks s WHERE s.product_id = $1 AND s.site_id = $2`, productID, siteID)
}

// GetByProductAndSiteForUpdate igual que GetByProductAndSite bloqueando la fila.
func (r *StockRepo) GetByProductAndSiteForUpdate(ctx context.Context, productID, siteID string) (*entity.Stock, error) {
	return r.getOne(ctx, "get stock by product and site for update",
		`SELECT `+stockColumns+` FROM stocks s WHERE s.product_id = $1 AND s.site_id = $2 FOR UPDATE`, productID, siteID)
}

const stockDetailsFrom = `
	FROM stocks s
	JOIN products p ON p.id = s.product_id
	JOIN sites st ON st.id = s.site_id`

// GetDetails obtiene el stock con nombre de producto y sitio.
func (r *StockRepo) GetDetails(ctx context.Context, id string) (*entity.StockDetails, error) {
	query := `SELECT ` + stockColumns + `, p.name, st.name` + stockDetailsFrom + ` WHERE s.id = $1`
	var d entity.StockDetails
	if err := scanStock(r.q.QueryRow(ctx, query, id), &d.Stock, &d.ProductName, &d.SiteName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get stock details", err)
	}
	return &d, nil
}

// List lista stocks con filtros opcionales por producto y sitio.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter) ([]*entity.StockDetails, error) {
	query := `SELECT ` + stockColumns + `, p.name, st.name` + stockDetailsFrom + `
		WHERE ($1 = '' OR s.product_id::text = $1)
		  AND ($2 = '' OR s.site_id::text = $2)
		ORDER BY p.name, s.id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.ProductID, f.SiteID, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, dbError("list stocks", err)
	}
	defer rows.Close()
	var list []*entity.StockDetails
	for rows.Next() {
		var d entity.StockDetails
		if err := scanStock(rows, &d.Stock, &d.ProductName, &d.SiteName); err != nil {
			return nil, dbError("scan stock", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Update persiste cantidad y umbrales.
func (r *StockRepo) Update(ctx context.Context, s *entity.Stock) error {
	query := `
		UPDATE stocks SET quantity_available = $2,
			alert_threshold = $3, security_threshold = $4, minimum_threshold = $5, maximum_threshold = $6,
			updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.QuantityAvailable,
		s.AlertThreshold, s.SecurityThreshold, s.MinimumThreshold, s.MaximumThreshold,
		s.UpdatedAt,
	)
	if err != nil {
		return dbError("update stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock %s", domain.ErrNotFound, s.ID)
	}
	return nil
}

// UpdateThresholds persiste solo los umbrales; quantity_available no se toca para no pisar
// movimientos confirmados entre la lectura y la escritura.
func (r *StockRepo) UpdateThresholds(ctx context.Context, s *entity.Stock) error {
	query := `
		UPDATE stocks SET
			alert_threshold = $2, security_threshold = $3, minimum_threshold = $4, maximum_threshold = $5,
			updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.AlertThreshold, s.SecurityThreshold, s.MinimumThreshold, s.MaximumThreshold, s.UpdatedAt,
	)
	if err != nil {
		return dbError("update stock thresholds", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock %s", domain.ErrNotFound, s.ID)
	}
	return nil
}

// Delete elimina un stock; las alertas se borran en cascada y los movimientos quedan con stock_id NULL.
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return dbError("delete stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock %s", domain.ErrNotFound, id)
	}
	return nil
}
