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

var _ repository.SiteRepository = (*SiteRepo)(nil)

// SiteRepo implementación del puerto SiteRepository sobre PostgreSQL.
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador de persistencia para sitios.
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

// Create persiste un nuevo sitio.
func (r *SiteRepo) Create(ctx context.Context, s *entity.Site) error {
	query := `
		INSERT INTO sites (id, name, address, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Address, s.Type, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return dbError("insert site", err)
	}
	return nil
}

// GetByID obtiene un sitio por ID.
func (r *SiteRepo) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	query := `SELECT id, name, address, type, created_at, updated_at FROM sites WHERE id = $1`
	var s entity.Site
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Address, &s.Type, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get site", err)
	}
	return &s, nil
}

// Update actualiza un sitio existente.
func (r *SiteRepo) Update(ctx context.Context, s *entity.Site) error {
	query := `UPDATE sites SET name = $2, address = $3, type = $4, updated_at = $5 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Address, s.Type, s.UpdatedAt)
	if err != nil {
		return dbError("update site", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: sitio %s", domain.ErrNotFound, s.ID)
	}
	return nil
}

// List lista sitios con paginación.
func (r *SiteRepo) List(ctx context.Context, limit, offset int) ([]*entity.Site, error) {
	query := `
		SELECT id, name, address, type, created_at, updated_at
		FROM sites ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, dbError("list sites", err)
	}
	defer rows.Close()
	var list []*entity.Site
	for rows.Next() {
		var s entity.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Type, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, dbError("scan site", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina un sitio y, en cascada, sus stocks.
func (r *SiteRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return dbError("delete site", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: sitio %s", domain.ErrNotFound, id)
	}
	return nil
}
