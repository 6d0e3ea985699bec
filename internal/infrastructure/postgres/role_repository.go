package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo roles en "roles" y sus permisos en "role_permissions".
// Necesita el pool para escribir rol y permisos en una misma transacción.
type RoleRepo struct {
	pool *pgxpool.Pool
}

// NewRoleRepository construye el adaptador de roles.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepo {
	return &RoleRepo{pool: pool}
}

const roleSelect = `
	SELECT r.id, r.name, r.description, r.created_at, r.updated_at,
		COALESCE(array_agg(rp.permission ORDER BY rp.permission) FILTER (WHERE rp.permission IS NOT NULL), '{}')
	FROM roles r
	LEFT JOIN role_permissions rp ON rp.role_id = r.id`

func scanRole(row pgx.Row) (*entity.Role, error) {
	var role entity.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt, &role.Permissions); err != nil {
		return nil, err
	}
	return &role, nil
}

// Create inserta el rol con sus permisos.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO roles (id, name, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)`,
			role.ID, role.Name, role.Description, role.CreatedAt, role.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return dbError("insert role", err)
		}
		return replacePermissions(ctx, tx, role.ID, role.Permissions)
	})
}

func (r *RoleRepo) getOne(ctx context.Context, op, where, arg string) (*entity.Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, roleSelect+` WHERE `+where+` GROUP BY r.id`, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError(op, err)
	}
	return role, nil
}

// GetByID obtiene un rol por ID.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	return r.getOne(ctx, "get role", "r.id = $1", id)
}

// GetByName obtiene un rol por nombre.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.getOne(ctx, "get role by name", "r.name = $1", name)
}

// Update actualiza descripción y reemplaza los permisos.
func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `UPDATE roles SET description = $2, updated_at = $3 WHERE id = $1`,
			role.ID, role.Description, role.UpdatedAt)
		if err != nil {
			return dbError("update role", err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("%w: rol %s", domain.ErrNotFound, role.ID)
		}
		return replacePermissions(ctx, tx, role.ID, role.Permissions)
	})
}

// List devuelve todos los roles por nombre.
func (r *RoleRepo) List(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.pool.Query(ctx, roleSelect+` GROUP BY r.id ORDER BY r.name`)
	if err != nil {
		return nil, dbError("list roles", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, dbError("scan role", err)
		}
		list = append(list, role)
	}
	return list, rows.Err()
}

// Delete elimina un rol; los permisos se borran en cascada.
func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return dbError("delete role", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: rol %s", domain.ErrNotFound, id)
	}
	return nil
}

func replacePermissions(ctx context.Context, tx pgx.Tx, roleID string, perms []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return dbError("clear role permissions", err)
	}
	if len(perms) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(perms))
	for _, p := range perms {
		rows = append(rows, []any{roleID, p})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"role_permissions"}, []string{"role_id", "permission"}, pgx.CopyFromRows(rows)); err != nil {
		return dbError("insert role permissions", err)
	}
	return nil
}
