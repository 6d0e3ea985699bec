package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/gestion-stock/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// isInvalidTextRepresentation 22P02: p.ej. un id que no es uuid.
func isInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}

// dbError envuelve un error de pgx con la operación. Un valor con formato inválido
// (22P02) se reporta como domain.ErrInvalidInput.
func dbError(op string, err error) error {
	if isInvalidTextRepresentation(err) {
		return fmt.Errorf("%w: %s: identificador o valor con formato inválido", domain.ErrInvalidInput, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullIfEmpty convierte "" en NULL para columnas uuid opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// limitArg LIMIT NULL devuelve todas las filas.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
