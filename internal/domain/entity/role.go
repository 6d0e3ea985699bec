package entity

import "time"

// Role agrupa permisos. Name coincide con el claim "role" del JWT.
type Role struct {
	ID          string
	Name        string
	Description string
	Permissions []string // códigos, p.ej. "stock.read", "movement.write"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
