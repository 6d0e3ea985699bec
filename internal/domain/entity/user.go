package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RoleStockManager = "gestionnaire_de_stock"
	RoleOperator     = "operateur"
)

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStockManager, RoleOperator:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Role         string // admin, gestionnaire_de_stock, operateur
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
