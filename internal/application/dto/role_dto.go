package dto

import "time"

// CreateRoleRequest entrada para crear un rol.
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest entrada para actualizar un rol. Permissions nil no modifica la lista.
type UpdateRoleRequest struct {
	ID          string   `json:"id"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
