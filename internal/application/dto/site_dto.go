package dto

import "time"

// CreateSiteRequest entrada para crear un sitio.
type CreateSiteRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type"` // warehouse, store
}

// UpdateSiteRequest entrada para actualizar un sitio.
type UpdateSiteRequest struct {
	ID      string  `json:"id"`
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Type    *string `json:"type"`
}

// SiteResponse salida de un sitio.
type SiteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SiteListResponse lista paginada de sitios.
type SiteListResponse struct {
	Items []SiteResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
