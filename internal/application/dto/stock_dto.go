package dto

import "time"

// CreateStockRequest entrada para crear el stock de un producto en un sitio.
type CreateStockRequest struct {
	ProductID         string `json:"productId"`
	SiteID            string `json:"siteId"`
	QuantityAvailable int    `json:"quantityAvailable"`
	AlertThreshold    int    `json:"alertThreshold"`
	SecurityThreshold int    `json:"securityThreshold"`
	MinimumThreshold  int    `json:"minimumThreshold"`
	MaximumThreshold  int    `json:"maximumThreshold"`
}

// UpdateStockRequest actualiza los umbrales. La cantidad solo cambia mediante movimientos.
type UpdateStockRequest struct {
	ID                string `json:"id"`
	AlertThreshold    *int   `json:"alertThreshold"`
	SecurityThreshold *int   `json:"securityThreshold"`
	MinimumThreshold  *int   `json:"minimumThreshold"`
	MaximumThreshold  *int   `json:"maximumThreshold"`
}

// StockResponse salida de un stock con nombres de producto y sitio.
type StockResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"productId"`
	ProductName       string    `json:"productName,omitempty"`
	SiteID            string    `json:"siteId"`
	SiteName          string    `json:"siteName,omitempty"`
	QuantityAvailable int       `json:"quantityAvailable"`
	AlertThreshold    int       `json:"alertThreshold"`
	SecurityThreshold int       `json:"securityThreshold"`
	MinimumThreshold  int       `json:"minimumThreshold"`
	MaximumThreshold  int       `json:"maximumThreshold"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// StockListResponse lista paginada de stocks.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
