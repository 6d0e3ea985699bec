package dto

import "time"

// CreateMovementRequest body de POST /api/StockMovements/AddStockMovement.
// El stock se resuelve por StockID o, si viene vacío, por ProductID + SiteID.
type CreateMovementRequest struct {
	StockID   string     `json:"stockId,omitempty"`
	ProductID string     `json:"productId,omitempty"`
	SiteID    string     `json:"siteId,omitempty"`
	Quantity  int        `json:"quantity"`
	Type      string     `json:"type"` // entry/entrée, exit/sortie
	Reason    string     `json:"reason"`
	Note      string     `json:"note,omitempty"`
	UserID    string     `json:"userId,omitempty"`
	DateTime  *time.Time `json:"dateTime,omitempty"`
}

// UpdateMovementRequest body de PUT /api/StockMovements/UpdateStockMovement.
// Type y Quantity siempre se aplican; el resto solo si viene informado.
type UpdateMovementRequest struct {
	ID       string     `json:"id"`
	Quantity int        `json:"quantity"`
	Type     string     `json:"type"`
	Reason   *string    `json:"reason,omitempty"`
	Note     *string    `json:"note,omitempty"`
	UserID   *string    `json:"userId,omitempty"`
	DateTime *time.Time `json:"dateTime,omitempty"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID       string    `json:"id"`
	DateTime time.Time `json:"dateTime"`
	Reason   string    `json:"reason"`
	Quantity int       `json:"quantity"`
	Type     string    `json:"type"`
	Note     string    `json:"note,omitempty"`
	StockID  string    `json:"stockId,omitempty"`
	UserID   string    `json:"userId,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
