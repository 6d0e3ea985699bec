package dto

import "time"

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Message      string     `json:"message"`
	DateCreation time.Time  `json:"dateCreation"`
	Resolved     bool       `json:"resolved"`
	Severity     string     `json:"severity"`
	Status       string     `json:"status"`
	Fingerprint  string     `json:"fingerprint"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
	StockID      string     `json:"stockId"`
}

// AlertListResponse lista paginada de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AlertQuery filtros de GET /api/Alerts/GetAlerts.
type AlertQuery struct {
	StockID string
	Status  string
	Type    string
	PageRequest
}
