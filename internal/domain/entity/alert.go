package entity

import "time"

// AlertType tipos de alerta.
type AlertType string

const (
	AlertEntryValidated AlertType = "ENTRY_VALIDATED"
	AlertExitValidated  AlertType = "EXIT_VALIDATED"
	AlertOutOfStock     AlertType = "OUT_OF_STOCK"
	AlertMinStock       AlertType = "MIN_STOCK"
	AlertStockSecurite  AlertType = "STOCK_SECURITE"
	AlertStockAlerte    AlertType = "STOCK_ALERTE"
	AlertStockMaximum   AlertType = "STOCK_MAXIMUM"
)

// ThresholdAlertTypes jerarquía de stock bajo, de mayor a menor prioridad.
var ThresholdAlertTypes = []AlertType{
	AlertOutOfStock,
	AlertMinStock,
	AlertStockSecurite,
	AlertStockAlerte,
}

// Severity gravedad de una alerta.
type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
)

// AlertStatus estado de ciclo de vida.
type AlertStatus string

const (
	AlertOpen   AlertStatus = "Open"
	AlertClosed AlertStatus = "Closed"
)

// Alert alerta derivada de la evaluación de un stock.
type Alert struct {
	ID           string
	Type         AlertType
	Message      string
	DateCreation time.Time
	Resolved     bool
	Severity     Severity
	Status       AlertStatus
	Fingerprint  string
	ClosedAt     *time.Time
	StockID      string
}

// Fingerprint clave de deduplicación "{type}|{stockId}".
func Fingerprint(t AlertType, stockID string) string {
	return string(t) + "|" + stockID
}

// Close cierra la alerta. Devuelve false si ya estaba cerrada.
func (a *Alert) Close(at time.Time) bool {
	if a.Status == AlertClosed {
		return false
	}
	a.Status = AlertClosed
	a.Resolved = true
	a.ClosedAt = &at
	return true
}
