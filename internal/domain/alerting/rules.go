// Package alerting contiene las reglas puras de umbrales (servicio de dominio sin I/O).
package alerting

import "github.com/jhoicas/gestion-stock/internal/domain/entity"

// Thresholds los cuatro umbrales de un stock; 0 deshabilita el umbral.
type Thresholds struct {
	Alert    int
	Security int
	Minimum  int
	Maximum  int
}

// ThresholdsOf extrae los umbrales de un stock.
func ThresholdsOf(s *entity.Stock) Thresholds {
	return Thresholds{
		Alert:    s.AlertThreshold,
		Security: s.SecurityThreshold,
		Minimum:  s.MinimumThreshold,
		Maximum:  s.MaximumThreshold,
	}
}

// Decision resultado de evaluar una cantidad contra los umbrales.
// LowStock vacío significa que ninguna alerta de la jerarquía debe quedar abierta.
type Decision struct {
	LowStock         entity.AlertType
	LowStockSeverity entity.Severity
	Maximum          bool
}

// Evaluate aplica la jerarquía OUT_OF_STOCK > MIN_STOCK > STOCK_SECURITE > STOCK_ALERTE
// y, de forma independiente, la regla de stock máximo.
func Evaluate(qty int, t Thresholds) Decision {
	var d Decision
	switch {
	case qty == 0:
		d.LowStock, d.LowStockSeverity = entity.AlertOutOfStock, entity.SeverityCritical
	case t.Minimum > 0 && qty <= t.Minimum:
		d.LowStock, d.LowStockSeverity = entity.AlertMinStock, entity.SeverityCritical
	case t.Security > 0 && qty <= t.Security:
		d.LowStock, d.LowStockSeverity = entity.AlertStockSecurite, entity.SeverityWarning
	case t.Alert > 0 && qty <= t.Alert:
		d.LowStock, d.LowStockSeverity = entity.AlertStockAlerte, entity.SeverityWarning
	}
	d.Maximum = t.Maximum > 0 && qty >= t.Maximum
	return d
}

// InformationalType tipo de la alerta informativa asociada a un movimiento.
func InformationalType(t entity.MovementType) entity.AlertType {
	if t == entity.MovementEntry {
		return entity.AlertEntryValidated
	}
	return entity.AlertExitValidated
}
