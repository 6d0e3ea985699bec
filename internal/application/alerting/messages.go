package alerting

import (
	"fmt"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// Los mensajes se muestran tal cual en la interfaz (en francés).

func informationalMessage(s *entity.StockDetails, mt entity.MovementType, delta int) string {
	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if mt == entity.MovementEntry {
		return fmt.Sprintf("Entrée validée : +%d %s sur le site %s. Nouvelle quantité : %d.",
			magnitude, s.ProductName, s.SiteName, s.QuantityAvailable)
	}
	return fmt.Sprintf("Sortie validée : -%d %s sur le site %s. Nouvelle quantité : %d.",
		magnitude, s.ProductName, s.SiteName, s.QuantityAvailable)
}

func thresholdMessage(t entity.AlertType, s *entity.StockDetails) string {
	qty := s.QuantityAvailable
	switch t {
	case entity.AlertOutOfStock:
		return fmt.Sprintf("Rupture de stock : %s sur le site %s (quantité 0).", s.ProductName, s.SiteName)
	case entity.AlertMinStock:
		return fmt.Sprintf("Stock minimum atteint : %s sur le site %s (%d ≤ %d).",
			s.ProductName, s.SiteName, qty, s.MinimumThreshold)
	case entity.AlertStockSecurite:
		return fmt.Sprintf("Stock de sécurité atteint : %s sur le site %s (%d ≤ %d).",
			s.ProductName, s.SiteName, qty, s.SecurityThreshold)
	case entity.AlertStockAlerte:
		return fmt.Sprintf("Seuil d'alerte atteint : %s sur le site %s (%d ≤ %d).",
			s.ProductName, s.SiteName, qty, s.AlertThreshold)
	case entity.AlertStockMaximum:
		return fmt.Sprintf("Stock maximum dépassé : %s sur le site %s (%d ≥ %d).",
			s.ProductName, s.SiteName, qty, s.MaximumThreshold)
	}
	return fmt.Sprintf("%s : %s sur le site %s (quantité %d).", t, s.ProductName, s.SiteName, qty)
}
