package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/alerting"
)

func TestAlertReport_GeneratesPDF(t *testing.T) {
	g := NewAlertReportGenerator("gestion-stock")
	rows := []alerting.ReportRow{
		{Type: "OUT_OF_STOCK", Severity: "Critical", Product: "Cemento", Site: "Bodega Norte", Quantity: 0,
			Message: "Rupture de stock", Since: time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)},
		{Type: "STOCK_ALERTE", Severity: "Warning", Product: "Arena", Site: "Tienda Sur", Quantity: 4,
			Message: "Seuil d'alerte atteint", Since: time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)},
	}

	out, err := g.AlertReport(time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC), rows)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestAlertReport_Empty(t *testing.T) {
	out, err := NewAlertReportGenerator("").AlertReport(time.Now(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
