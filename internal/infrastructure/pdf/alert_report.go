// Package pdf genera el informe de alertas abiertas con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación + total de alertas     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Critical / Warning                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Gravedad | Tipo | Producto | Sitio | Cant. | Desde   │
//	│         mensaje de la alerta                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/gestion-stock/internal/application/alerting"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorWarning  = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ alerting.ReportGenerator = (*AlertReportGenerator)(nil)

// AlertReportGenerator implementa alerting.ReportGenerator usando Maroto v2.
type AlertReportGenerator struct {
	author string
}

// NewAlertReportGenerator construye el generador; author aparece en los metadatos del PDF.
func NewAlertReportGenerator(author string) *AlertReportGenerator {
	return &AlertReportGenerator{author: author}
}

// AlertReport genera el PDF y devuelve sus bytes.
func (g *AlertReportGenerator) AlertReport(generatedAt time.Time, rows []alerting.ReportRow) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Alertes de stock", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt, len(rows)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(rows))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Aucune alerte ouverte.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	for _, r := range rows {
		m.AddRows(alertRows(r)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar informe de alertas: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time, total int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("RAPPORT DES ALERTES OUVERTES", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Généré le "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(strconv.Itoa(total)+" alerte(s)", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 3,
			}),
		),
	)
}

func summaryRow(rows []alerting.ReportRow) core.Row {
	var critical, warning int
	for _, r := range rows {
		switch r.Severity {
		case "Critical":
			critical++
		case "Warning":
			warning++
		}
	}
	return row.New(8).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Critiques : %d", critical), props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorCritical, Top: 2,
		})),
		col.New(6).Add(text.New(fmt.Sprintf("Avertissements : %d", warning), props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorWarning, Top: 2,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Gravité", 1, align.Left),
		h("Type", 2, align.Left),
		h("Produit", 3, align.Left),
		h("Site", 3, align.Left),
		h("Qté", 1, align.Right),
		h("Depuis", 2, align.Right),
	)
}

// alertRows: fila de datos más una fila con el mensaje.
func alertRows(r alerting.ReportRow) []core.Row {
	sevColor := colorWarning
	if r.Severity == "Critical" {
		sevColor = colorCritical
	}
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return []core.Row{
		row.New(6).Add(
			col.New(1).Add(text.New(r.Severity, props.Text{Style: fontstyle.Bold, Size: 7, Color: sevColor, Top: 1, Left: 1})),
			cell(r.Type, 2, align.Left),
			cell(nonEmpty(r.Product, "-"), 3, align.Left),
			cell(nonEmpty(r.Site, "-"), 3, align.Left),
			cell(strconv.Itoa(r.Quantity), 1, align.Right),
			cell(r.Since.Format("02/01/2006 15:04"), 2, align.Right),
		),
		row.New(6).Add(col.New(12).Add(
			text.New(r.Message, props.Text{Size: 7, Color: colorGray, Left: 3}),
		)),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.1}),
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
