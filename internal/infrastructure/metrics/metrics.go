// Package metrics expone contadores Prometheus de movimientos y alertas.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/gestion-stock/internal/application/alerting"
	"github.com/jhoicas/gestion-stock/internal/application/events"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/event"
)

const namespace = "gestion_stock"

var (
	_ alerting.Notifier          = (*Metrics)(nil)
	_ events.StockChangedHandler = (*Metrics)(nil)
)

// Metrics registro propio (no el global) con los contadores del dominio.
type Metrics struct {
	registry     *prometheus.Registry
	stockChanges *prometheus.CounterVec
	units        *prometheus.CounterVec
	alertsOpened *prometheus.CounterVec
	alertsClosed *prometheus.CounterVec
	evalFailures prometheus.Counter
}

// New registra los colectores. Incluye las métricas de proceso y runtime de Go.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stockChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_changes_total",
			Help:      "Cambios de stock publicados, por tipo de movimiento.",
		}, []string{"type"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_total",
			Help:      "Unidades movidas (valor absoluto del delta), por tipo de movimiento.",
		}, []string{"type"}),
		alertsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_opened_total",
			Help:      "Alertas de umbral abiertas.",
		}, []string{"type", "severity"}),
		alertsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_closed_total",
			Help:      "Alertas de umbral cerradas (automática o manualmente).",
		}, []string{"type"}),
		evalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_evaluation_failures_total",
			Help:      "Evaluaciones de alertas fallidas tras confirmar un movimiento.",
		}),
	}
	m.registry.MustRegister(
		m.stockChanges, m.units, m.alertsOpened, m.alertsClosed, m.evalFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// HandleStockChanged cuenta el cambio; nunca falla.
func (m *Metrics) HandleStockChanged(_ context.Context, ev event.StockChanged) error {
	t := string(ev.MovementType)
	m.stockChanges.WithLabelValues(t).Inc()
	delta := ev.DeltaQuantity
	if delta < 0 {
		delta = -delta
	}
	m.units.WithLabelValues(t).Add(float64(delta))
	return nil
}

// AlertOpened implementa alerting.Notifier.
func (m *Metrics) AlertOpened(_ context.Context, a entity.Alert) {
	m.alertsOpened.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
}

// AlertClosed implementa alerting.Notifier.
func (m *Metrics) AlertClosed(_ context.Context, a entity.Alert) {
	m.alertsClosed.WithLabelValues(string(a.Type)).Inc()
}

// EvaluationFailed incrementa el contador de evaluaciones fallidas.
func (m *Metrics) EvaluationFailed() {
	m.evalFailures.Inc()
}

// CountFailures envuelve un suscriptor y cuenta sus errores como evaluaciones fallidas.
func (m *Metrics) CountFailures(h events.StockChangedHandler) events.StockChangedHandler {
	return events.HandlerFunc(func(ctx context.Context, ev event.StockChanged) error {
		err := h.HandleStockChanged(ctx, ev)
		if err != nil {
			m.EvaluationFailed()
		}
		return err
	})
}

// Registry devuelve el registro (tests y colectores adicionales).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler sirve el formato de exposición de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
