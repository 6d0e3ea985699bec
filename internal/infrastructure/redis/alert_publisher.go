// Package redis publica las transiciones de alertas en un canal pub/sub de Redis.
package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestion-stock/internal/application/alerting"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/config"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

const publishTimeout = 2 * time.Second

var _ alerting.Notifier = (*AlertPublisher)(nil)

// AlertMessage cuerpo JSON publicado en el canal.
type AlertMessage struct {
	Event        string     `json:"event"`
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Severity     string     `json:"severity"`
	Status       string     `json:"status"`
	Message      string     `json:"message"`
	StockID      string     `json:"stockId"`
	Fingerprint  string     `json:"fingerprint"`
	DateCreation time.Time  `json:"dateCreation"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
}

// AlertPublisher implementa alerting.Notifier. Los errores de Redis se registran y no se propagan.
type AlertPublisher struct {
	client  *goredis.Client
	channel string
	log     *logger.Logger
}

// NewAlertPublisher crea el cliente; no conecta hasta el primer comando (ver Ping).
func NewAlertPublisher(cfg config.RedisConfig, log *logger.Logger) *AlertPublisher {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &AlertPublisher{client: client, channel: cfg.Channel, log: log.Named("redis")}
}

func (p *AlertPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *AlertPublisher) Close() error {
	return p.client.Close()
}

// AlertOpened publica {"event":"opened",...}.
func (p *AlertPublisher) AlertOpened(ctx context.Context, a entity.Alert) {
	p.publish(ctx, "opened", a)
}

// AlertClosed publica {"event":"closed",...}.
func (p *AlertPublisher) AlertClosed(ctx context.Context, a entity.Alert) {
	p.publish(ctx, "closed", a)
}

func (p *AlertPublisher) publish(ctx context.Context, kind string, a entity.Alert) {
	payload, err := buildMessage(kind, a)
	if err != nil {
		p.log.Error().Err(err).Str("alert_id", a.ID).Msg("serializar alerta")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Warn().Err(err).
			Str("channel", p.channel).
			Str("alert_id", a.ID).
			Str("event", kind).
			Msg("no se pudo publicar la alerta")
	}
}

func buildMessage(kind string, a entity.Alert) ([]byte, error) {
	return json.Marshal(AlertMessage{
		Event:        kind,
		ID:           a.ID,
		Type:         string(a.Type),
		Severity:     string(a.Severity),
		Status:       string(a.Status),
		Message:      a.Message,
		StockID:      a.StockID,
		Fingerprint:  a.Fingerprint,
		DateCreation: a.DateCreation,
		ClosedAt:     a.ClosedAt,
	})
}
