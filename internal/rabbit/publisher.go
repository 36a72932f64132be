package rabbit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"dossier-status-service/internal/model"
)

const eventsExchange = "dossier_events"

// Publisher emite dossier.created / dossier.updated en un exchange fanout
// para los dashboards y el servicio de notificaciones. Un fallo al publicar
// se loguea y ya: la operación de negocio no depende de él.
type Publisher struct {
	ch  *amqp091.Channel
	log *zap.Logger
}

func NewPublisher(ch *amqp091.Channel, log *zap.Logger) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		eventsExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, log: log}, nil
}

type eventEnvelope struct {
	Event     string         `json:"event"`
	Dossier   *model.Dossier `json:"dossier"`
	Timestamp time.Time      `json:"timestamp"`
}

func (p *Publisher) Publish(event string, d *model.Dossier) {
	body, err := json.Marshal(eventEnvelope{
		Event:     event,
		Dossier:   d,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		p.log.Error("error serializando evento", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx,
		eventsExchange,
		"", // fanout ignora routing key
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		p.log.Error("error publicando evento",
			zap.String("event", event),
			zap.Error(err))
		return
	}

	p.log.Debug("evento publicado",
		zap.String("event", event),
		zap.String("dossier_id", d.ID))
}
