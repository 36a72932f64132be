// setup.go
package rabbit

import (
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"dossier-status-service/internal/service"
)

// SetupConsumers suscribe el servicio al exchange fanout de la herramienta de
// preparación: cada dossier validado allí entra aquí como alta.
func SetupConsumers(ch *amqp091.Channel, svc *service.DossierService, log *zap.Logger) {
	consumer := NewIntakeConsumer(svc, log)

	// 1. Declarar la queue propia de este micro
	q, err := ch.QueueDeclare(
		"dossier_status_service_intake",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Error("error declarando queue", zap.Error(err))
		return
	}

	// 2. Bindear al exchange fanout
	err = ch.QueueBind(
		q.Name,
		"", // fanout ignora routing key
		"dossier_intake",
		false,
		nil,
	)
	if err != nil {
		log.Error("error binding exchange", zap.Error(err))
		return
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Error("error al consumir queue", zap.Error(err))
		return
	}

	go func() {
		for m := range msgs {
			consumer.Handle(m.Body)
		}
	}()

	log.Info("suscrito a exchange dossier_intake (fanout)")
}
