package rabbit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"dossier-status-service/internal/dto"
	"dossier-status-service/internal/service"
)

type IntakeConsumer struct {
	Service *service.DossierService
	Log     *zap.Logger
}

func NewIntakeConsumer(s *service.DossierService, log *zap.Logger) *IntakeConsumer {
	return &IntakeConsumer{Service: s, Log: log}
}

// IntakeMessage es el sobre que publica la herramienta de preparación.
// Si faltan campos opcionales quedan a cero y el servicio rellena defaults.
type IntakeMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		DossierID   string         `json:"dossierId"`
		Numero      string         `json:"numero"`
		MachineType string         `json:"machineType"`
		ClientName  string         `json:"clientName"`
		Phone       string         `json:"phone"`
		Address     string         `json:"address"`
		PostalCode  string         `json:"postalCode"`
		FormData    map[string]any `json:"formData"`
	} `json:"message"`
}

func (c *IntakeConsumer) Handle(msg []byte) error {
	c.Log.Info("evento recibido: dossier_intake")

	var event IntakeMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		c.Log.Error("error parseando mensaje", zap.Error(err))
		return err
	}

	_, err := c.Service.InitDossier(context.Background(), dto.IntakeRequest{
		DossierID:   event.Message.DossierID,
		Numero:      event.Message.Numero,
		MachineType: event.Message.MachineType,
		ClientName:  event.Message.ClientName,
		Phone:       event.Message.Phone,
		Address:     event.Message.Address,
		PostalCode:  event.Message.PostalCode,
		FormData:    event.Message.FormData,
	})
	if err == service.ErrDossierExists {
		// Reentrega de Rabbit: el alta ya se procesó, no es un fallo
		c.Log.Info("dossier ya dado de alta", zap.String("dossier_id", event.Message.DossierID))
		return nil
	}
	if err != nil {
		c.Log.Error("error creando dossier", zap.Error(err))
		return err
	}

	c.Log.Info("alta procesada", zap.String("dossier_id", event.Message.DossierID))
	return nil
}
