// dto.go
package dto

import "time"

// IntakeRequest lo usan la API y el consumer de Rabbit para dar de alta un
// dossier que llega de la herramienta de preparación.
type IntakeRequest struct {
	DossierID   string         `json:"dossierId"`
	Numero      string         `json:"numero"`
	MachineType string         `json:"machineType"`
	ClientName  string         `json:"clientName" binding:"required"`
	Phone       string         `json:"phone"`
	Address     string         `json:"address"`
	PostalCode  string         `json:"postalCode"`
	FormData    map[string]any `json:"formData"`
}

type ChangeStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

type ScheduleDeliveryRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Address     string    `json:"address"`
	PostalCode  string    `json:"postalCode"`
}

type ConfirmDeliveryRequest struct {
	// Céntimos, en texto para no perder precisión por el camino.
	Montant     string     `json:"montant"`
	PaymentMode string     `json:"paymentMode"`
	DeliveredAt *time.Time `json:"deliveredAt"`
}
