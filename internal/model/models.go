// models.go
package model

import "time"

// Dossier es la unidad de trabajo del taller: un pedido de impresión seguido
// de producción a entrega. Las escrituras usan siempre estos nombres de campo;
// los alias heredados solo aparecen en registros antiguos y los resuelve la
// capa de enriquecimiento al leer.
type Dossier struct {
	ID          string         `bson:"dossier_id" json:"id"`
	Numero      string         `bson:"numero" json:"numero"`
	MachineType string         `bson:"machine_type,omitempty" json:"machineType,omitempty"`
	FormData    map[string]any `bson:"form_data,omitempty" json:"formData,omitempty"`
	Status      string         `bson:"statut" json:"status"`

	ClientName string `bson:"client_nom" json:"clientName"`
	Phone      string `bson:"telephone,omitempty" json:"phone,omitempty"`

	// Atributos de entrega; solo se rellenan cuando el dossier llega a esa fase.
	Address     string     `bson:"adresse_livraison,omitempty" json:"address,omitempty"`
	PostalCode  string     `bson:"code_postal_livraison,omitempty" json:"postalCode,omitempty"`
	ScheduledAt *time.Time `bson:"date_livraison_prevue,omitempty" json:"scheduledAt,omitempty"`
	DeliveredAt *time.Time `bson:"date_livraison_reelle,omitempty" json:"deliveredAt,omitempty"`
	Montant     string     `bson:"montant_encaisse,omitempty" json:"montant,omitempty"` // céntimos, decimal en texto
	PaymentMode string     `bson:"mode_paiement,omitempty" json:"paymentMode,omitempty"`

	History   []StatusRecord `bson:"history" json:"history"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updatedAt"`
}

// StatusRecord es una entrada del historial de estados. Se crea exactamente
// una por transición y no se toca después (append-only).
type StatusRecord struct {
	FromStatus string    `bson:"from_status,omitempty" json:"fromStatus,omitempty"`
	ToStatus   string    `bson:"to_status" json:"toStatus"`
	Actor      string    `bson:"actor" json:"actor"`
	Role       string    `bson:"role" json:"role"`
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}
