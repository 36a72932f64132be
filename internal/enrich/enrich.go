// enrich.go
package enrich

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dossier-status-service/internal/status"
)

// Dossier es el registro listo para pintar: estado canónico, zona, prioridad
// y campos de display ya resueltos. Se recalcula entero en cada pasada; nada
// de esto se persiste.
type Dossier struct {
	ID          string          `json:"id"`
	Numero      string          `json:"numero"`
	MachineType string          `json:"machineType,omitempty"`
	Status      status.Code     `json:"status"`
	StatusKnown bool            `json:"statusKnown"`
	ClientName  string          `json:"clientName"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	PostalCode  string          `json:"postalCode,omitempty"`
	Zone        Zone            `json:"zone"`
	Priority    Priority        `json:"priority"`
	IsUrgent    bool            `json:"isUrgent"`
	Montant     decimal.Decimal `json:"montant"`
	MontantText string          `json:"montantText"`
	PaymentMode string          `json:"paymentMode,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	ScheduledAt *time.Time      `json:"scheduledAt,omitempty"`
	DeliveredAt *time.Time      `json:"deliveredAt,omitempty"`
	DateText    string          `json:"dateText"`
}

// Cadenas de alias por campo lógico, en orden de resolución. Única fuente de
// verdad: los callers cuentan con este orden para deduplicar y buscar.
var (
	idKeys        = []string{"dossier_id", "id", "_id"}
	numeroKeys    = []string{"numero", "numero_dossier", "num", "reference"}
	statusKeys    = []string{"statut", "status", "etat"}
	machineKeys   = []string{"machine_type", "type_machine", "machine"}
	clientKeys    = []string{"client_nom", "client", "nom_client", "client_name"}
	phoneKeys     = []string{"telephone", "client_telephone", "tel", "phone"}
	addressKeys   = []string{"adresse_livraison", "adresse", "address"}
	postalKeys    = []string{"code_postal_livraison", "code_postal", "cp", "postal_code"}
	montantKeys   = []string{"montant_encaisse", "montant", "amount"}
	paymentKeys   = []string{"mode_paiement", "paiement", "payment_mode"}
	createdKeys   = []string{"created_at", "date_creation", "createdAt"}
	scheduledKeys = []string{"date_livraison_prevue", "date_livraison", "delivery_date"}
	deliveredKeys = []string{"date_livraison_reelle", "delivered_at"}
)

const unknownClient = "Client inconnu"

// Enrich transforma un registro crudo (con los nombres de campo heredados,
// inconsistentes entre sí) en un Dossier de vista. Total: campos ausentes o
// malformados degradan a los defaults documentados, nunca hay panic.
func Enrich(raw map[string]any, now time.Time) Dossier {
	code := status.Normalize(firstString(raw, statusKeys))
	if code == "" {
		// Sin estado almacenado: el dossier acaba de entrar.
		code = status.Nouveau
	}

	createdAt := firstTime(raw, createdKeys)
	created := now
	if createdAt != nil {
		created = *createdAt
	}
	scheduled := firstTime(raw, scheduledKeys)
	delivered := firstTime(raw, deliveredKeys)

	priority := DerivePriority(scheduled, created, now)
	if code == status.Livre || code == status.Termine {
		// Un dossier ya entregado no compite por urgencia.
		priority = PriorityLow
	}

	client := firstString(raw, clientKeys)
	if client == "" {
		client = unknownClient
	}

	postal := firstString(raw, postalKeys)
	montant := firstAmount(raw, montantKeys)

	return Dossier{
		ID:          firstString(raw, idKeys),
		Numero:      firstString(raw, numeroKeys),
		MachineType: normalizeMachine(firstString(raw, machineKeys)),
		Status:      code,
		StatusKnown: status.Known(code),
		ClientName:  client,
		Phone:       firstString(raw, phoneKeys),
		Address:     firstString(raw, addressKeys),
		PostalCode:  postal,
		Zone:        DeriveZone(postal),
		Priority:    priority,
		IsUrgent:    priority == PriorityUrgent,
		Montant:     montant,
		MontantText: FormatMontant(montant),
		PaymentMode: firstString(raw, paymentKeys),
		CreatedAt:   created,
		ScheduledAt: scheduled,
		DeliveredAt: delivered,
		DateText:    created.Format("02/01/2006"),
	}
}

// FormatMontant pinta un importe en céntimos como euros a la francesa.
func FormatMontant(centimes decimal.Decimal) string {
	euros := centimes.Div(decimal.NewFromInt(100)).StringFixed(2)
	return strings.Replace(euros, ".", ",", 1) + " €"
}

func normalizeMachine(raw string) string {
	m := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(m, "roland"):
		return "roland"
	case strings.Contains(m, "xerox"):
		return "xerox"
	}
	return ""
}

// firstString recorre la cadena de alias y devuelve el primer valor no vacío.
func firstString(raw map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		}
		if s, ok := v.(interface{ String() string }); ok {
			if t := strings.TrimSpace(s.String()); t != "" {
				return t
			}
		}
	}
	return ""
}

// Formatos de fecha que el sistema viejo mezcla alegremente.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func firstTime(raw map[string]any, keys []string) *time.Time {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case time.Time:
			if !t.IsZero() {
				return &t
			}
		case *time.Time:
			if t != nil && !t.IsZero() {
				return t
			}
		// primitive.DateTime del driver de mongo entra por aquí sin
		// importar el paquete.
		case interface{ Time() time.Time }:
			tt := t.Time()
			if !tt.IsZero() {
				return &tt
			}
		case string:
			for _, layout := range timeLayouts {
				if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
					return &parsed
				}
			}
		case float64:
			if t > 0 {
				tt := time.Unix(int64(t), 0).UTC()
				return &tt
			}
		case int64:
			if t > 0 {
				tt := time.Unix(t, 0).UTC()
				return &tt
			}
		}
	}
	return nil
}

func firstAmount(raw map[string]any, keys []string) decimal.Decimal {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch a := v.(type) {
		case decimal.Decimal:
			return a
		case float64:
			return decimal.NewFromFloat(a)
		case int:
			return decimal.NewFromInt(int64(a))
		case int32:
			return decimal.NewFromInt32(a)
		case int64:
			return decimal.NewFromInt(a)
		case string:
			if d, err := decimal.NewFromString(strings.TrimSpace(a)); err == nil {
				return d
			}
		}
	}
	return decimal.Zero
}
