// stats.go
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"dossier-status-service/internal/enrich"
	"dossier-status-service/internal/status"
)

// Stats son los contadores del dashboard. Todo se recalcula desde cero en
// cada pasada sobre la colección enriquecida; nada se acumula entre llamadas.
type Stats struct {
	Total       int                     `json:"total"`
	ParStatut   map[status.Code]int     `json:"parStatut"`
	ParZone     map[enrich.Zone]int     `json:"parZone"`
	ParPriorite map[enrich.Priority]int `json:"parPriorite"`

	Urgents          int `json:"urgents"`
	AttenteLivraison int `json:"attenteLivraison"`
	EnLivraison      int `json:"enLivraison"`
	LivresJour       int `json:"livresJour"`

	EncaisseJour  decimal.Decimal `json:"encaisseJour"`
	EncaisseMois  decimal.Decimal `json:"encaisseMois"`
	MontantEstime decimal.Decimal `json:"montantEstime"`

	// Porcentaje entregados / (entregados + fallidos + devueltos).
	// 100 cuando aún no se intentó ninguna entrega.
	TauxReussite float64 `json:"tauxReussite"`
}

// Aggregate reduce la colección enriquecida a los contadores del dashboard.
// Los límites de "hoy" y "este mes" se calculan contra el now inyectado.
func Aggregate(ds []enrich.Dossier, now time.Time) Stats {
	s := Stats{
		ParStatut:     map[status.Code]int{},
		ParZone:       map[enrich.Zone]int{},
		ParPriorite:   map[enrich.Priority]int{},
		EncaisseJour:  decimal.Zero,
		EncaisseMois:  decimal.Zero,
		MontantEstime: decimal.Zero,
	}

	delivered, failed := 0, 0

	for _, d := range ds {
		s.Total++
		s.ParStatut[d.Status]++
		s.ParZone[d.Zone]++
		s.ParPriorite[d.Priority]++

		if d.IsUrgent {
			s.Urgents++
		}

		switch d.Status {
		case status.PretLivraison:
			s.AttenteLivraison++
		case status.EnLivraison:
			s.EnLivraison++
		}

		switch d.Status {
		case status.Livre, status.Termine:
			delivered++
			// La fecha de cobro es la de entrega real; a falta de ella,
			// la de creación (registros del sistema viejo sin fecha real).
			cashed := d.CreatedAt
			if d.DeliveredAt != nil {
				cashed = *d.DeliveredAt
			}
			if sameDay(cashed, now) {
				s.LivresJour++
				s.EncaisseJour = s.EncaisseJour.Add(d.Montant)
			}
			if sameMonth(cashed, now) {
				s.EncaisseMois = s.EncaisseMois.Add(d.Montant)
			}
		case status.EchecLivraison, status.Retourne:
			failed++
		default:
			s.MontantEstime = s.MontantEstime.Add(d.Montant)
		}
	}

	attempted := delivered + failed
	if attempted == 0 {
		s.TauxReussite = 100
	} else {
		s.TauxReussite = float64(delivered) * 100 / float64(attempted)
	}

	return s
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return ay == by && am == bm
}
