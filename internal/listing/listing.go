// listing.go
package listing

import (
	"sort"
	"strings"
	"time"

	"dossier-status-service/internal/enrich"
	"dossier-status-service/internal/status"
)

// SortKey es una de las ordenaciones que ofrece la UI.
type SortKey string

const (
	SortDateDesc    SortKey = "date_desc" // default
	SortDateAsc     SortKey = "date_asc"
	SortClientAsc   SortKey = "client_asc"
	SortClientDesc  SortKey = "client_desc"
	SortMontantAsc  SortKey = "montant_asc"
	SortMontantDesc SortKey = "montant_desc"
	SortPriorite    SortKey = "priorite" // urgencia descendente
)

// Criteria agrupa los filtros y la ordenación de una vista de lista.
// Valor vacío o "all" = sin filtro.
type Criteria struct {
	Search   string
	Status   string
	Zone     string
	Priority string
	From     *time.Time
	To       *time.Time
	Sort     SortKey
}

const minSearchLen = 2

// FilterSort aplica los filtros y después la ordenación estable. No muta la
// colección de entrada; los empates conservan el orden de llegada.
func FilterSort(ds []enrich.Dossier, c Criteria) []enrich.Dossier {
	out := make([]enrich.Dossier, 0, len(ds))
	for _, d := range ds {
		if matches(d, c) {
			out = append(out, d)
		}
	}
	sortDossiers(out, c.Sort)
	return out
}

func matches(d enrich.Dossier, c Criteria) bool {
	if q := strings.TrimSpace(c.Search); len(q) >= minSearchLen {
		if !matchesSearch(d, q) {
			return false
		}
	}
	if active(c.Status) && d.Status != status.Normalize(c.Status) {
		return false
	}
	if active(c.Zone) && d.Zone != enrich.Zone(c.Zone) {
		return false
	}
	if active(c.Priority) && d.Priority != enrich.Priority(c.Priority) {
		return false
	}
	if c.From != nil && d.CreatedAt.Before(*c.From) {
		return false
	}
	if c.To != nil && d.CreatedAt.After(*c.To) {
		return false
	}
	return true
}

func active(filter string) bool {
	return filter != "" && filter != "all"
}

func matchesSearch(d enrich.Dossier, q string) bool {
	q = strings.ToLower(q)
	for _, field := range []string{d.Numero, d.ClientName, d.Address, d.Phone} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func sortDossiers(ds []enrich.Dossier, key SortKey) {
	var less func(a, b enrich.Dossier) bool

	switch key {
	case SortDateAsc:
		less = func(a, b enrich.Dossier) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortClientAsc:
		less = func(a, b enrich.Dossier) bool { return a.ClientName < b.ClientName }
	case SortClientDesc:
		less = func(a, b enrich.Dossier) bool { return a.ClientName > b.ClientName }
	case SortMontantAsc:
		less = func(a, b enrich.Dossier) bool { return a.Montant.LessThan(b.Montant) }
	case SortMontantDesc:
		less = func(a, b enrich.Dossier) bool { return a.Montant.GreaterThan(b.Montant) }
	case SortPriorite:
		less = func(a, b enrich.Dossier) bool {
			return enrich.PriorityRank(a.Priority) > enrich.PriorityRank(b.Priority)
		}
	default: // SortDateDesc
		less = func(a, b enrich.Dossier) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.SliceStable(ds, func(i, j int) bool { return less(ds[i], ds[j]) })
}
