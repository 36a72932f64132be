package listing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"dossier-status-service/internal/enrich"
	"dossier-status-service/internal/status"
)

func sample() []enrich.Dossier {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []enrich.Dossier{
		{ID: "1", Numero: "DOS-001", ClientName: "Dupont", Status: status.EnCours, Zone: enrich.ZoneParis, Priority: enrich.PriorityLow, Montant: decimal.NewFromInt(300), CreatedAt: base.Add(3 * 24 * time.Hour)},
		{ID: "2", Numero: "DOS-002", ClientName: "Albert", Status: status.PretLivraison, Zone: enrich.ZoneBanlieue, Priority: enrich.PriorityUrgent, Montant: decimal.NewFromInt(100), CreatedAt: base.Add(2 * 24 * time.Hour), Phone: "0612345678"},
		{ID: "3", Numero: "DOS-003", ClientName: "Martin", Status: status.Livre, Zone: enrich.ZoneParis, Priority: enrich.PriorityHigh, Montant: decimal.NewFromInt(200), CreatedAt: base.Add(1 * 24 * time.Hour), Address: "12 rue de la Paix"},
	}
}

func ids(ds []enrich.Dossier) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}

func TestDefaultSortDateDesc(t *testing.T) {
	got := FilterSort(sample(), Criteria{})
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestStatusAllIsNoFilter(t *testing.T) {
	got := FilterSort(sample(), Criteria{Status: "all"})
	assert.Len(t, got, 3)
}

func TestStatusFilterNormalizesInput(t *testing.T) {
	got := FilterSort(sample(), Criteria{Status: "Livré"})
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestZoneAndPriorityFilters(t *testing.T) {
	got := FilterSort(sample(), Criteria{Zone: "paris"})
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got = FilterSort(sample(), Criteria{Priority: "urgent"})
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestSearchMinLength(t *testing.T) {
	// Un solo carácter no dispara la búsqueda
	got := FilterSort(sample(), Criteria{Search: "x"})
	assert.Len(t, got, 3)

	got = FilterSort(sample(), Criteria{Search: "dupont"})
	assert.Equal(t, []string{"1"}, ids(got))

	// teléfono y dirección también son buscables
	got = FilterSort(sample(), Criteria{Search: "0612"})
	assert.Equal(t, []string{"2"}, ids(got))
	got = FilterSort(sample(), Criteria{Search: "rue de la paix"})
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestDateRangeInclusive(t *testing.T) {
	from := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	got := FilterSort(sample(), Criteria{From: &from, To: &to, Sort: SortDateAsc})
	assert.Equal(t, []string{"3", "2"}, ids(got))
}

func TestClientSortsAreReverses(t *testing.T) {
	asc := FilterSort(sample(), Criteria{Sort: SortClientAsc})
	desc := FilterSort(sample(), Criteria{Sort: SortClientDesc})

	assert.Equal(t, []string{"2", "1", "3"}, ids(asc))
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestMontantSort(t *testing.T) {
	got := FilterSort(sample(), Criteria{Sort: SortMontantAsc})
	assert.Equal(t, []string{"2", "3", "1"}, ids(got))

	got = FilterSort(sample(), Criteria{Sort: SortMontantDesc})
	assert.Equal(t, []string{"1", "3", "2"}, ids(got))
}

func TestPrioriteSortDesc(t *testing.T) {
	got := FilterSort(sample(), Criteria{Sort: SortPriorite})
	assert.Equal(t, []string{"2", "3", "1"}, ids(got))
}

func TestStableSortKeepsUpstreamOrderOnTies(t *testing.T) {
	same := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	ds := []enrich.Dossier{
		{ID: "a", CreatedAt: same},
		{ID: "b", CreatedAt: same},
		{ID: "c", CreatedAt: same},
	}
	got := FilterSort(ds, Criteria{Sort: SortDateDesc})
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestInputNotMutated(t *testing.T) {
	ds := sample()
	FilterSort(ds, Criteria{Sort: SortClientAsc})
	assert.Equal(t, []string{"1", "2", "3"}, ids(ds))
}
