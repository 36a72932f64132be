package enrich

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"dossier-status-service/internal/status"
)

func TestDeriveZone(t *testing.T) {
	assert.Equal(t, ZoneParis, DeriveZone("75001"))
	assert.Equal(t, ZoneParis, DeriveZone("75010"))
	assert.Equal(t, ZoneBanlieue, DeriveZone("93100"))
	assert.Equal(t, ZoneBanlieue, DeriveZone("92400"))
	assert.Equal(t, ZoneBanlieue, DeriveZone("94200"))
	assert.Equal(t, ZoneIDF, DeriveZone("77300"))
	assert.Equal(t, ZoneIDF, DeriveZone("78000"))
	assert.Equal(t, ZoneIDF, DeriveZone("91120"))
	assert.Equal(t, ZoneIDF, DeriveZone("95880"))
	assert.Equal(t, ZoneAutre, DeriveZone("99999"))
	assert.Equal(t, ZoneAutre, DeriveZone("69001"))
	assert.Equal(t, ZoneAutre, DeriveZone(""))
	assert.Equal(t, ZoneAutre, DeriveZone("  "))
	assert.Equal(t, ZoneAutre, DeriveZone("7"))
}

func TestDerivePriorityScheduledRuleWins(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	created := now.Add(-10 * 24 * time.Hour)

	past := now.Add(-time.Hour)
	assert.Equal(t, PriorityUrgent, DerivePriority(&past, created, now))

	in12h := now.Add(12 * time.Hour)
	assert.Equal(t, PriorityHigh, DerivePriority(&in12h, created, now))

	in36h := now.Add(36 * time.Hour)
	assert.Equal(t, PriorityMedium, DerivePriority(&in36h, created, now))

	// Con fecha prevista lejana manda la regla por fecha, aunque el dossier
	// sea viejo.
	in5d := now.Add(5 * 24 * time.Hour)
	assert.Equal(t, PriorityLow, DerivePriority(&in5d, created, now))
}

func TestDerivePriorityAgeFallback(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, PriorityHigh, DerivePriority(nil, now.Add(-10*24*time.Hour), now))
	assert.Equal(t, PriorityMedium, DerivePriority(nil, now.Add(-5*24*time.Hour), now))
	assert.Equal(t, PriorityLow, DerivePriority(nil, now.Add(-24*time.Hour), now))
	assert.Equal(t, PriorityLow, DerivePriority(nil, now, now))
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityRank(PriorityUrgent), PriorityRank(PriorityHigh))
	assert.Greater(t, PriorityRank(PriorityHigh), PriorityRank(PriorityMedium))
	assert.Greater(t, PriorityRank(PriorityMedium), PriorityRank(PriorityLow))
}

func TestEnrichDeliveredScenario(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	raw := map[string]any{
		"statut":                "Livré",
		"code_postal_livraison": "75010",
		"created_at":            now.Add(-10 * 24 * time.Hour),
		"montant_encaisse":      50000,
	}

	d := Enrich(raw, now)
	assert.Equal(t, status.Livre, d.Status)
	assert.True(t, d.StatusKnown)
	assert.Equal(t, ZoneParis, d.Zone)
	assert.Equal(t, PriorityLow, d.Priority)
	assert.False(t, d.IsUrgent)
	assert.True(t, d.Montant.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "500,00 €", d.MontantText)
	assert.Equal(t, unknownClient, d.ClientName)
}

func TestEnrichAliasChains(t *testing.T) {
	now := time.Now()

	// client_nom gana a cualquier alias posterior
	d := Enrich(map[string]any{"client_nom": "Dupont", "client": "Autre"}, now)
	assert.Equal(t, "Dupont", d.ClientName)

	d = Enrich(map[string]any{"nom_client": "Martin"}, now)
	assert.Equal(t, "Martin", d.ClientName)

	d = Enrich(map[string]any{"code_postal": "92300"}, now)
	assert.Equal(t, ZoneBanlieue, d.Zone)

	d = Enrich(map[string]any{"numero_dossier": "DOS-42"}, now)
	assert.Equal(t, "DOS-42", d.Numero)
}

func TestEnrichEmptyRecord(t *testing.T) {
	now := time.Now()
	d := Enrich(map[string]any{}, now)

	assert.Equal(t, status.Nouveau, d.Status)
	assert.Equal(t, ZoneAutre, d.Zone)
	assert.Equal(t, PriorityLow, d.Priority)
	assert.False(t, d.IsUrgent)
	assert.Equal(t, unknownClient, d.ClientName)
	assert.True(t, d.Montant.IsZero())
	assert.Equal(t, now, d.CreatedAt)
}

func TestEnrichUrgentFlag(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	d := Enrich(map[string]any{
		"statut":                "en_livraison",
		"date_livraison_prevue": now.Add(-time.Hour),
		"created_at":            now.Add(-time.Hour),
	}, now)

	assert.Equal(t, PriorityUrgent, d.Priority)
	assert.True(t, d.IsUrgent)
}

func TestEnrichToleratesMalformedValues(t *testing.T) {
	now := time.Now()
	d := Enrich(map[string]any{
		"statut":           42,
		"montant_encaisse": "pas un nombre",
		"created_at":       "n'importe quoi",
		"client_nom":       "",
	}, now)

	assert.Equal(t, status.Nouveau, d.Status)
	assert.True(t, d.Montant.IsZero())
	assert.Equal(t, now, d.CreatedAt)
	assert.Equal(t, unknownClient, d.ClientName)
}

func TestEnrichDateFormats(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	d := Enrich(map[string]any{"created_at": "2025-05-20T10:30:00Z"}, now)
	assert.Equal(t, 20, d.CreatedAt.Day())

	d = Enrich(map[string]any{"date_creation": "2025-05-20"}, now)
	assert.Equal(t, time.May, d.CreatedAt.Month())

	d = Enrich(map[string]any{"created_at": "20/05/2025"}, now)
	assert.Equal(t, 2025, d.CreatedAt.Year())
}

func TestFormatMontant(t *testing.T) {
	assert.Equal(t, "500,00 €", FormatMontant(decimal.NewFromInt(50000)))
	assert.Equal(t, "0,00 €", FormatMontant(decimal.Zero))
	assert.Equal(t, "12,50 €", FormatMontant(decimal.NewFromInt(1250)))
}

func TestEnrichMachineType(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "roland", Enrich(map[string]any{"machine_type": "Roland SP-540"}, now).MachineType)
	assert.Equal(t, "xerox", Enrich(map[string]any{"type_machine": "XEROX Versant"}, now).MachineType)
	assert.Equal(t, "", Enrich(map[string]any{"machine": "offset?"}, now).MachineType)
}
