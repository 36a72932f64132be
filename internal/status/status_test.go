package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSynonymConvergence(t *testing.T) {
	cases := map[string]Code{
		"Terminé":         Termine,
		"termine":         Termine,
		"fini":            Termine,
		"cloture":         Termine,
		"prêt livraison":  PretLivraison,
		"Pret_Livraison":  PretLivraison,
		"pret livraison":  PretLivraison,
		"en livraison":    EnLivraison,
		"En   Livraison":  EnLivraison,
		"Livré":           Livre,
		"livre":           Livre,
		"livrée":          Livre,
		"à revoir":        ARevoir,
		"a corriger":      ARevoir,
		"échec livraison": EchecLivraison,
		"Retourné":        Retourne,
	}
	for raw, want := range cases {
		assert.Equal(t, want, Normalize(raw), "raw=%q", raw)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Terminé", "prêt livraison", "  EN   COURS ", "statut-bizarre", ""}
	for _, raw := range inputs {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(string(once)), "raw=%q", raw)
	}
}

func TestNormalizeUnknownPassesThrough(t *testing.T) {
	got := Normalize("Statut Bizarre Inconnu")
	assert.Equal(t, Code("statut_bizarre_inconnu"), got)
	assert.False(t, Known(got))
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, Code(""), Normalize(""))
	assert.Equal(t, Code(""), Normalize("   "))
}

func TestKnown(t *testing.T) {
	for _, c := range Lifecycle {
		assert.True(t, Known(c), "code=%s", c)
	}
	assert.False(t, Known(EchecLivraison))
	assert.False(t, Known(Retourne))
	assert.False(t, Known(Code("autre_chose")))
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(Termine))
	assert.False(t, Terminal(Livre))
}
