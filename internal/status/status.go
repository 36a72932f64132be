// status.go
package status

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Code es un estado del ciclo de vida de un dossier, ya normalizado.
type Code string

const (
	Nouveau        Code = "nouveau"
	EnCours        Code = "en_cours"
	ARevoir        Code = "a_revoir"
	PretImpression Code = "pret_impression"
	EnImpression   Code = "en_impression"
	PretLivraison  Code = "pret_livraison"
	EnLivraison    Code = "en_livraison"
	Livre          Code = "livre"
	Termine        Code = "termine"

	// Incidencias de entrega. No forman parte del ciclo nominal: el taller
	// reencola una entrega fallida forzando el dossier a pret_livraison.
	EchecLivraison Code = "echec_livraison"
	Retourne       Code = "retourne"
)

// Lifecycle en orden nominal (a_revoir es re-entrante, ver tabla de workflow).
var Lifecycle = []Code{
	Nouveau,
	EnCours,
	ARevoir,
	PretImpression,
	EnImpression,
	PretLivraison,
	EnLivraison,
	Livre,
	Termine,
}

var canonical = map[Code]bool{
	Nouveau:        true,
	EnCours:        true,
	ARevoir:        true,
	PretImpression: true,
	EnImpression:   true,
	PretLivraison:  true,
	EnLivraison:    true,
	Livre:          true,
	Termine:        true,
}

// Sinónimos heredados del sistema anterior, indexados por su forma ya plegada
// (minúsculas, sin acentos, espacios -> "_"). Las grafías acentuadas de los
// propios códigos ("terminé", "livré", "prêt livraison") convergen solas.
var synonyms = map[string]Code{
	"nouvelle_commande":    Nouveau,
	"en_attente":           Nouveau,
	"en_preparation":       EnCours,
	"preparation":          EnCours,
	"a_corriger":           ARevoir,
	"a_reviser":            ARevoir,
	"revision":             ARevoir,
	"a_imprimer":           PretImpression,
	"pret_pour_impression": PretImpression,
	"impression_en_cours":  EnImpression,
	"a_livrer":             PretLivraison,
	"pret_pour_livraison":  PretLivraison,
	"livraison":            EnLivraison,
	"livraison_en_cours":   EnLivraison,
	"livree":               Livre,
	"delivre":              Livre,
	"fini":                 Termine,
	"cloture":              Termine,
	"complete":             Termine,
	"echec":                EchecLivraison,
	"livraison_echouee":    EchecLivraison,
	"retour":               Retourne,
	"retournee":            Retourne,
}

// Normalize pliega una cadena de estado libre a su código canónico.
// Nunca falla: una entrada no reconocida pasa tal cual, ya plegada, para que
// la UI no reviente con datos inesperados (esos códigos no ofrecerán acciones).
// Entrada vacía -> "": el valor por defecto lo decide el call site.
// Idempotente: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) Code {
	folded := fold(raw)
	if folded == "" {
		return ""
	}
	if c, ok := synonyms[folded]; ok {
		return c
	}
	return Code(folded)
}

// Known indica si el código pertenece al conjunto canónico del ciclo de vida.
func Known(c Code) bool {
	return canonical[c]
}

// Terminal indica un estado del que ningún rol (salvo admin forzando) sale.
func Terminal(c Code) bool {
	return c == Termine
}

func fold(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = stripDiacritics(s)
	// Tandas de espacios (y guiones sueltos del sistema viejo) -> "_"
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	return strings.Join(fields, "_")
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
