// zone.go
package enrich

import "strings"

// Zone es la franja de reparto derivada del código postal.
type Zone string

const (
	ZoneParis    Zone = "paris"
	ZoneBanlieue Zone = "banlieue"
	ZoneIDF      Zone = "idf"
	ZoneAutre    Zone = "autre"
)

// Los prefijos de departamento son disjuntos, así que no hay empates posibles.
var zonePrefixes = map[string]Zone{
	"75": ZoneParis,
	"92": ZoneBanlieue,
	"93": ZoneBanlieue,
	"94": ZoneBanlieue,
	"77": ZoneIDF,
	"78": ZoneIDF,
	"91": ZoneIDF,
	"95": ZoneIDF,
}

// DeriveZone clasifica un código postal; cualquier cosa no reconocida
// (incluido el vacío) cae en "autre".
func DeriveZone(postalCode string) Zone {
	cp := strings.TrimSpace(postalCode)
	if len(cp) < 2 {
		return ZoneAutre
	}
	if z, ok := zonePrefixes[cp[:2]]; ok {
		return z
	}
	return ZoneAutre
}
