// workflow.go
package workflow

import (
	"dossier-status-service/internal/status"
)

// Role es el rol declarado del actor que consulta o ejecuta una transición.
type Role string

const (
	RolePreparateur     Role = "preparateur"
	RoleImprimeurRoland Role = "imprimeur_roland"
	RoleImprimeurXerox  Role = "imprimeur_xerox"
	RoleLivreur         Role = "livreur"
	RoleAdmin           Role = "admin"
)

// ParseRole valida un rol declarado (trim/minúsculas a cargo del caller no:
// aquí se acepta la forma exacta que manda el gateway).
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RolePreparateur, RoleImprimeurRoland, RoleImprimeurXerox, RoleLivreur, RoleAdmin:
		return Role(raw), true
	}
	return "", false
}

// Kind etiqueta la intención de una acción. Nada de detectar la intención por
// el texto del botón: el caller decide por Kind.
type Kind string

const (
	// KindTransition lleva el dossier a NextStatus.
	KindTransition Kind = "transition"
	// KindForceTransition es exclusiva de admin; NextStatus viene vacío y el
	// caller debe aportar el destino explícito.
	KindForceTransition Kind = "force_transition"
	// KindReprint devuelve un dossier ya entregado a la cola de impresión.
	KindReprint Kind = "reprint"
)

// Action es una transición ofrecida a un rol para un estado dado.
type Action struct {
	Label      string      `json:"label"`
	Kind       Kind        `json:"kind"`
	NextStatus status.Code `json:"nextStatus,omitempty"`
}

// Las dos máquinas comparten exactamente las mismas filas; solo difiere el
// gate por tipo de máquina, que vive en la capa de permisos de ficheros,
// no en esta tabla.
var printerRows = map[status.Code][]Action{
	status.PretImpression: {
		{Label: "Lancer l'impression", Kind: KindTransition, NextStatus: status.EnImpression},
		{Label: "Demander une révision", Kind: KindTransition, NextStatus: status.ARevoir},
	},
	status.EnImpression: {
		{Label: "Terminer l'impression", Kind: KindTransition, NextStatus: status.PretLivraison},
		{Label: "Demander une révision", Kind: KindTransition, NextStatus: status.ARevoir},
	},
}

// Transiciones permitidas por rol y estado canónico. El orden de cada fila es
// el orden en que la UI pinta los botones.
var transitions = map[Role]map[status.Code][]Action{
	RolePreparateur: {
		status.Nouveau: {
			{Label: "Envoyer en impression", Kind: KindTransition, NextStatus: status.PretImpression},
		},
		status.EnCours: {
			{Label: "Envoyer en impression", Kind: KindTransition, NextStatus: status.PretImpression},
		},
		status.ARevoir: {
			{Label: "Revalider le dossier", Kind: KindTransition, NextStatus: status.PretImpression},
		},
	},
	RoleImprimeurRoland: printerRows,
	RoleImprimeurXerox:  printerRows,
	RoleLivreur: {
		status.PretLivraison: {
			{Label: "Programmer la livraison", Kind: KindTransition, NextStatus: status.EnLivraison},
			{Label: "Marquer comme livré", Kind: KindTransition, NextStatus: status.Livre},
		},
		status.EnLivraison: {
			{Label: "Confirmer la livraison", Kind: KindTransition, NextStatus: status.Livre},
		},
		status.Livre: {
			{Label: "Clôturer le dossier", Kind: KindTransition, NextStatus: status.Termine},
		},
	},
}

// Orden fijo en que se recorren los roles al construir la unión de admin,
// para que el resultado sea determinista.
var unionOrder = []Role{RolePreparateur, RoleImprimeurRoland, RoleImprimeurXerox, RoleLivreur}

// ResolveActions devuelve las acciones permitidas para un rol y un estado
// crudo (se normaliza aquí). Lista vacía = estado terminal o sin acciones para
// ese rol; no es un error. Para admin devuelve la unión, deduplicada por
// label, de todos los demás roles, más sus acciones exclusivas.
func ResolveActions(role Role, rawStatus string) []Action {
	code := status.Normalize(rawStatus)

	if role == RoleAdmin {
		return adminActions(code)
	}

	rows, ok := transitions[role]
	if !ok {
		return nil
	}
	src := rows[code]
	if len(src) == 0 {
		return nil
	}
	out := make([]Action, len(src))
	copy(out, src)
	return out
}

func adminActions(code status.Code) []Action {
	var out []Action
	seen := map[string]bool{}

	for _, r := range unionOrder {
		for _, a := range transitions[r][code] {
			if seen[a.Label] {
				continue
			}
			seen[a.Label] = true
			out = append(out, a)
		}
	}

	if code == status.Livre || code == status.Termine {
		out = append(out, Action{
			Label:      "Réimprimer",
			Kind:       KindReprint,
			NextStatus: status.PretImpression,
		})
	}

	// Siempre presente, incluso sobre estados desconocidos: es la vía de
	// escape del admin para datos en mal estado.
	out = append(out, Action{Label: "Forcer la transition", Kind: KindForceTransition})
	return out
}

// Allowed valida una transición concreta contra la misma tabla que alimenta
// los botones. La transición forzada de admin admite cualquier destino
// canónico.
func Allowed(role Role, from, to status.Code) bool {
	for _, a := range ResolveActions(role, string(from)) {
		switch a.Kind {
		case KindForceTransition:
			if status.Known(to) {
				return true
			}
		default:
			if a.NextStatus == to {
				return true
			}
		}
	}
	return false
}
