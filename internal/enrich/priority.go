// priority.go
package enrich

import "time"

// Priority es la franja de urgencia de un dossier.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityRank ordena las prioridades de menor a mayor urgencia (para sorts).
func PriorityRank(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// DerivePriority calcula la prioridad. La regla por fecha de entrega prevista
// manda siempre que exista; si no, se aplica la regla por antigüedad del
// dossier. "now" se inyecta para que el cálculo sea determinista.
func DerivePriority(scheduled *time.Time, createdAt time.Time, now time.Time) Priority {
	if scheduled != nil && !scheduled.IsZero() {
		switch {
		case scheduled.Before(now):
			return PriorityUrgent
		case !scheduled.After(now.Add(24 * time.Hour)):
			return PriorityHigh
		case !scheduled.After(now.Add(48 * time.Hour)):
			return PriorityMedium
		}
		return PriorityLow
	}

	age := now.Sub(createdAt)
	switch {
	case age > 7*24*time.Hour:
		return PriorityHigh
	case age > 3*24*time.Hour:
		return PriorityMedium
	}
	return PriorityLow
}
