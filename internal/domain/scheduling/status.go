package scheduling

import "github.com/jhoicas/odonto-api/internal/domain/entity"

// transitions tabla de transiciones permitidas. Cualquier par ausente es inválido.
var transitions = map[entity.AppointmentStatus][]entity.AppointmentStatus{
	entity.StatusAgendada:    {entity.StatusConfirmada, entity.StatusCancelada},
	entity.StatusConfirmada:  {entity.StatusEmAndamento, entity.StatusCancelada},
	entity.StatusEmAndamento: {entity.StatusConcluida},
}

var statusLabels = map[entity.AppointmentStatus]string{
	entity.StatusAgendada:    "Agendada",
	entity.StatusConfirmada:  "Confirmada",
	entity.StatusEmAndamento: "Em Andamento",
	entity.StatusConcluida:   "Concluída",
	entity.StatusCancelada:   "Cancelada",
	entity.StatusFaltou:      "Paciente Faltou",
}

// CanTransition indica si el paso from -> to está permitido.
func CanTransition(from, to entity.AppointmentStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal CONCLUIDA, CANCELADA y FALTOU no admiten más cambios.
func IsTerminal(s entity.AppointmentStatus) bool {
	switch s {
	case entity.StatusConcluida, entity.StatusCancelada, entity.StatusFaltou:
		return true
	}
	return false
}

// ValidStatus indica si s es un estado conocido.
func ValidStatus(s entity.AppointmentStatus) bool {
	_, ok := statusLabels[s]
	return ok
}

// StatusLabel descripción legible del estado.
func StatusLabel(s entity.AppointmentStatus) string {
	return statusLabels[s]
}
