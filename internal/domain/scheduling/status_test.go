package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/scheduling"
)

var allStatuses = []entity.AppointmentStatus{
	entity.StatusAgendada, entity.StatusConfirmada, entity.StatusEmAndamento,
	entity.StatusConcluida, entity.StatusCancelada, entity.StatusFaltou,
}

func TestCanTransition_TablaCompleta(t *testing.T) {
	allowed := map[[2]entity.AppointmentStatus]bool{
		{entity.StatusAgendada, entity.StatusConfirmada}:    true,
		{entity.StatusAgendada, entity.StatusCancelada}:     true,
		{entity.StatusConfirmada, entity.StatusEmAndamento}: true,
		{entity.StatusConfirmada, entity.StatusCancelada}:   true,
		{entity.StatusEmAndamento, entity.StatusConcluida}:  true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]entity.AppointmentStatus{from, to}]
			assert.Equal(t, want, scheduling.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, scheduling.IsTerminal(entity.StatusConcluida))
	assert.True(t, scheduling.IsTerminal(entity.StatusCancelada))
	assert.True(t, scheduling.IsTerminal(entity.StatusFaltou))
	assert.False(t, scheduling.IsTerminal(entity.StatusAgendada))
	assert.False(t, scheduling.IsTerminal(entity.StatusConfirmada))
	assert.False(t, scheduling.IsTerminal(entity.StatusEmAndamento))
}

func TestStatusLabel(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, scheduling.ValidStatus(s))
		assert.NotEmpty(t, scheduling.StatusLabel(s))
	}
	assert.Equal(t, "Paciente Faltou", scheduling.StatusLabel(entity.StatusFaltou))
	assert.False(t, scheduling.ValidStatus("PENDIENTE"))
}
