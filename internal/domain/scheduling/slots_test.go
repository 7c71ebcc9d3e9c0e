package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/scheduling"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, scheduling.Overlaps(at(9, 0), at(9, 30)), "09:00 y 09:30 se solapan")
	assert.True(t, scheduling.Overlaps(at(9, 30), at(9, 0)), "la relación es simétrica")
	assert.True(t, scheduling.Overlaps(at(9, 0), at(9, 0)), "mismo inicio")
	assert.False(t, scheduling.Overlaps(at(9, 0), at(10, 0)), "franjas contiguas no se solapan")
	assert.False(t, scheduling.Overlaps(at(10, 0), at(9, 0)))
	assert.True(t, scheduling.Overlaps(at(9, 0), at(9, 59)))
}

func TestFindConflict(t *testing.T) {
	existing := []*entity.Appointment{
		{ID: 1, ScheduledAt: at(9, 0), Status: entity.StatusAgendada},
		{ID: 2, ScheduledAt: at(14, 0), Status: entity.StatusCancelada},
	}

	c := scheduling.FindConflict(existing, at(9, 30), 0)
	if assert.NotNil(t, c) {
		assert.Equal(t, int64(1), c.ID)
	}

	assert.Nil(t, scheduling.FindConflict(existing, at(10, 0), 0), "10:00 queda libre")
	assert.Nil(t, scheduling.FindConflict(existing, at(14, 0), 0), "las canceladas no bloquean")
	assert.Nil(t, scheduling.FindConflict(existing, at(9, 15), 1), "la propia consulta se excluye")
}

func TestSearchWindow_CubreMedianoche(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	start := time.Date(2026, 3, 10, 0, 30, 0, 0, loc)

	from, to := scheduling.SearchWindow(start, loc)

	assert.Equal(t, time.Date(2026, 3, 9, 23, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 3, 11, 1, 0, 0, 0, loc), to)

	prev := &entity.Appointment{ID: 7, ScheduledAt: time.Date(2026, 3, 9, 23, 45, 0, 0, loc), Status: entity.StatusConfirmada}
	assert.False(t, prev.ScheduledAt.Before(from), "la consulta del día anterior entra en la búsqueda")
	assert.NotNil(t, scheduling.FindConflict([]*entity.Appointment{prev}, start, 0))
}

func TestSearchWindow_UsaZonaDeLaClinica(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 02:00 UTC del día 11 es 23:00 del día 10 en BRT.
	start := time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC)

	from, _ := scheduling.SearchWindow(start, loc)
	assert.Equal(t, time.Date(2026, 3, 9, 23, 0, 0, 0, loc), from)
}
