package scheduling

import (
	"time"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

// SlotDuration duración fija de una consulta.
const SlotDuration = time.Hour

// Overlaps indica si las franjas [a, a+1h) y [b, b+1h) se solapan.
// Franjas contiguas (a+1h == b) no se solapan.
func Overlaps(a, b time.Time) bool {
	return a.Before(b.Add(SlotDuration)) && a.Add(SlotDuration).After(b)
}

// SearchWindow rango [from, to) de consultas candidatas para un inicio dado: el día calendario
// de start en loc, ampliado una franja a cada lado para cubrir consultas que cruzan la medianoche.
func SearchWindow(start time.Time, loc *time.Location) (from, to time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := start.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	return dayStart.Add(-SlotDuration), dayEnd.Add(SlotDuration)
}

// FindConflict devuelve la primera consulta que choca con una franja iniciando en start.
// Se ignoran las canceladas y la consulta excludeID (0 = ninguna).
func FindConflict(candidates []*entity.Appointment, start time.Time, excludeID int64) *entity.Appointment {
	for _, c := range candidates {
		if c == nil || c.Status == entity.StatusCancelada {
			continue
		}
		if excludeID != 0 && c.ID == excludeID {
			continue
		}
		if Overlaps(c.ScheduledAt, start) {
			return c
		}
	}
	return nil
}
