package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/scheduling"
)

// GetByID obtiene una consulta con datos de paciente y dentista.
func (uc *AppointmentUseCase) GetByID(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	appt, err := uc.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, fmt.Errorf("%w: consulta %d", domain.ErrNotFound, id)
	}
	return uc.enrich(ctx, appt, nil, nil)
}

// ListByDentistDay agenda de un dentista en el día calendario de day (zona de la clínica).
func (uc *AppointmentUseCase) ListByDentistDay(ctx context.Context, dentistID int64, day time.Time) ([]dto.AppointmentResponse, error) {
	local := day.In(uc.loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, uc.loc)
	list, err := uc.appointments.ListByDentistBetween(ctx, dentistID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return uc.enrichAll(ctx, list)
}

// ListByPatient historial de consultas de un paciente.
func (uc *AppointmentUseCase) ListByPatient(ctx context.Context, patientID int64) ([]dto.AppointmentResponse, error) {
	list, err := uc.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return uc.enrichAll(ctx, list)
}

// ListByPeriod consultas con inicio en [from, to).
func (uc *AppointmentUseCase) ListByPeriod(ctx context.Context, from, to time.Time) ([]dto.AppointmentResponse, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: el período es vacío", domain.ErrInvalidInput)
	}
	list, err := uc.appointments.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return uc.enrichAll(ctx, list)
}

// Location zona horaria con la que se interpretan los días de la agenda.
func (uc *AppointmentUseCase) Location() *time.Location {
	return uc.loc
}

func (uc *AppointmentUseCase) enrich(ctx context.Context, a *entity.Appointment, p *entity.Patient, d *entity.Dentist) (*dto.AppointmentResponse, error) {
	var err error
	if p == nil || p.ID != a.PatientID {
		if p, err = uc.patients.GetByID(ctx, a.PatientID); err != nil {
			return nil, err
		}
	}
	if d == nil || d.ID != a.DentistID {
		if d, err = uc.dentists.GetByID(ctx, a.DentistID); err != nil {
			return nil, err
		}
	}
	return toAppointmentResponse(a, p, d), nil
}

func (uc *AppointmentUseCase) enrichAll(ctx context.Context, list []*entity.Appointment) ([]dto.AppointmentResponse, error) {
	patients := map[int64]*entity.Patient{}
	dentists := map[int64]*entity.Dentist{}
	out := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		p, ok := patients[a.PatientID]
		if !ok {
			var err error
			if p, err = uc.patients.GetByID(ctx, a.PatientID); err != nil {
				return nil, err
			}
			patients[a.PatientID] = p
		}
		d, ok := dentists[a.DentistID]
		if !ok {
			var err error
			if d, err = uc.dentists.GetByID(ctx, a.DentistID); err != nil {
				return nil, err
			}
			dentists[a.DentistID] = d
		}
		out = append(out, *toAppointmentResponse(a, p, d))
	}
	return out, nil
}

func toAppointmentResponse(a *entity.Appointment, p *entity.Patient, d *entity.Dentist) *dto.AppointmentResponse {
	r := &dto.AppointmentResponse{
		ID:          a.ID,
		PatientID:   a.PatientID,
		DentistID:   a.DentistID,
		ScheduledAt: a.ScheduledAt,
		EndsAt:      a.ScheduledAt.Add(scheduling.SlotDuration),
		Status:      string(a.Status),
		StatusLabel: scheduling.StatusLabel(a.Status),
		Procedure:   a.Procedure,
		Notes:       a.Notes,
		Value:       a.Value,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if p != nil {
		r.PatientName = p.Name
		r.PatientCPF = p.CPF
	}
	if d != nil {
		r.DentistName = d.Name
		r.DentistCRO = d.CRO
	}
	return r
}
