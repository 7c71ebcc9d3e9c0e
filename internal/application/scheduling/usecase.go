package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/ports"
	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
	"github.com/jhoicas/odonto-api/internal/domain/scheduling"
	"github.com/jhoicas/odonto-api/pkg/logger"
)

// AppointmentUseCase agenda de consultas: creación y edición con detección de conflictos
// por dentista y máquina de estados.
type AppointmentUseCase struct {
	txRunner     TxRunner
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	dentists     repository.DentistRepository
	loc          *time.Location
	events       ports.EventRecorder
	log          *logger.Logger
	now          func() time.Time
}

// NewAppointmentUseCase construye el caso de uso. loc es la zona horaria de la clínica.
func NewAppointmentUseCase(
	txRunner TxRunner,
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	dentists repository.DentistRepository,
	loc *time.Location,
	events ports.EventRecorder,
	log *logger.Logger,
) *AppointmentUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AppointmentUseCase{
		txRunner:     txRunner,
		appointments: appointments,
		patients:     patients,
		dentists:     dentists,
		loc:          loc,
		events:       ports.OrNop(events),
		log:          log.Named("scheduling"),
		now:          time.Now,
	}
}

// Create agenda una consulta. El dentista queda bloqueado durante la transacción para que
// dos reservas simultáneas no pasen ambas la verificación de conflicto.
func (uc *AppointmentUseCase) Create(ctx context.Context, in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if in.PatientID <= 0 || in.DentistID <= 0 || in.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: patient_id, dentist_id y scheduled_at son obligatorios", domain.ErrInvalidInput)
	}
	status := entity.StatusAgendada
	if in.Status != "" {
		status = entity.AppointmentStatus(in.Status)
		if !scheduling.ValidStatus(status) || scheduling.IsTerminal(status) {
			return nil, fmt.Errorf("%w: estado inicial %q no permitido", domain.ErrInvalidInput, in.Status)
		}
	}
	if in.Value != nil && in.Value.IsNegative() {
		return nil, fmt.Errorf("%w: value no puede ser negativo", domain.ErrInvalidInput)
	}

	var (
		appt    *entity.Appointment
		patient *entity.Patient
		dentist *entity.Dentist
	)
	err := uc.txRunner.RunScheduling(ctx, func(
		appointmentRepo repository.AppointmentRepository,
		dentistRepo repository.DentistRepository,
		patientRepo repository.PatientRepository,
	) error {
		var err error
		if patient, err = activePatient(ctx, patientRepo, in.PatientID); err != nil {
			return err
		}
		if dentist, err = lockDentist(ctx, dentistRepo, in.DentistID, true); err != nil {
			return err
		}
		if err := uc.checkConflict(ctx, appointmentRepo, in.DentistID, in.ScheduledAt, 0); err != nil {
			return err
		}
		now := uc.now()
		appt = &entity.Appointment{
			PatientID:   in.PatientID,
			DentistID:   in.DentistID,
			ScheduledAt: in.ScheduledAt,
			Status:      status,
			Procedure:   in.Procedure,
			Notes:       in.Notes,
			Value:       in.Value,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return appointmentRepo.Create(ctx, appt)
	})
	if err != nil {
		return nil, err
	}

	uc.events.AppointmentCreated()
	uc.log.Info().Int64("appointment_id", appt.ID).Int64("dentist_id", appt.DentistID).
		Time("scheduled_at", appt.ScheduledAt).Msg("consulta agendada")
	return toAppointmentResponse(appt, patient, dentist), nil
}

// Update aplica una actualización parcial. Si cambian dentista u horario se repite la
// verificación de conflicto excluyendo la propia consulta.
func (uc *AppointmentUseCase) Update(ctx context.Context, id int64, in dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	var (
		appt    *entity.Appointment
		patient *entity.Patient
		dentist *entity.Dentist
	)
	err := uc.txRunner.RunScheduling(ctx, func(
		appointmentRepo repository.AppointmentRepository,
		dentistRepo repository.DentistRepository,
		patientRepo repository.PatientRepository,
	) error {
		var err error
		appt, err = appointmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if appt == nil {
			return fmt.Errorf("%w: consulta %d", domain.ErrNotFound, id)
		}
		if scheduling.IsTerminal(appt.Status) {
			return fmt.Errorf("%w: la consulta está %s", domain.ErrInvalidState, appt.Status)
		}

		if in.PatientID.Set {
			if in.PatientID.Null {
				return fmt.Errorf("%w: patient_id no puede ser null", domain.ErrInvalidInput)
			}
			if in.PatientID.Value != appt.PatientID {
				if patient, err = activePatient(ctx, patientRepo, in.PatientID.Value); err != nil {
					return err
				}
				appt.PatientID = in.PatientID.Value
			}
		}

		dentistChanged := false
		if in.DentistID.Set {
			if in.DentistID.Null {
				return fmt.Errorf("%w: dentist_id no puede ser null", domain.ErrInvalidInput)
			}
			dentistChanged = in.DentistID.Value != appt.DentistID
			appt.DentistID = in.DentistID.Value
		}

		timeChanged := false
		if in.ScheduledAt.Set {
			if in.ScheduledAt.Null || in.ScheduledAt.Value.IsZero() {
				return fmt.Errorf("%w: scheduled_at no puede ser null", domain.ErrInvalidInput)
			}
			timeChanged = !in.ScheduledAt.Value.Equal(appt.ScheduledAt)
			appt.ScheduledAt = in.ScheduledAt.Value
		}

		if in.Status.Set {
			if in.Status.Null {
				return fmt.Errorf("%w: status no puede ser null", domain.ErrInvalidInput)
			}
			next := entity.AppointmentStatus(in.Status.Value)
			if !scheduling.ValidStatus(next) {
				return fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, in.Status.Value)
			}
			if next != appt.Status {
				if !scheduling.CanTransition(appt.Status, next) {
					return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, appt.Status, next)
				}
				appt.Status = next
			}
		}

		if in.Procedure.Set {
			appt.Procedure = in.Procedure.Ptr()
		}
		if in.Notes.Set {
			appt.Notes = in.Notes.Ptr()
		}
		if in.Value.Set {
			if in.Value.HasValue() && in.Value.Value.IsNegative() {
				return fmt.Errorf("%w: value no puede ser negativo", domain.ErrInvalidInput)
			}
			appt.Value = in.Value.Ptr()
		}

		if dentistChanged || timeChanged {
			if dentist, err = lockDentist(ctx, dentistRepo, appt.DentistID, dentistChanged); err != nil {
				return err
			}
			if appt.Status != entity.StatusCancelada {
				if err := uc.checkConflict(ctx, appointmentRepo, appt.DentistID, appt.ScheduledAt, appt.ID); err != nil {
					return err
				}
			}
		}

		appt.UpdatedAt = uc.now()
		return appointmentRepo.Update(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("appointment_id", appt.ID).Msg("consulta actualizada")
	return uc.enrich(ctx, appt, patient, dentist)
}

// ChangeStatus aplica la tabla de transiciones.
func (uc *AppointmentUseCase) ChangeStatus(ctx context.Context, id int64, status string) (*dto.AppointmentResponse, error) {
	next := entity.AppointmentStatus(status)
	if !scheduling.ValidStatus(next) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, status)
	}
	appt, err := uc.transition(ctx, id, func(a *entity.Appointment) error {
		if !scheduling.CanTransition(a.Status, next) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, a.Status, next)
		}
		return nil
	}, next)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, appt, nil, nil)
}

// Cancel pasa la consulta a CANCELADA. Una consulta ya finalizada devuelve ErrInvalidState.
func (uc *AppointmentUseCase) Cancel(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	appt, err := uc.transition(ctx, id, func(a *entity.Appointment) error {
		if scheduling.IsTerminal(a.Status) {
			return fmt.Errorf("%w: la consulta ya está %s", domain.ErrInvalidState, a.Status)
		}
		if !scheduling.CanTransition(a.Status, entity.StatusCancelada) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, a.Status, entity.StatusCancelada)
		}
		return nil
	}, entity.StatusCancelada)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, appt, nil, nil)
}

func (uc *AppointmentUseCase) transition(ctx context.Context, id int64, guard func(*entity.Appointment) error, next entity.AppointmentStatus) (*entity.Appointment, error) {
	var appt *entity.Appointment
	err := uc.txRunner.RunScheduling(ctx, func(
		appointmentRepo repository.AppointmentRepository,
		_ repository.DentistRepository,
		_ repository.PatientRepository,
	) error {
		var err error
		appt, err = appointmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if appt == nil {
			return fmt.Errorf("%w: consulta %d", domain.ErrNotFound, id)
		}
		if err := guard(appt); err != nil {
			return err
		}
		appt.Status = next
		appt.UpdatedAt = uc.now()
		return appointmentRepo.Update(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	uc.events.AppointmentStatusChanged(string(next))
	uc.log.Info().Int64("appointment_id", id).Str("status", string(next)).Msg("estado de consulta actualizado")
	return appt, nil
}

// checkConflict busca consultas del dentista que choquen con [start, start+1h).
func (uc *AppointmentUseCase) checkConflict(ctx context.Context, repo repository.AppointmentRepository, dentistID int64, start time.Time, excludeID int64) error {
	from, to := scheduling.SearchWindow(start, uc.loc)
	candidates, err := repo.ListByDentistBetween(ctx, dentistID, from, to)
	if err != nil {
		return fmt.Errorf("listar agenda del dentista: %w", err)
	}
	if c := scheduling.FindConflict(candidates, start, excludeID); c != nil {
		uc.events.SchedulingConflict()
		uc.log.Debug().Int64("dentist_id", dentistID).Int64("conflicting_id", c.ID).
			Time("requested", start).Msg("conflicto de agenda")
		return fmt.Errorf("%w: choca con la consulta %d de las %s",
			domain.ErrSchedulingConflict, c.ID, c.ScheduledAt.In(uc.loc).Format("15:04"))
	}
	return nil
}

func activePatient(ctx context.Context, repo repository.PatientRepository, id int64) (*entity.Patient, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: paciente %d", domain.ErrNotFound, id)
	}
	if !p.Active {
		return nil, fmt.Errorf("%w: paciente %d", domain.ErrInactiveEntity, id)
	}
	return p, nil
}

// lockDentist bloquea la fila del dentista; requireActive se exige al asignar un dentista nuevo.
func lockDentist(ctx context.Context, repo repository.DentistRepository, id int64, requireActive bool) (*entity.Dentist, error) {
	d, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: dentista %d", domain.ErrNotFound, id)
	}
	if requireActive && !d.Active {
		return nil, fmt.Errorf("%w: dentista %d", domain.ErrInactiveEntity, id)
	}
	return d, nil
}
