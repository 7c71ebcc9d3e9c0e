package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

const appointmentColumns = `id, patient_id, dentist_id, scheduled_at, status, procedure, notes, value, created_at, updated_at`

// AppointmentRepo implementación sobre PostgreSQL (usable con pool o tx).
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

// Create persiste una consulta. El índice único parcial (dentista, inicio) respalda el chequeo de conflictos.
func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	query := `
		INSERT INTO appointments (patient_id, dentist_id, scheduled_at, status, procedure, notes, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		a.PatientID, a.DentistID, a.ScheduledAt, string(a.Status), a.Procedure, a.Notes, a.Value,
		a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el dentista ya tiene una consulta a las %s", domain.ErrSchedulingConflict, a.ScheduledAt.Format(time.RFC3339))
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// GetByID obtiene una consulta por ID.
func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*entity.Appointment, error) {
	a, err := scanAppointment(r.q.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// Update reemplaza los datos de la consulta.
func (r *AppointmentRepo) Update(ctx context.Context, a *entity.Appointment) error {
	query := `
		UPDATE appointments SET patient_id = $2, dentist_id = $3, scheduled_at = $4, status = $5,
			procedure = $6, notes = $7, value = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.PatientID, a.DentistID, a.ScheduledAt, string(a.Status), a.Procedure, a.Notes, a.Value, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el dentista ya tiene una consulta a las %s", domain.ErrSchedulingConflict, a.ScheduledAt.Format(time.RFC3339))
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByDentistBetween consultas del dentista en [from, to).
func (r *AppointmentRepo) ListByDentistBetween(ctx context.Context, dentistID int64, from, to time.Time) ([]*entity.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments
		WHERE dentist_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		ORDER BY scheduled_at, id`, dentistID, from, to)
}

// ListByPatient historial del paciente, más recientes primero.
func (r *AppointmentRepo) ListByPatient(ctx context.Context, patientID int64) ([]*entity.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments
		WHERE patient_id = $1 ORDER BY scheduled_at DESC, id DESC`, patientID)
}

// ListBetween consultas de todos los dentistas en [from, to).
func (r *AppointmentRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments
		WHERE scheduled_at >= $1 AND scheduled_at < $2 ORDER BY scheduled_at, id`, from, to)
}

// CountBetween cuenta consultas en [from, to), opcionalmente sólo de los estados dados.
func (r *AppointmentRepo) CountBetween(ctx context.Context, from, to time.Time, statuses ...entity.AppointmentStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE scheduled_at >= $1 AND scheduled_at < $2`
	args := []any{from, to}
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		query += ` AND status = ANY($3)`
		args = append(args, names)
	}
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}

// SumValueBetween suma los valores de las consultas con el estado dado en [from, to).
func (r *AppointmentRepo) SumValueBetween(ctx context.Context, from, to time.Time, status entity.AppointmentStatus) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(value), 0) FROM appointments
		WHERE status = $1 AND scheduled_at >= $2 AND scheduled_at < $3`,
		string(status), from, to,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum appointment values: %w", err)
	}
	return sum, nil
}

func (r *AppointmentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Appointment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	list := []*entity.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var (
		a      entity.Appointment
		status string
	)
	err := row.Scan(&a.ID, &a.PatientID, &a.DentistID, &a.ScheduledAt, &status,
		&a.Procedure, &a.Notes, &a.Value, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = entity.AppointmentStatus(status)
	return &a, nil
}
