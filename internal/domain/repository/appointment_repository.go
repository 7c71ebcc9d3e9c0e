package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

// AppointmentRepository define el puerto de persistencia para consultas.
// GetByID devuelve (nil, nil) si no existe.
type AppointmentRepository interface {
	Create(ctx context.Context, a *entity.Appointment) error
	GetByID(ctx context.Context, id int64) (*entity.Appointment, error)
	Update(ctx context.Context, a *entity.Appointment) error
	// ListByDentistBetween consultas del dentista con ScheduledAt en [from, to), ordenadas por fecha.
	ListByDentistBetween(ctx context.Context, dentistID int64, from, to time.Time) ([]*entity.Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*entity.Appointment, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error)
	// CountBetween cuenta consultas en [from, to); sin statuses cuenta todas.
	CountBetween(ctx context.Context, from, to time.Time, statuses ...entity.AppointmentStatus) (int64, error)
	// SumValueBetween suma Value de las consultas con el estado dado en [from, to).
	SumValueBetween(ctx context.Context, from, to time.Time, status entity.AppointmentStatus) (decimal.Decimal, error)
}
