package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus estado de una consulta.
type AppointmentStatus string

const (
	StatusAgendada    AppointmentStatus = "AGENDADA"
	StatusConfirmada  AppointmentStatus = "CONFIRMADA"
	StatusEmAndamento AppointmentStatus = "EM_ANDAMENTO"
	StatusConcluida   AppointmentStatus = "CONCLUIDA"
	StatusCancelada   AppointmentStatus = "CANCELADA"
	StatusFaltou      AppointmentStatus = "FALTOU"
)

// Appointment consulta de un paciente con un dentista. Ocupa la franja [ScheduledAt, ScheduledAt+1h).
type Appointment struct {
	ID          int64
	PatientID   int64
	DentistID   int64
	ScheduledAt time.Time
	Status      AppointmentStatus
	Procedure   *string
	Notes       *string
	Value       *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
