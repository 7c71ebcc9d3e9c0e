package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAppointmentRequest body para POST /api/appointments.
type CreateAppointmentRequest struct {
	PatientID   int64            `json:"patient_id"`
	DentistID   int64            `json:"dentist_id"`
	ScheduledAt time.Time        `json:"scheduled_at"`
	Status      string           `json:"status,omitempty"` // por defecto AGENDADA
	Procedure   *string          `json:"procedure,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
}

// UpdateAppointmentRequest body para PUT /api/appointments/:id (actualización parcial).
// Una clave ausente no modifica el campo; null limpia los campos opcionales.
type UpdateAppointmentRequest struct {
	PatientID   Optional[int64]           `json:"patient_id"`
	DentistID   Optional[int64]           `json:"dentist_id"`
	ScheduledAt Optional[time.Time]       `json:"scheduled_at"`
	Status      Optional[string]          `json:"status"`
	Procedure   Optional[string]          `json:"procedure"`
	Notes       Optional[string]          `json:"notes"`
	Value       Optional[decimal.Decimal] `json:"value"`
}

// ChangeStatusRequest body para PATCH /api/appointments/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// AppointmentResponse salida de una consulta con datos básicos de paciente y dentista.
type AppointmentResponse struct {
	ID          int64            `json:"id"`
	PatientID   int64            `json:"patient_id"`
	PatientName string           `json:"patient_name,omitempty"`
	PatientCPF  string           `json:"patient_cpf,omitempty"`
	DentistID   int64            `json:"dentist_id"`
	DentistName string           `json:"dentist_name,omitempty"`
	DentistCRO  string           `json:"dentist_cro,omitempty"`
	ScheduledAt time.Time        `json:"scheduled_at"`
	EndsAt      time.Time        `json:"ends_at"`
	Status      string           `json:"status"`
	StatusLabel string           `json:"status_label"`
	Procedure   *string          `json:"procedure,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
