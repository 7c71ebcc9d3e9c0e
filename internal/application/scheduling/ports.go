package scheduling

import (
	"context"

	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// La verificación de conflictos y la escritura de la consulta se confirman juntas.
type TxRunner interface {
	RunScheduling(ctx context.Context, fn func(
		appointmentRepo repository.AppointmentRepository,
		dentistRepo repository.DentistRepository,
		patientRepo repository.PatientRepository,
	) error) error
}
