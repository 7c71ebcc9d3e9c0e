package repository

import (
	"context"
	"time"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

// PatientRepository puerto de persistencia para pacientes. Create y Update devuelven
// domain.ErrDuplicate si el CPF ya existe.
type PatientRepository interface {
	Create(ctx context.Context, p *entity.Patient) error
	GetByID(ctx context.Context, id int64) (*entity.Patient, error)
	Update(ctx context.Context, p *entity.Patient) error
	CountActive(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByHealthPlan(ctx context.Context, healthPlanID int64) (int64, error)
}
