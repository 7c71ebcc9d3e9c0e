package repository

import (
	"context"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

// DentistRepository puerto de persistencia para dentistas.
type DentistRepository interface {
	Create(ctx context.Context, d *entity.Dentist) error
	GetByID(ctx context.Context, id int64) (*entity.Dentist, error)
	// GetForUpdate bloquea la fila del dentista; serializa reservas concurrentes de su agenda.
	GetForUpdate(ctx context.Context, id int64) (*entity.Dentist, error)
	Update(ctx context.Context, d *entity.Dentist) error
	CountActive(ctx context.Context) (int64, error)
}
