package repository

import (
	"context"
	"time"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

// MovementFilter criterios de consulta del libro. Los campos nil no filtran.
type MovementFilter struct {
	MaterialID    *int64
	AppointmentID *int64
	Type          *entity.MovementType
	From          *time.Time // inclusive
	To            *time.Time // exclusive
}

// StockMovementRepository libro de movimientos: sólo inserción y lectura.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	// List devuelve los movimientos que cumplen el filtro ordenados por fecha e id.
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}
