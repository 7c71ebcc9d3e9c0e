package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

// MaterialUsageRepository puerto de persistencia para materiales usados en consultas.
type MaterialUsageRepository interface {
	Create(ctx context.Context, u *entity.MaterialUsage) error
	GetByID(ctx context.Context, id int64) (*entity.MaterialUsage, error)
	Update(ctx context.Context, u *entity.MaterialUsage) error
	Delete(ctx context.Context, id int64) error
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*entity.MaterialUsage, error)
	ListByMaterial(ctx context.Context, materialID int64) ([]*entity.MaterialUsage, error)
	SumTotalByAppointment(ctx context.Context, appointmentID int64) (decimal.Decimal, error)
	SumTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
