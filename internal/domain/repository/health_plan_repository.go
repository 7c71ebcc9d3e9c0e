package repository

import (
	"context"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

// HealthPlanRepository puerto de persistencia para convenios.
type HealthPlanRepository interface {
	Create(ctx context.Context, h *entity.HealthPlan) error
	GetByID(ctx context.Context, id int64) (*entity.HealthPlan, error)
	Update(ctx context.Context, h *entity.HealthPlan) error
	List(ctx context.Context, onlyActive bool) ([]*entity.HealthPlan, error)
	Delete(ctx context.Context, id int64) error
}
