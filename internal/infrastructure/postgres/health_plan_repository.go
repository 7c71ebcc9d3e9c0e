package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

var _ repository.HealthPlanRepository = (*HealthPlanRepo)(nil)

const healthPlanColumns = `id, name, ans_code, description, active, created_at, updated_at`

// HealthPlanRepo implementación sobre PostgreSQL.
type HealthPlanRepo struct {
	q Querier
}

// NewHealthPlanRepository construye el adaptador.
func NewHealthPlanRepository(q Querier) *HealthPlanRepo {
	return &HealthPlanRepo{q: q}
}

func (r *HealthPlanRepo) Create(ctx context.Context, h *entity.HealthPlan) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO health_plans (name, ans_code, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		h.Name, nullIfEmpty(h.ANSCode), nullIfEmpty(h.Description), h.Active, h.CreatedAt, h.UpdatedAt,
	).Scan(&h.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código ANS %s", domain.ErrDuplicate, h.ANSCode)
		}
		return fmt.Errorf("insert health plan: %w", err)
	}
	return nil
}

func (r *HealthPlanRepo) GetByID(ctx context.Context, id int64) (*entity.HealthPlan, error) {
	h, err := scanHealthPlan(r.q.QueryRow(ctx, `SELECT `+healthPlanColumns+` FROM health_plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get health plan: %w", err)
	}
	return h, nil
}

func (r *HealthPlanRepo) Update(ctx context.Context, h *entity.HealthPlan) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE health_plans SET name = $2, ans_code = $3, description = $4, active = $5, updated_at = $6
		WHERE id = $1`,
		h.ID, h.Name, nullIfEmpty(h.ANSCode), nullIfEmpty(h.Description), h.Active, h.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código ANS %s", domain.ErrDuplicate, h.ANSCode)
		}
		return fmt.Errorf("update health plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List convenios ordenados por nombre; onlyActive filtra los inactivos.
func (r *HealthPlanRepo) List(ctx context.Context, onlyActive bool) ([]*entity.HealthPlan, error) {
	query := `SELECT ` + healthPlanColumns + ` FROM health_plans`
	if onlyActive {
		query += ` WHERE active`
	}
	query += ` ORDER BY name, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list health plans: %w", err)
	}
	defer rows.Close()
	list := []*entity.HealthPlan{}
	for rows.Next() {
		h, err := scanHealthPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan health plan: %w", err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// Delete elimina el convenio. Si aún tiene pacientes la FK lo impide -> ErrInvalidState.
func (r *HealthPlanRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM health_plans WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el convenio tiene pacientes vinculados", domain.ErrInvalidState)
		}
		return fmt.Errorf("delete health plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanHealthPlan(row pgx.Row) (*entity.HealthPlan, error) {
	var (
		h                 entity.HealthPlan
		ansCode, descript *string
	)
	if err := row.Scan(&h.ID, &h.Name, &ansCode, &descript, &h.Active, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	h.ANSCode, h.Description = deref(ansCode), deref(descript)
	return &h, nil
}
