package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

var _ repository.MaterialUsageRepository = (*MaterialUsageRepo)(nil)

const usageColumns = `id, material_id, appointment_id, quantity, unit_price, total, user_id, used_at`

// MaterialUsageRepo implementación sobre PostgreSQL (usable con pool o tx).
type MaterialUsageRepo struct {
	q Querier
}

// NewMaterialUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialUsageRepository(q Querier) *MaterialUsageRepo {
	return &MaterialUsageRepo{q: q}
}

func (r *MaterialUsageRepo) Create(ctx context.Context, u *entity.MaterialUsage) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO material_usages (material_id, appointment_id, quantity, unit_price, total, user_id, used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		u.MaterialID, u.AppointmentID, u.Quantity, u.UnitPrice, u.Total, u.UserID, u.UsedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert material usage: %w", err)
	}
	return nil
}

func (r *MaterialUsageRepo) GetByID(ctx context.Context, id int64) (*entity.MaterialUsage, error) {
	u, err := scanUsage(r.q.QueryRow(ctx, `SELECT `+usageColumns+` FROM material_usages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material usage: %w", err)
	}
	return u, nil
}

// Update sólo cambia cantidad y total; el precio unitario queda congelado.
func (r *MaterialUsageRepo) Update(ctx context.Context, u *entity.MaterialUsage) error {
	tag, err := r.q.Exec(ctx, `UPDATE material_usages SET quantity = $2, total = $3 WHERE id = $1`,
		u.ID, u.Quantity, u.Total)
	if err != nil {
		return fmt.Errorf("update material usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MaterialUsageRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM material_usages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MaterialUsageRepo) ListByAppointment(ctx context.Context, appointmentID int64) ([]*entity.MaterialUsage, error) {
	return r.list(ctx, `SELECT `+usageColumns+` FROM material_usages WHERE appointment_id = $1 ORDER BY used_at, id`, appointmentID)
}

func (r *MaterialUsageRepo) ListByMaterial(ctx context.Context, materialID int64) ([]*entity.MaterialUsage, error) {
	return r.list(ctx, `SELECT `+usageColumns+` FROM material_usages WHERE material_id = $1 ORDER BY used_at, id`, materialID)
}

// SumTotalByAppointment costo de materiales de una consulta.
func (r *MaterialUsageRepo) SumTotalByAppointment(ctx context.Context, appointmentID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0) FROM material_usages WHERE appointment_id = $1`, appointmentID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum usage totals: %w", err)
	}
	return sum, nil
}

// SumTotalBetween costo de materiales usados en [from, to).
func (r *MaterialUsageRepo) SumTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0) FROM material_usages WHERE used_at >= $1 AND used_at < $2`, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum usage totals: %w", err)
	}
	return sum, nil
}

func (r *MaterialUsageRepo) list(ctx context.Context, query string, arg any) ([]*entity.MaterialUsage, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list material usages: %w", err)
	}
	defer rows.Close()
	list := []*entity.MaterialUsage{}
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material usage: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUsage(row pgx.Row) (*entity.MaterialUsage, error) {
	var u entity.MaterialUsage
	if err := row.Scan(&u.ID, &u.MaterialID, &u.AppointmentID, &u.Quantity, &u.UnitPrice, &u.Total, &u.UserID, &u.UsedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
