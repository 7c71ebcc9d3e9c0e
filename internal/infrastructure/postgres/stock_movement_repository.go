package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL. Sólo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento con sus saldos antes/después.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (material_id, type, quantity, balance_before, balance_after, notes, appointment_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.MaterialID, string(m.Type), m.Quantity, m.BalanceBefore, m.BalanceAfter,
		nullIfEmpty(m.Notes), m.AppointmentID, m.UserID, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List filtra por material, consulta, tipo y rango [From, To).
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.MaterialID != nil {
		add("material_id = $%d", *f.MaterialID)
	}
	if f.AppointmentID != nil {
		add("appointment_id = $%d", *f.AppointmentID)
	}
	if f.Type != nil {
		add("type = $%d", string(*f.Type))
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}

	query := `SELECT id, material_id, type, quantity, balance_before, balance_after, notes, appointment_id, user_id, created_at
		FROM stock_movements`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	list := []*entity.StockMovement{}
	for rows.Next() {
		var (
			m     entity.StockMovement
			typ   string
			notes *string
		)
		if err := rows.Scan(&m.ID, &m.MaterialID, &typ, &m.Quantity, &m.BalanceBefore, &m.BalanceAfter,
			&notes, &m.AppointmentID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		m.Notes = deref(notes)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountBetween cuenta movimientos registrados en [from, to).
func (r *StockMovementRepo) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1 AND created_at < $2`, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return n, nil
}
