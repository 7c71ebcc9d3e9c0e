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

var _ repository.DentistRepository = (*DentistRepo)(nil)

const dentistColumns = `id, name, email, cro, specialty, phone, active, created_at, updated_at`

// DentistRepo implementación sobre PostgreSQL (usable con pool o tx).
type DentistRepo struct {
	q Querier
}

// NewDentistRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDentistRepository(q Querier) *DentistRepo {
	return &DentistRepo{q: q}
}

// Create persiste un dentista. Email o CRO repetido -> ErrDuplicate.
func (r *DentistRepo) Create(ctx context.Context, d *entity.Dentist) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO dentists (name, email, cro, specialty, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		d.Name, d.Email, d.CRO, nullIfEmpty(d.Specialty), nullIfEmpty(d.Phone), d.Active, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email o CRO ya registrado", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert dentist: %w", err)
	}
	return nil
}

func (r *DentistRepo) GetByID(ctx context.Context, id int64) (*entity.Dentist, error) {
	return r.getOne(ctx, `SELECT `+dentistColumns+` FROM dentists WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del dentista hasta el fin de la transacción.
func (r *DentistRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Dentist, error) {
	return r.getOne(ctx, `SELECT `+dentistColumns+` FROM dentists WHERE id = $1 FOR UPDATE`, id)
}

func (r *DentistRepo) Update(ctx context.Context, d *entity.Dentist) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE dentists SET name = $2, email = $3, cro = $4, specialty = $5, phone = $6, active = $7, updated_at = $8
		WHERE id = $1`,
		d.ID, d.Name, d.Email, d.CRO, nullIfEmpty(d.Specialty), nullIfEmpty(d.Phone), d.Active, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email o CRO ya registrado", domain.ErrDuplicate)
		}
		return fmt.Errorf("update dentist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DentistRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM dentists WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count dentists: %w", err)
	}
	return n, nil
}

func (r *DentistRepo) getOne(ctx context.Context, query string, id int64) (*entity.Dentist, error) {
	var (
		d                entity.Dentist
		specialty, phone *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Email, &d.CRO, &specialty, &phone, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dentist: %w", err)
	}
	d.Specialty, d.Phone = deref(specialty), deref(phone)
	return &d, nil
}
