package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

var _ repository.PatientRepository = (*PatientRepo)(nil)

const patientColumns = `id, name, cpf, birth_date, sex, email, phone, mobile,
	street, number, complement, neighborhood, city, state, zip_code,
	notes, health_plan_id, active, created_at, updated_at`

// PatientRepo implementación sobre PostgreSQL (usable con pool o tx).
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

// Create persiste un paciente. CPF repetido -> ErrDuplicate.
func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (name, cpf, birth_date, sex, email, phone, mobile,
			street, number, complement, neighborhood, city, state, zip_code,
			notes, health_plan_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id`
	a := p.Address
	err := r.q.QueryRow(ctx, query,
		p.Name, p.CPF, p.BirthDate, nullIfEmpty(p.Sex), nullIfEmpty(p.Email), nullIfEmpty(p.Phone), nullIfEmpty(p.Mobile),
		nullIfEmpty(a.Street), nullIfEmpty(a.Number), nullIfEmpty(a.Complement), nullIfEmpty(a.Neighborhood),
		nullIfEmpty(a.City), nullIfEmpty(a.State), nullIfEmpty(a.ZipCode),
		nullIfEmpty(p.Notes), p.HealthPlanID, p.Active, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return r.mapWriteErr(err, p, "insert patient")
	}
	return nil
}

// GetByID obtiene un paciente por ID.
func (r *PatientRepo) GetByID(ctx context.Context, id int64) (*entity.Patient, error) {
	var (
		p                                    entity.Patient
		sex, email, phone, mobile, notes     *string
		street, number, complement, district *string
		city, state, zip                     *string
	)
	err := r.q.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.CPF, &p.BirthDate, &sex, &email, &phone, &mobile,
		&street, &number, &complement, &district, &city, &state, &zip,
		&notes, &p.HealthPlanID, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	p.Sex, p.Email, p.Phone, p.Mobile, p.Notes = deref(sex), deref(email), deref(phone), deref(mobile), deref(notes)
	p.Address = entity.Address{
		Street:       deref(street),
		Number:       deref(number),
		Complement:   deref(complement),
		Neighborhood: deref(district),
		City:         deref(city),
		State:        deref(state),
		ZipCode:      deref(zip),
	}
	return &p, nil
}

// Update reemplaza todos los datos del paciente.
func (r *PatientRepo) Update(ctx context.Context, p *entity.Patient) error {
	query := `
		UPDATE patients SET name = $2, cpf = $3, birth_date = $4, sex = $5, email = $6, phone = $7, mobile = $8,
			street = $9, number = $10, complement = $11, neighborhood = $12, city = $13, state = $14, zip_code = $15,
			notes = $16, health_plan_id = $17, active = $18, updated_at = $19
		WHERE id = $1`
	a := p.Address
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.CPF, p.BirthDate, nullIfEmpty(p.Sex), nullIfEmpty(p.Email), nullIfEmpty(p.Phone), nullIfEmpty(p.Mobile),
		nullIfEmpty(a.Street), nullIfEmpty(a.Number), nullIfEmpty(a.Complement), nullIfEmpty(a.Neighborhood),
		nullIfEmpty(a.City), nullIfEmpty(a.State), nullIfEmpty(a.ZipCode),
		nullIfEmpty(p.Notes), p.HealthPlanID, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteErr(err, p, "update patient")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PatientRepo) CountActive(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM patients WHERE active`)
}

func (r *PatientRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM patients WHERE created_at >= $1 AND created_at < $2`, from, to)
}

func (r *PatientRepo) CountByHealthPlan(ctx context.Context, healthPlanID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM patients WHERE health_plan_id = $1`, healthPlanID)
}

func (r *PatientRepo) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func (r *PatientRepo) mapWriteErr(err error, p *entity.Patient, op string) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: CPF %s", domain.ErrDuplicate, p.CPF)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: convenio inexistente", domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
