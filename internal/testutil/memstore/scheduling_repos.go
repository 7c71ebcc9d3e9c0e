package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

var (
	_ repository.AppointmentRepository = (*AppointmentRepo)(nil)
	_ repository.PatientRepository     = (*PatientRepo)(nil)
	_ repository.DentistRepository     = (*DentistRepo)(nil)
	_ repository.HealthPlanRepository  = (*HealthPlanRepo)(nil)
	_ repository.UserRepository        = (*UserRepo)(nil)
)

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// AppointmentRepo consultas en memoria.
type AppointmentRepo struct{ s *Store }

func (r *AppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("appointments.Create"); err != nil {
		return err
	}
	a.ID = r.s.data.nextID()
	r.s.data.appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id int64) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AppointmentRepo) Update(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("appointments.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.appointments[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) filter(keep func(entity.Appointment) bool) []*entity.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Appointment{}
	for _, a := range r.s.data.appointments {
		if keep(a) {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out
}

func (r *AppointmentRepo) ListByDentistBetween(_ context.Context, dentistID int64, from, to time.Time) ([]*entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool {
		return a.DentistID == dentistID && inRange(a.ScheduledAt, from, to)
	}), nil
}

func (r *AppointmentRepo) ListByPatient(_ context.Context, patientID int64) ([]*entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *AppointmentRepo) ListBetween(_ context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return inRange(a.ScheduledAt, from, to) }), nil
}

func (r *AppointmentRepo) CountBetween(_ context.Context, from, to time.Time, statuses ...entity.AppointmentStatus) (int64, error) {
	list := r.filter(func(a entity.Appointment) bool {
		if !inRange(a.ScheduledAt, from, to) {
			return false
		}
		if len(statuses) == 0 {
			return true
		}
		for _, s := range statuses {
			if a.Status == s {
				return true
			}
		}
		return false
	})
	return int64(len(list)), nil
}

func (r *AppointmentRepo) SumValueBetween(_ context.Context, from, to time.Time, status entity.AppointmentStatus) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range r.filter(func(a entity.Appointment) bool {
		return a.Status == status && inRange(a.ScheduledAt, from, to)
	}) {
		if a.Value != nil {
			sum = sum.Add(*a.Value)
		}
	}
	return sum, nil
}

// PatientRepo pacientes en memoria; CPF único.
type PatientRepo struct{ s *Store }

func (r *PatientRepo) duplicated(p *entity.Patient) bool {
	for _, o := range r.s.data.patients {
		if o.ID != p.ID && o.CPF == p.CPF {
			return true
		}
	}
	return false
}

func (r *PatientRepo) Create(_ context.Context, p *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicated(p) {
		return domain.ErrDuplicate
	}
	p.ID = r.s.data.nextID()
	r.s.data.patients[p.ID] = *p
	return nil
}

func (r *PatientRepo) GetByID(_ context.Context, id int64) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.patients[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PatientRepo) Update(_ context.Context, p *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.patients[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.duplicated(p) {
		return domain.ErrDuplicate
	}
	r.s.data.patients[p.ID] = *p
	return nil
}

func (r *PatientRepo) count(keep func(entity.Patient) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.data.patients {
		if keep(p) {
			n++
		}
	}
	return n
}

func (r *PatientRepo) CountActive(_ context.Context) (int64, error) {
	return r.count(func(p entity.Patient) bool { return p.Active }), nil
}

func (r *PatientRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	return r.count(func(p entity.Patient) bool { return inRange(p.CreatedAt, from, to) }), nil
}

func (r *PatientRepo) CountByHealthPlan(_ context.Context, healthPlanID int64) (int64, error) {
	return r.count(func(p entity.Patient) bool {
		return p.HealthPlanID != nil && *p.HealthPlanID == healthPlanID
	}), nil
}

// DentistRepo dentistas en memoria; email y CRO únicos.
type DentistRepo struct{ s *Store }

func (r *DentistRepo) duplicated(d *entity.Dentist) bool {
	for _, o := range r.s.data.dentists {
		if o.ID != d.ID && (o.CRO == d.CRO || o.Email == d.Email) {
			return true
		}
	}
	return false
}

func (r *DentistRepo) Create(_ context.Context, d *entity.Dentist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicated(d) {
		return domain.ErrDuplicate
	}
	d.ID = r.s.data.nextID()
	r.s.data.dentists[d.ID] = *d
	return nil
}

func (r *DentistRepo) GetByID(_ context.Context, id int64) (*entity.Dentist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.dentists[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// GetForUpdate no necesita bloqueo propio: las transacciones del store ya están serializadas.
func (r *DentistRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Dentist, error) {
	return r.GetByID(ctx, id)
}

func (r *DentistRepo) Update(_ context.Context, d *entity.Dentist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.dentists[d.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.duplicated(d) {
		return domain.ErrDuplicate
	}
	r.s.data.dentists[d.ID] = *d
	return nil
}

func (r *DentistRepo) CountActive(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, d := range r.s.data.dentists {
		if d.Active {
			n++
		}
	}
	return n, nil
}

// HealthPlanRepo convenios en memoria; código ANS único cuando existe.
type HealthPlanRepo struct{ s *Store }

func (r *HealthPlanRepo) duplicated(h *entity.HealthPlan) bool {
	if h.ANSCode == "" {
		return false
	}
	for _, o := range r.s.data.plans {
		if o.ID != h.ID && o.ANSCode == h.ANSCode {
			return true
		}
	}
	return false
}

func (r *HealthPlanRepo) Create(_ context.Context, h *entity.HealthPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicated(h) {
		return domain.ErrDuplicate
	}
	h.ID = r.s.data.nextID()
	r.s.data.plans[h.ID] = *h
	return nil
}

func (r *HealthPlanRepo) GetByID(_ context.Context, id int64) (*entity.HealthPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.data.plans[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *HealthPlanRepo) Update(_ context.Context, h *entity.HealthPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.plans[h.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.duplicated(h) {
		return domain.ErrDuplicate
	}
	r.s.data.plans[h.ID] = *h
	return nil
}

func (r *HealthPlanRepo) List(_ context.Context, onlyActive bool) ([]*entity.HealthPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.HealthPlan{}
	for _, h := range r.s.data.plans {
		if onlyActive && !h.Active {
			continue
		}
		h := h
		out = append(out, &h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *HealthPlanRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.plans, id)
	return nil
}

// UserRepo usuarios en memoria; email único.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.data.users {
		if o.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	u.ID = r.s.data.nextID()
	r.s.data.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.data.users)), nil
}
